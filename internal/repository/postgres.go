// internal/repository/postgres.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	_ "github.com/lib/pq"

	"origination-workers/internal/common/errors"
	"origination-workers/internal/lifecycle"
)

// PostgresRepository stores applications in a single table with the
// request, history and artifacts serialized as jsonb. The version
// column is the optimistic-concurrency marker.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// row payload mirrors the non-indexed part of lifecycle.Application.
type payload struct {
	Request   lifecycle.LoanRequest    `json:"request"`
	History   []lifecycle.HistoryEntry `json:"history"`
	Artifacts []lifecycle.Artifact     `json:"artifacts"`
}

func (r *PostgresRepository) Create(ctx context.Context, app *lifecycle.Application) error {
	body, err := json.Marshal(payload{Request: app.Request, History: app.History, Artifacts: app.Artifacts})
	if err != nil {
		return errors.NewInvalidInputError("application", err.Error())
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO applications (id, applicant_id, vehicle_plate, status, version, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		app.ID, app.Request.ApplicantID, app.Request.VehiclePlate,
		string(app.Status), app.Version, body, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return errors.NewStorageUnavailableError(fmt.Errorf("insert application: %w", err))
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*lifecycle.Application, error) {
	app := &lifecycle.Application{ID: id}
	var status string
	var body []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT status, version, payload, created_at, updated_at
		FROM applications WHERE id = $1`, id).
		Scan(&status, &app.Version, &body, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewApplicationNotFoundError(id)
		}
		return nil, errors.NewStorageUnavailableError(fmt.Errorf("load application: %w", err))
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.NewStorageUnavailableError(fmt.Errorf("decode application %s: %w", id, err))
	}
	app.Status = lifecycle.Status(status)
	app.Request = p.Request
	app.History = p.History
	app.Artifacts = p.Artifacts
	return app, nil
}

func (r *PostgresRepository) Update(ctx context.Context, app *lifecycle.Application, expectedVersion int64) error {
	body, err := json.Marshal(payload{Request: app.Request, History: app.History, Artifacts: app.Artifacts})
	if err != nil {
		return errors.NewInvalidInputError("application", err.Error())
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $1, version = version + 1, payload = $2, updated_at = $3
		WHERE id = $4 AND version = $5`,
		string(app.Status), body, app.UpdatedAt, app.ID, expectedVersion,
	)
	if err != nil {
		return errors.NewStorageUnavailableError(fmt.Errorf("update application: %w", err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewStorageUnavailableError(fmt.Errorf("update application: %w", err))
	}
	if affected == 0 {
		// Either the row is gone or someone else won the version race.
		var current int64
		err := r.db.QueryRowContext(ctx, `SELECT version FROM applications WHERE id = $1`, app.ID).Scan(&current)
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewApplicationNotFoundError(app.ID)
		}
		if err != nil {
			return errors.NewStorageUnavailableError(fmt.Errorf("version check: %w", err))
		}
		return errors.NewConflictError("application "+app.ID, expectedVersion, current)
	}

	app.Version = expectedVersion + 1
	return nil
}

func (r *PostgresRepository) HasLiveApplication(ctx context.Context, applicantID, vehiclePlate string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE applicant_id = $1 AND vehicle_plate = $2
			  AND status NOT IN ('APPROVED', 'REJECTED', 'CANCELLED', 'EXPIRED')
		)`, applicantID, vehiclePlate).Scan(&exists)
	if err != nil {
		return false, errors.NewStorageUnavailableError(fmt.Errorf("duplicate check: %w", err))
	}
	return exists, nil
}

func (r *PostgresRepository) Counts(ctx context.Context) (*StatusCounts, error) {
	counts := &StatusCounts{ByStatus: make(map[lifecycle.Status]int64)}

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, errors.NewStorageUnavailableError(fmt.Errorf("status counts: %w", err))
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, errors.NewStorageUnavailableError(fmt.Errorf("status counts: %w", err))
		}
		counts.ByStatus[lifecycle.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageUnavailableError(fmt.Errorf("status counts: %w", err))
	}

	// Pending artifact counts come from the stored artifact state, not
	// from placeholder estimates.
	err = r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE a->>'stage' = 'document'),
			COUNT(*) FILTER (WHERE a->>'stage' = 'contract')
		FROM applications, jsonb_array_elements(payload->'artifacts') AS a
		WHERE a->>'status' = 'PENDING' AND (a->>'superseded')::boolean = false`).
		Scan(&counts.PendingDocuments, &counts.PendingContracts)
	if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewStorageUnavailableError(fmt.Errorf("pending artifact counts: %w", err))
	}
	return counts, nil
}
