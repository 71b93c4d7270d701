// internal/repository/repository.go
// Package repository persists origination applications with optimistic
// concurrency: every mutation states the version it read, and a
// conflicting concurrent write is rejected, never overwritten.
package repository

import (
	"context"

	"origination-workers/internal/lifecycle"
)

// StatusCounts aggregates live application counts for the console
// dashboards. Always computed from actual stored state.
type StatusCounts struct {
	ByStatus         map[lifecycle.Status]int64 `json:"byStatus"`
	PendingDocuments int64                      `json:"pendingDocuments"`
	PendingContracts int64                      `json:"pendingContracts"`
}

// ApplicationRepository is the storage boundary for the lifecycle
// machine. Implementations must support conditional (version-checked)
// writes.
type ApplicationRepository interface {
	// Create inserts a new application. Fails with InvalidInput if the
	// id already exists.
	Create(ctx context.Context, app *lifecycle.Application) error

	// Get returns the current application state, or ApplicationNotFound.
	Get(ctx context.Context, id string) (*lifecycle.Application, error)

	// Update writes the application only if the stored version still
	// equals expectedVersion, bumping the version on success. A
	// mismatch returns Conflict and leaves storage unchanged.
	Update(ctx context.Context, app *lifecycle.Application, expectedVersion int64) error

	// HasLiveApplication reports whether a non-terminal application
	// already exists for the applicant/plate pair.
	HasLiveApplication(ctx context.Context, applicantID, vehiclePlate string) (bool, error)

	// Counts aggregates dashboard statistics from stored state.
	Counts(ctx context.Context) (*StatusCounts, error)
}
