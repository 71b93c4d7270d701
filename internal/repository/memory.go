// internal/repository/memory.go
package repository

import (
	"context"
	"encoding/json"
	"sync"

	"origination-workers/internal/common/errors"
	"origination-workers/internal/lifecycle"
)

// MemoryRepository is an in-memory ApplicationRepository with the same
// conditional-write semantics as the Postgres store. Used in tests and
// local development.
type MemoryRepository struct {
	mu   sync.RWMutex
	apps map[string]*lifecycle.Application
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{apps: make(map[string]*lifecycle.Application)}
}

// clone deep-copies through JSON so callers never share state with the
// store.
func clone(app *lifecycle.Application) *lifecycle.Application {
	raw, _ := json.Marshal(app)
	out := &lifecycle.Application{}
	_ = json.Unmarshal(raw, out)
	return out
}

func (r *MemoryRepository) Create(_ context.Context, app *lifecycle.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; ok {
		return errors.NewInvalidInputError("applicationId", "application already exists: "+app.ID)
	}
	r.apps[app.ID] = clone(app)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*lifecycle.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, errors.NewApplicationNotFoundError(id)
	}
	return clone(app), nil
}

func (r *MemoryRepository) Update(_ context.Context, app *lifecycle.Application, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.apps[app.ID]
	if !ok {
		return errors.NewApplicationNotFoundError(app.ID)
	}
	if stored.Version != expectedVersion {
		return errors.NewConflictError("application "+app.ID, expectedVersion, stored.Version)
	}
	app.Version = expectedVersion + 1
	r.apps[app.ID] = clone(app)
	return nil
}

func (r *MemoryRepository) HasLiveApplication(_ context.Context, applicantID, vehiclePlate string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, app := range r.apps {
		if app.Request.ApplicantID == applicantID &&
			app.Request.VehiclePlate == vehiclePlate &&
			!app.Status.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) Counts(_ context.Context) (*StatusCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := &StatusCounts{ByStatus: make(map[lifecycle.Status]int64)}
	for _, app := range r.apps {
		counts.ByStatus[app.Status]++
		for _, art := range app.Artifacts {
			if art.Superseded || art.Status != lifecycle.ArtifactPending {
				continue
			}
			if art.Stage == lifecycle.StageDocument {
				counts.PendingDocuments++
			} else {
				counts.PendingContracts++
			}
		}
	}
	return counts, nil
}
