// internal/lifecycle/artifacts.go
package lifecycle

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"origination-workers/internal/common/errors"
)

// AttachArtifact adds a new PENDING artifact for the given kind. A kind
// may hold at most one live instance: attaching over a rejected one
// supersedes it (the rejected record is kept for audit), attaching over
// a pending or validated one is an input error.
func AttachArtifact(app *Application, kind ArtifactKind, actor Role, now time.Time) (*Artifact, error) {
	if !ValidKind(kind) {
		return nil, errors.NewInvalidInputError("kind", "unknown artifact kind: "+string(kind))
	}
	if app.Status.IsTerminal() {
		return nil, errors.NewIllegalTransitionError(string(app.Status), string(app.Status))
	}

	if existing := app.LiveArtifactByKind(kind); existing != nil {
		if existing.Status != ArtifactRejected {
			return nil, errors.NewInvalidInputError("kind",
				"artifact of kind "+string(kind)+" already attached with status "+string(existing.Status))
		}
		existing.Superseded = true
	}

	art := Artifact{
		ID:         uuid.New().String(),
		Kind:       kind,
		Stage:      StageOf(kind),
		Status:     ArtifactPending,
		UploadedBy: actor,
		UploadedAt: now,
	}
	app.Artifacts = append(app.Artifacts, art)
	app.UpdatedAt = now
	return &app.Artifacts[len(app.Artifacts)-1], nil
}

// ValidateArtifact commits a VALIDATED verdict for one pending artifact.
func ValidateArtifact(app *Application, artifactID string, actor Role, now time.Time) (*Artifact, error) {
	return decideArtifact(app, artifactID, ArtifactValidated, "", actor, now)
}

// RejectArtifact commits a REJECTED verdict. The reason is mandatory
// and non-empty; rejecting without one fails and leaves the artifact
// PENDING.
func RejectArtifact(app *Application, artifactID, reason string, actor Role, now time.Time) (*Artifact, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, errors.NewInvalidInputError("reason", "rejection requires a non-empty reason")
	}
	return decideArtifact(app, artifactID, ArtifactRejected, reason, actor, now)
}

func decideArtifact(app *Application, artifactID string, verdict ArtifactStatus, reason string, actor Role, now time.Time) (*Artifact, error) {
	if !actor.CanValidate() {
		return nil, errors.NewPermissionDeniedError(string(actor), "validate artifacts")
	}

	art := app.ArtifactByID(artifactID)
	if art == nil {
		return nil, errors.NewArtifactNotFoundError(artifactID)
	}
	if art.Superseded {
		return nil, errors.NewInvalidInputError("artifactId", "artifact has been superseded by a re-upload")
	}
	// PENDING is the only state that accepts a verdict. VALIDATED and
	// REJECTED are terminal per artifact: a second concurrent decision
	// must observe this and retry against fresh state.
	if art.Status != ArtifactPending {
		return nil, errors.NewConflictError("artifact "+artifactID, 0, 0)
	}

	art.Status = verdict
	art.RejectionReason = reason
	art.DecidedBy = actor
	art.DecidedAt = now
	app.UpdatedAt = now
	return art, nil
}

// ==========================
// Aggregate predicates
// ==========================
// Recomputed on every read; the lifecycle machine consults these before
// allowing its guarded transitions.

// RequiredDocumentsAttached reports whether every required document
// kind has a live instance (validation not required yet).
func RequiredDocumentsAttached(app *Application) bool {
	return allKindsPresent(app, RequiredDocumentKinds)
}

// RequiredDocumentsValidated reports whether every required document
// kind has a live VALIDATED instance.
func RequiredDocumentsValidated(app *Application) bool {
	return allKindsValidated(app, RequiredDocumentKinds)
}

// ContractArtifactsAttached reports whether both contract-stage
// artifacts have live instances.
func ContractArtifactsAttached(app *Application) bool {
	return allKindsPresent(app, RequiredContractKinds)
}

// ContractArtifactsValidated reports whether both contract-stage
// artifacts are VALIDATED.
func ContractArtifactsValidated(app *Application) bool {
	return allKindsValidated(app, RequiredContractKinds)
}

// AnyRequiredRejected reports whether any live artifact of the given
// stage is currently REJECTED (not yet re-uploaded).
func AnyRequiredRejected(app *Application, stage ArtifactStage) bool {
	for _, art := range app.LiveArtifacts(stage) {
		if art.Status == ArtifactRejected {
			return true
		}
	}
	return false
}

func allKindsPresent(app *Application, kinds []ArtifactKind) bool {
	for _, kind := range kinds {
		if app.LiveArtifactByKind(kind) == nil {
			return false
		}
	}
	return true
}

func allKindsValidated(app *Application, kinds []ArtifactKind) bool {
	for _, kind := range kinds {
		art := app.LiveArtifactByKind(kind)
		if art == nil || art.Status != ArtifactValidated {
			return false
		}
	}
	return true
}
