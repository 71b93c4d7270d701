// internal/lifecycle/machine.go
package lifecycle

import (
	"time"

	"origination-workers/internal/common/errors"
)

// forwardChain is the required path to approval. REJECTED is reachable
// from any non-terminal state; CANCELLED and EXPIRED are administrative
// exits.
var forwardChain = map[Status]Status{
	StatusDraft:              StatusDocumentsUploaded,
	StatusDocumentsUploaded:  StatusDocumentsValidated,
	StatusDocumentsValidated: StatusContractUploaded,
	StatusContractUploaded:   StatusContractValidated,
	StatusContractValidated:  StatusApproved,
}

// NewApplication creates the DRAFT envelope for a submitted request,
// with the creation recorded as the first history entry.
func NewApplication(id string, req LoanRequest, actor Role, now time.Time) (*Application, error) {
	if req.ApplicantID == "" {
		return nil, errors.NewInvalidInputError("applicantId", "must not be empty")
	}
	if req.VehiclePlate == "" {
		return nil, errors.NewInvalidInputError("vehiclePlate", "must not be empty")
	}
	if req.RequestedAmount <= 0 {
		return nil, errors.NewInvalidInputError("requestedAmount", "must be positive")
	}
	if req.TermMonths <= 0 {
		return nil, errors.NewInvalidInputError("termMonths", "must be positive")
	}
	if req.DownPayment < 0 {
		return nil, errors.NewInvalidInputError("downPayment", "must not be negative")
	}

	return &Application{
		ID:      id,
		Request: req,
		Status:  StatusDraft,
		Version: 1,
		History: []HistoryEntry{{
			From:      StatusDraft,
			To:        StatusDraft,
			Actor:     actor,
			Reason:    "application created",
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Transition moves the application to target after checking state
// reachability, artifact completeness and the actor's role. On success
// it appends a history entry and returns it; on failure the application
// is left unchanged.
func Transition(app *Application, target Status, actor Role, reason string, now time.Time) (*HistoryEntry, error) {
	if !target.Valid() {
		return nil, errors.NewInvalidInputError("targetState", "unknown status: "+string(target))
	}
	if app.Status.IsTerminal() {
		return nil, errors.NewIllegalTransitionError(string(app.Status), string(target))
	}

	switch target {
	case StatusRejected:
		if !actor.CanValidate() {
			return nil, errors.NewPermissionDeniedError(string(actor), "reject applications")
		}
		if reason == "" {
			return nil, errors.NewInvalidInputError("reason", "rejection requires a non-empty reason")
		}

	case StatusCancelled, StatusExpired:
		if !actor.CanAdministrate() {
			return nil, errors.NewPermissionDeniedError(string(actor), "administratively close applications")
		}

	default:
		if forwardChain[app.Status] != target {
			return nil, errors.NewIllegalTransitionError(string(app.Status), string(target))
		}
		// Advancing past a validation stage while a required artifact
		// stands rejected reroutes the application to REJECTED.
		if target == StatusDocumentsValidated && AnyRequiredRejected(app, StageDocument) {
			if !actor.CanValidate() {
				return nil, errors.NewPermissionDeniedError(string(actor), "validate documents")
			}
			return commit(app, StatusRejected, actor, "required document rejected", now), nil
		}
		if target == StatusContractValidated && AnyRequiredRejected(app, StageContract) {
			if !actor.CanValidate() {
				return nil, errors.NewPermissionDeniedError(string(actor), "validate contracts")
			}
			return commit(app, StatusRejected, actor, "contract artifact rejected", now), nil
		}
		if err := checkForwardGuard(app, target, actor); err != nil {
			return nil, err
		}
	}

	return commit(app, target, actor, reason, now), nil
}

// checkForwardGuard enforces the per-stage completeness and role rules
// for one step along the forward chain.
func checkForwardGuard(app *Application, target Status, actor Role) error {
	switch target {
	case StatusDocumentsUploaded:
		// Attaching is a vendor action; any role can confirm completeness.
		if !RequiredDocumentsAttached(app) {
			return errors.NewInvalidInputError("documents", "required documents are not all attached")
		}

	case StatusDocumentsValidated:
		if !actor.CanValidate() {
			return errors.NewPermissionDeniedError(string(actor), "validate documents")
		}
		if !RequiredDocumentsValidated(app) {
			return errors.NewInvalidInputError("documents", "required documents are not all validated")
		}

	case StatusContractUploaded:
		if !ContractArtifactsAttached(app) {
			return errors.NewInvalidInputError("contract", "contract and promissory note must both be attached")
		}

	case StatusContractValidated:
		if !actor.CanValidate() {
			return errors.NewPermissionDeniedError(string(actor), "validate contracts")
		}
		if !ContractArtifactsValidated(app) {
			return errors.NewInvalidInputError("contract", "contract artifacts are not all validated")
		}

	case StatusApproved:
		if !actor.CanAdministrate() {
			return errors.NewPermissionDeniedError(string(actor), "approve applications")
		}
	}
	return nil
}

// NextOnValidation derives the aggregate transition implied by the
// latest artifact verdict: a rejected required artifact moves the
// application to REJECTED, a fully validated stage advances it, and an
// incomplete stage leaves the status untouched (nil entry, no error).
func NextOnValidation(app *Application, actor Role, now time.Time) (*HistoryEntry, error) {
	switch app.Status {
	case StatusDocumentsUploaded:
		if AnyRequiredRejected(app, StageDocument) {
			return commit(app, StatusRejected, actor, "required document rejected", now), nil
		}
		if RequiredDocumentsValidated(app) {
			return Transition(app, StatusDocumentsValidated, actor, "all required documents validated", now)
		}

	case StatusContractUploaded:
		if AnyRequiredRejected(app, StageContract) {
			return commit(app, StatusRejected, actor, "contract artifact rejected", now), nil
		}
		if ContractArtifactsValidated(app) {
			return Transition(app, StatusContractValidated, actor, "all contract artifacts validated", now)
		}
	}
	return nil, nil
}

func commit(app *Application, target Status, actor Role, reason string, now time.Time) *HistoryEntry {
	entry := HistoryEntry{
		From:      app.Status,
		To:        target,
		Actor:     actor,
		Reason:    reason,
		Timestamp: now,
	}
	app.Status = target
	app.History = append(app.History, entry)
	app.UpdatedAt = now
	return &entry
}
