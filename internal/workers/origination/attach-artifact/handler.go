// internal/workers/origination/attach-artifact/handler.go
package attachartifact

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"origination-workers/internal/common/errors"
	"origination-workers/internal/common/logger"
	"origination-workers/internal/common/metrics"
	"origination-workers/internal/lifecycle"
	"origination-workers/internal/repository"
)

const TaskType = "attach-artifact"

type Handler struct {
	config *Config
	repo   repository.ApplicationRepository
	logger logger.Logger
}

func NewHandler(config *Config, repo repository.ApplicationRepository, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.ToBPMNError(errors.NewInvalidInputError("variables", err.Error())))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		if errors.IsConflict(err) {
			metrics.TransitionConflicts.Inc()
		}
		h.failJob(client, job, errors.ToBPMNError(err))
		return
	}

	h.completeJob(client, job, output)
}

// Execute attaches one document or contract artifact and fires the
// completeness-driven transition when the upload finishes a stage.
// Re-uploading over a rejected artifact supersedes it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	actor := lifecycle.Role(input.ActorRole)
	if actor != lifecycle.RoleVendor && !actor.CanAdministrate() {
		return nil, errors.NewPermissionDeniedError(input.ActorRole, "upload artifacts")
	}

	app, err := h.repo.Get(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	expectedVersion := input.ExpectedVersion
	if expectedVersion == 0 {
		expectedVersion = app.Version
	}

	now := time.Now().UTC()
	art, err := lifecycle.AttachArtifact(app, lifecycle.ArtifactKind(input.Kind), actor, now)
	if err != nil {
		return nil, err
	}

	// Stage-completeness transitions fire as a side effect of the
	// upload that completes the stage.
	switch {
	case app.Status == lifecycle.StatusDraft && lifecycle.RequiredDocumentsAttached(app):
		if _, err := lifecycle.Transition(app, lifecycle.StatusDocumentsUploaded, actor, "all required documents attached", now); err != nil {
			return nil, err
		}
	case app.Status == lifecycle.StatusDocumentsValidated && lifecycle.ContractArtifactsAttached(app):
		if _, err := lifecycle.Transition(app, lifecycle.StatusContractUploaded, actor, "contract artifacts attached", now); err != nil {
			return nil, err
		}
	}

	if err := h.repo.Update(ctx, app, expectedVersion); err != nil {
		return nil, err
	}

	h.logger.Info("artifact attached", map[string]interface{}{
		"applicationId": app.ID,
		"artifactId":    art.ID,
		"kind":          input.Kind,
		"status":        string(app.Status),
	})

	return &Output{
		ArtifactID:        art.ID,
		ArtifactStatus:    string(art.Status),
		ApplicationStatus: string(app.Status),
		Version:           app.Version,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, bpmnErr *errors.BPMNError) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    bpmnErr.Code,
		"errorMessage": bpmnErr.Message,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
