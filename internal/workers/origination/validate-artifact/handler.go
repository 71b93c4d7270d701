// internal/workers/origination/validate-artifact/handler.go
package validateartifact

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

const TaskType = "validate-artifact"

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

// Execute commits exactly one validation verdict for one artifact, then
// applies whatever aggregate transition the verdict implies. The
// conditional write guarantees at most one decision per cycle: a
// concurrent validator loses the version race and gets a conflict.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	app, err := h.repo.Get(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	expectedVersion := input.ExpectedVersion
	if expectedVersion == 0 {
		expectedVersion = app.Version
	}

	actor := lifecycle.Role(input.ActorRole)
	now := time.Now().UTC()

	var art *lifecycle.Artifact
	switch input.Verdict {
	case VerdictValidated:
		art, err = lifecycle.ValidateArtifact(app, input.ArtifactID, actor, now)
	case VerdictRejected:
		art, err = lifecycle.RejectArtifact(app, input.ArtifactID, input.Reason, actor, now)
	default:
		return nil, errors.NewInvalidInputError("verdict", "must be \"validated\" or \"rejected\", got "+input.Verdict)
	}
	if err != nil {
		return nil, err
	}

	entry, err := lifecycle.NextOnValidation(app, actor, now)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Update(ctx, app, expectedVersion); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"applicationId": app.ID,
		"artifactId":    art.ID,
		"verdict":       input.Verdict,
		"status":        string(app.Status),
	}
	if entry != nil {
		metrics.LifecycleTransitions.WithLabelValues(string(entry.From), string(entry.To)).Inc()
		fields["transitionedTo"] = string(entry.To)
	}
	h.logger.Info("artifact verdict committed", fields)

	return &Output{
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
