// internal/workers/origination/create-application/handler.go
package createapplication

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"origination-workers/internal/common/errors"
	"origination-workers/internal/common/logger"
	"origination-workers/internal/lifecycle"
	"origination-workers/internal/repository"
)

const TaskType = "create-application"

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
		h.failJob(client, job, errors.ToBPMNError(err))
		return
	}

	h.completeJob(client, job, output)
}

// Execute creates the DRAFT envelope for a submitted loan request.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	actor := lifecycle.Role(input.ActorRole)
	if actor != lifecycle.RoleVendor && !actor.CanAdministrate() {
		return nil, errors.NewPermissionDeniedError(input.ActorRole, "submit loan requests")
	}

	exists, err := h.repo.HasLiveApplication(ctx, input.ApplicantID, input.VehiclePlate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewInvalidInputError("application",
			"a live application already exists for applicant "+input.ApplicantID+" and plate "+input.VehiclePlate)
	}

	app, err := lifecycle.NewApplication(uuid.New().String(), lifecycle.LoanRequest{
		ApplicantID:     input.ApplicantID,
		VehiclePlate:    input.VehiclePlate,
		DealerID:        input.DealerID,
		VendorID:        input.VendorID,
		ProductID:       input.ProductID,
		RequestedAmount: input.RequestedAmount,
		DownPayment:     input.DownPayment,
		TermMonths:      input.TermMonths,
	}, actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, app); err != nil {
		return nil, err
	}

	h.logger.Info("application created", map[string]interface{}{
		"applicationId": app.ID,
		"applicantId":   input.ApplicantID,
		"vehiclePlate":  input.VehiclePlate,
	})

	return &Output{
		ApplicationID:     app.ID,
		ApplicationStatus: string(app.Status),
		Version:           app.Version,
		CreatedAt:         app.CreatedAt.Format(time.RFC3339),
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
