// internal/workers/data-access/index-application/handler.go
package indexapplication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"origination-workers/internal/common/errors"
	"origination-workers/internal/common/logger"
	"origination-workers/internal/repository"
)

const TaskType = "index-application"

type Handler struct {
	config   *Config
	repo     repository.ApplicationRepository
	esClient *elasticsearch.Client
	logger   logger.Logger
}

func NewHandler(config *Config, repo repository.ApplicationRepository, esClient *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		repo:     repo,
		esClient: esClient,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

// Execute re-reads the application from storage and upserts its search
// projection. Indexing by application id keeps the operation
// idempotent: re-delivery of the same job just overwrites the document.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicationID == "" {
		return nil, errors.NewInvalidInputError("applicationId", "must not be empty")
	}

	app, err := h.repo.Get(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	rejected := false
	for _, art := range app.Artifacts {
		if !art.Superseded && art.Status == "REJECTED" {
			rejected = true
			break
		}
	}

	doc := document{
		ApplicationID:    app.ID,
		ApplicantID:      app.Request.ApplicantID,
		VehiclePlate:     app.Request.VehiclePlate,
		DealerID:         app.Request.DealerID,
		VendorID:         app.Request.VendorID,
		ProductID:        app.Request.ProductID,
		Status:           string(app.Status),
		Version:          app.Version,
		RequestedAmount:  app.Request.RequestedAmount,
		TermMonths:       app.Request.TermMonths,
		ArtifactCount:    len(app.Artifacts),
		RejectedArtifact: rejected,
		CreatedAt:        app.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        app.UpdatedAt.Format(time.RFC3339),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.NewInvalidInputError("document", err.Error())
	}

	req := esapi.IndexRequest{
		Index:      h.config.Index,
		DocumentID: app.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, h.esClient)
	if err != nil {
		return nil, errors.NewStorageUnavailableError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewStorageUnavailableError(fmt.Errorf("index request failed: %s", res.Status()))
	}

	h.logger.Info("application indexed", map[string]interface{}{
		"applicationId": app.ID,
		"index":         h.config.Index,
		"status":        string(app.Status),
	})

	return &Output{
		ApplicationID: app.ID,
		Indexed:       true,
		Index:         h.config.Index,
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
