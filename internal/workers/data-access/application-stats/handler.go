// internal/workers/data-access/application-stats/handler.go
package applicationstats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"origination-workers/internal/common/errors"
	"origination-workers/internal/common/logger"
	"origination-workers/internal/repository"
)

const (
	TaskType = "application-stats"

	cacheKey = "stats:applications"
)

type Handler struct {
	config *Config
	repo   repository.ApplicationRepository
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, repo repository.ApplicationRepository, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		repo:   repo,
		redis:  redisClient,
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

// Execute aggregates live counts from storage. Numbers are always
// derived from actual stored applications, never from counters kept on
// the side; the cache only shortens the window between recomputations.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !input.Refresh && h.redis != nil && h.config.CacheTTL > 0 {
		if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached Output
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				cached.FromCache = true
				return &cached, nil
			}
		}
	}

	counts, err := h.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(counts.ByStatus))
	for status, n := range counts.ByStatus {
		byStatus[string(status)] = n
	}

	output := &Output{
		ByStatus:         byStatus,
		PendingDocuments: counts.PendingDocuments,
		PendingContracts: counts.PendingContracts,
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	if h.redis != nil && h.config.CacheTTL > 0 {
		data, _ := json.Marshal(output)
		h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
	}
	return output, nil
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
