// internal/workers/simulation/simulate-credit/handler.go
package simulatecredit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"origination-workers/internal/common/errors"
	"origination-workers/internal/common/logger"
	"origination-workers/internal/common/metrics"
	"origination-workers/internal/credit/amortize"
	"origination-workers/internal/credit/decision"
	"origination-workers/internal/credit/scenario"
)

const (
	TaskType = "simulate-credit"

	// Named after the borrower's own figures; governs the request-level
	// verdict under the requested-scenario policy.
	requestedScenarioName = "requested"
)

type Handler struct {
	config *Config
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		redis:  redisClient,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	timer := prometheus.NewTimer(metrics.WorkerJobDuration.WithLabelValues(TaskType))
	defer timer.ObserveDuration()

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &raw); err != nil {
		h.failJob(client, job, errors.ToBPMNError(errors.NewInvalidInputError("variables", err.Error())))
		return
	}
	if err := validateInput(raw); err != nil {
		h.failJob(client, job, errors.ToBPMNError(err))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.ToBPMNError(errors.NewInvalidInputError("variables", err.Error())))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		metrics.SimulationsComputed.WithLabelValues("error").Inc()
		h.failJob(client, job, errors.ToBPMNError(err))
		return
	}

	metrics.SimulationsComputed.WithLabelValues("ok").Inc()
	h.completeJob(client, job, output)
}

// Execute computes the full decision bundle. Pure math behind a
// read-through cache: identical requests return identical bundles.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	cacheKey := h.cacheKey(input)
	if h.redis != nil && h.config.CacheTTL > 0 {
		if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached Output
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	output, err := h.simulate(input)
	if err != nil {
		return nil, err
	}

	if h.redis != nil && h.config.CacheTTL > 0 {
		data, _ := json.Marshal(output)
		h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
	}
	return output, nil
}

func (h *Handler) simulate(input *Input) (*Output, error) {
	maxTerm := h.config.MaxTermMonths
	if input.MaxTermMonths > 0 {
		maxTerm = input.MaxTermMonths
	}

	scenarios, err := scenario.Generate(
		scenario.Request{
			RequestedAmount: input.RequestedAmount,
			DownPayment:     input.DownPayment,
			TermMonths:      input.TermMonths,
		},
		scenario.Params{
			VehicleValue:        input.VehicleValue,
			NominalRatePercent:  input.InterestRatePercent,
			MaxTermMonths:       maxTerm,
			DownPaymentFraction: h.config.DownPaymentFraction,
		},
	)
	if err != nil {
		return nil, err
	}

	// The requested scenario carries the borrower's own amount and term.
	requestedSchedule, err := amortize.ComputeSchedule(input.RequestedAmount, input.InterestRatePercent, input.TermMonths)
	if err != nil {
		return nil, err
	}
	requested := scenario.Scenario{
		Name:           requestedScenarioName,
		DownPayment:    input.DownPayment,
		FinancedAmount: requestedSchedule.Principal,
		TermMonths:     input.TermMonths,
		Installment:    requestedSchedule.Installment,
		TotalInterest:  requestedSchedule.TotalInterest,
		TotalPaid:      requestedSchedule.TotalPaid,
		Schedule:       requestedSchedule,
	}

	output := &Output{Scenarios: make([]ScenarioResult, 0, len(scenarios))}
	for _, sc := range scenarios {
		d := decision.Decide(sc, input.PaymentCapacity)
		output.Scenarios = append(output.Scenarios, ScenarioResult{
			Name:           sc.Name,
			DownPayment:    sc.DownPayment,
			FinancedAmount: sc.FinancedAmount,
			TermMonths:     sc.TermMonths,
			Installment:    sc.Installment,
			TotalInterest:  sc.TotalInterest,
			TotalPaid:      sc.TotalPaid,
			Approvable:     d.Approvable,
			Reason:         d.Reason,
			Schedule:       sc.Schedule.Lines,
		})
	}

	verdict := decision.DecideRequest(h.config.Policy, requested, scenarios, input.PaymentCapacity)
	output.Approvable = verdict.Approvable
	output.RejectionReason = verdict.Reason

	metrics.DecisionsIssued.WithLabelValues(strconv.FormatBool(verdict.Approvable), string(h.config.Policy)).Inc()
	return output, nil
}

func (h *Handler) cacheKey(input *Input) string {
	return fmt.Sprintf("sim:%.2f:%d:%.4f:%.2f:%.2f:%.2f:%d:%s",
		input.RequestedAmount, input.TermMonths, input.InterestRatePercent,
		input.VehicleValue, input.DownPayment, input.PaymentCapacity,
		input.MaxTermMonths, h.config.Policy)
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
