// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"origination-workers/internal/common/config"
	"origination-workers/internal/common/database"
	"origination-workers/internal/common/logger"
	"origination-workers/internal/common/observability"
	"origination-workers/internal/credit/decision"
	"origination-workers/internal/repository"

	// Simulation Workers (1)
	sc "origination-workers/internal/workers/simulation/simulate-credit"

	// Origination Workers (4)
	aa "origination-workers/internal/workers/origination/attach-artifact"
	ca "origination-workers/internal/workers/origination/create-application"
	ta "origination-workers/internal/workers/origination/transition-application"
	va "origination-workers/internal/workers/origination/validate-artifact"

	// Data Access Workers (2)
	as "origination-workers/internal/workers/data-access/application-stats"
	ia "origination-workers/internal/workers/data-access/index-application"

	// Communication Workers (1)
	nd "origination-workers/internal/workers/communication/notify-decision"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// One repository instance shared by all workers that touch
	// application state, so they all see the same conditional-write
	// semantics.
	repo := repository.NewPostgresRepository(pg.DB)

	// --- START: Register ALL 8 Workers ---

	// --- 1. Simulation Workers (1) ---
	if cfg.Workers[sc.TaskType].Enabled {
		handler := sc.NewHandler(
			&sc.Config{
				Timeout:             time.Duration(cfg.Workers[sc.TaskType].Timeout) * time.Millisecond,
				DownPaymentFraction: cfg.Credit.DownPaymentFraction,
				MaxTermMonths:       cfg.Credit.MaxTermMonths,
				Policy:              decision.Policy(cfg.Credit.ApprovalPolicy),
				CacheTTL:            time.Duration(cfg.Credit.SimulationCacheTTL) * time.Second,
			},
			redis.Client, log,
		)
		startWorker(zeebeClient, sc.TaskType, cfg.Workers[sc.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Origination Workers (4) ---
	if cfg.Workers[ca.TaskType].Enabled {
		handler := ca.NewHandler(
			&ca.Config{
				Timeout: time.Duration(cfg.Workers[ca.TaskType].Timeout) * time.Millisecond,
			},
			repo, log,
		)
		startWorker(zeebeClient, ca.TaskType, cfg.Workers[ca.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[aa.TaskType].Enabled {
		handler := aa.NewHandler(
			&aa.Config{
				Timeout: time.Duration(cfg.Workers[aa.TaskType].Timeout) * time.Millisecond,
			},
			repo, log,
		)
		startWorker(zeebeClient, aa.TaskType, cfg.Workers[aa.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[va.TaskType].Enabled {
		handler := va.NewHandler(
			&va.Config{
				Timeout: time.Duration(cfg.Workers[va.TaskType].Timeout) * time.Millisecond,
			},
			repo, log,
		)
		startWorker(zeebeClient, va.TaskType, cfg.Workers[va.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ta.TaskType].Enabled {
		handler := ta.NewHandler(
			&ta.Config{
				Timeout: time.Duration(cfg.Workers[ta.TaskType].Timeout) * time.Millisecond,
			},
			repo, log,
		)
		startWorker(zeebeClient, ta.TaskType, cfg.Workers[ta.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Data Access Workers (2) ---
	if cfg.Workers[as.TaskType].Enabled {
		handler := as.NewHandler(
			&as.Config{
				Timeout:  time.Duration(cfg.Workers[as.TaskType].Timeout) * time.Millisecond,
				CacheTTL: 60 * time.Second,
			},
			repo, redis.Client, log,
		)
		startWorker(zeebeClient, as.TaskType, cfg.Workers[as.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ia.TaskType].Enabled {
		handler := ia.NewHandler(
			&ia.Config{
				Timeout: time.Duration(cfg.Workers[ia.TaskType].Timeout) * time.Millisecond,
				Index:   cfg.Database.Elasticsearch.Index,
			},
			repo, esClient.Client, log,
		)
		startWorker(zeebeClient, ia.TaskType, cfg.Workers[ia.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Communication Workers (1) ---
	if cfg.Workers[nd.TaskType].Enabled {
		handler, err := nd.NewHandler(
			&nd.Config{
				Timeout:      time.Duration(cfg.Workers[nd.TaskType].Timeout) * time.Millisecond,
				AWSRegion:    cfg.Notifications.AWS.Region,
				FromEmail:    cfg.Notifications.Email.FromEmail,
				EmailEnabled: cfg.Notifications.Email.Enabled,
				SMSEnabled:   cfg.Notifications.SMS.Enabled,
			},
			log,
		)
		if err != nil {
			zapLog.Fatal("failed to create notify-decision handler", zap.Error(err))
		}
		startWorker(zeebeClient, nd.TaskType, cfg.Workers[nd.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 8 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = shutdownCtx

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
