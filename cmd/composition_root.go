package cmd

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	httpin "logistics/internal/adapters/in/http"
	"logistics/internal/adapters/out/crew"
	"logistics/internal/adapters/out/kafka"
	"logistics/internal/adapters/out/postgres"
	"logistics/internal/adapters/out/postgres/runrepo"
	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/services/detectors"
	"logistics/internal/core/domain/services/riskmodel"
	"logistics/internal/jobs"
	"logistics/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// CompositionRoot builds every service of the process once, at startup.
type CompositionRoot struct {
	config   Config
	gormDB   *gorm.DB
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collectors

	// model is nil when the artifacts could not be loaded; the engine then
	// runs without ML predictions.
	model     *riskmodel.Model
	publisher *kafka.Publisher

	monitorOnce sync.Once
	monitor     *jobs.ExceptionMonitorJob
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	registry := prometheus.NewRegistry()
	c := &CompositionRoot{
		config:   config,
		gormDB:   gormDB,
		logger:   logger,
		registry: registry,
		metrics:  metrics.New(registry),
	}

	model, err := riskmodel.Load(config.ModelDir, riskmodel.WithLogger(logger))
	if err != nil {
		logger.Error("Delay prediction model unavailable, ML detector disabled",
			"model_dir", config.ModelDir, "error", err)
	} else {
		c.model = model
		info, _ := model.Info()
		logger.Info("Delay prediction model loaded",
			"model_dir", config.ModelDir, "accuracy", info.Metrics.Accuracy)
	}

	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		publisher, pubErr := kafka.NewPublisher(brokers, config.KafkaExceptionTopic)
		if pubErr != nil {
			logger.Error("Kafka exception publisher disabled", "error", pubErr)
		} else {
			c.publisher = publisher
		}
	}

	return c
}

func (c *CompositionRoot) CreateDetectorBattery() *detectors.Battery {
	var predictor detectors.Predictor
	if c.model != nil {
		predictor = c.model
	}
	return detectors.NewBattery(
		detectors.DefaultDetectors(predictor),
		c.logger,
		detectors.WithConcurrency(c.config.ScanConcurrency),
		detectors.WithObserver(c.metrics),
	)
}

func (c *CompositionRoot) CreateEscalationDispatcher() *crew.Dispatcher {
	return crew.NewDispatcher(crew.Config{
		Endpoint:    c.config.CrewEndpointURL,
		Timeout:     c.config.DispatchTimeout,
		Concurrency: c.config.DispatchConcurrency,
	}, c.logger, crew.WithObserver(c.metrics))
}

func (c *CompositionRoot) CreateRunExceptionScanCommandHandler() *commands.RunExceptionScanCommandHandler {
	opts := []commands.HandlerOption{commands.WithCycleObserver(c.metrics)}
	if c.publisher != nil {
		opts = append(opts,
			commands.WithPublisher(c.publisher),
			commands.WithPublishTimeout(c.config.KafkaPublishTimeout))
	}
	return commands.NewRunExceptionScanCommandHandler(
		postgres.NewGormReadSessionFactory(c.gormDB),
		c.CreateDetectorBattery(),
		c.CreateEscalationDispatcher(),
		runrepo.NewGormRunRecorder(c.gormDB),
		c.logger,
		opts...,
	)
}

// ExceptionMonitorJob returns the single monitor loop of the process.
func (c *CompositionRoot) ExceptionMonitorJob() *jobs.ExceptionMonitorJob {
	c.monitorOnce.Do(func() {
		c.monitor = jobs.NewExceptionMonitorJob(c.CreateRunExceptionScanCommandHandler(), c.logger)
	})
	return c.monitor
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.ExceptionMonitorJob(), c.config.MonitorInterval, c.logger)
}

func (c *CompositionRoot) CreatePredictDelayQueryHandler() queries.PredictDelayQueryHandler {
	if c.model == nil {
		return queries.NewPredictDelayQueryHandler(nil)
	}
	return queries.NewPredictDelayQueryHandler(c.model)
}

func (c *CompositionRoot) CreateGetModelInfoQueryHandler() queries.GetModelInfoQueryHandler {
	if c.model == nil {
		return queries.NewGetModelInfoQueryHandler(nil)
	}
	return queries.NewGetModelInfoQueryHandler(c.model)
}

func (c *CompositionRoot) CreateGetRecentRunsQueryHandler() queries.GetRecentRunsQueryHandler {
	return queries.NewGetRecentRunsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) MetricsHandler() http.Handler {
	return c.metrics.Handler()
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreatePredictDelayQueryHandler(),
		c.CreateGetModelInfoQueryHandler(),
		c.CreateGetRecentRunsQueryHandler(),
		c.ExceptionMonitorJob(),
		c.MetricsHandler(),
	)
}

// Close releases the outbound connections.
func (c *CompositionRoot) Close() error {
	var err error
	if c.publisher != nil {
		err = errors.Join(err, c.publisher.Close())
	}
	if sqlDB, dbErr := c.gormDB.DB(); dbErr == nil {
		err = errors.Join(err, sqlDB.Close())
	}
	return err
}
