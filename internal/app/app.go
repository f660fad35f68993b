package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/config"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/survivor-pool/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/survivor-pool/internal/platform/id"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
	"github.com/riskibarqy/survivor-pool/internal/platform/resilience"
	"github.com/riskibarqy/survivor-pool/internal/usecase"
)

// App bundles the HTTP server with its background round ticker.
type App struct {
	Server *http.Server

	orchestrator *usecase.OrchestratorService
	tickInterval time.Duration
	logger       *slog.Logger
	closeDB      func() error
	stopTicker   context.CancelFunc
	tickerDone   chan struct{}
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, closeDB, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	svcLogger := logging.Default()

	timelineSvc := usecase.NewTimelineService(repos.gameweeks, repos.fixtures, cfg.LockBuffer)
	seasonSvc := usecase.NewSeasonService(repos.seasons)
	pickSvc := usecase.NewPickService(repos.seasons, repos.gameweeks, repos.clubs, repos.participants, repos.picks, timelineSvc)
	participantSvc := usecase.NewParticipantService(repos.participants, repos.survival)
	sweepSvc := usecase.NewSweepService(
		repos.gameweeks,
		repos.fixtures,
		repos.clubs,
		repos.participants,
		repos.picks,
		repos.survival,
		timelineSvc,
		cfg.ProxyPickCap,
		svcLogger,
	)
	resolverSvc := usecase.NewResolverService(
		repos.gameweeks,
		repos.fixtures,
		repos.participants,
		repos.picks,
		repos.survival,
		timelineSvc,
		svcLogger,
	)
	revivalSvc := usecase.NewRevivalService(repos.participants, repos.survival, timelineSvc, svcLogger)
	reportSvc := usecase.NewReportService(repos.gameweeks, repos.picks, repos.survival, repos.reports, timelineSvc, svcLogger)
	ingestionSvc := usecase.NewIngestionService(repos.gameweeks, repos.clubs, repos.fixtures, idgen.NewRandomGenerator(), svcLogger)

	queue := buildJobQueue(cfg, logger)

	orchestrator := usecase.NewOrchestratorService(
		repos.seasons,
		repos.gameweeks,
		timelineSvc,
		sweepSvc,
		resolverSvc,
		reportSvc,
		queue,
		cfg.SweepMaxWorkers,
		svcLogger,
	)

	handler := httpapi.NewHandler(
		seasonSvc,
		timelineSvc,
		pickSvc,
		participantSvc,
		revivalSvc,
		reportSvc,
		ingestionSvc,
		orchestrator,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:       server,
		orchestrator: orchestrator,
		tickInterval: cfg.TickInterval,
		logger:       logger,
		closeDB:      closeDB,
	}, nil
}

func buildJobQueue(cfg config.Config, logger *slog.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		return jobqueue.NewNoopPublisher(logger)
	}

	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger)
}

// StartTicker runs the orchestrator on a fixed interval until Close.
// Every round transition is also reachable through the round-check
// job endpoint, so the ticker is a safety net, not the only driver.
func (a *App) StartTicker() {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopTicker = cancel
	a.tickerDone = make(chan struct{})

	go func() {
		defer close(a.tickerDone)

		ticker := time.NewTicker(a.tickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				result, err := a.orchestrator.Tick(ctx)
				if err != nil {
					a.logger.Error("round tick failed", "error", err)
					continue
				}
				a.logger.Debug("round tick",
					"season_id", result.SeasonID,
					"round", result.Round,
					"stage", result.Stage,
				)
			}
		}
	}()
}

func (a *App) Close() error {
	if a.stopTicker != nil {
		a.stopTicker()
		<-a.tickerDone
	}
	if a.closeDB != nil {
		return a.closeDB()
	}

	return nil
}
