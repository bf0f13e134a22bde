package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradedispatch/dispatch-api/config"
	"github.com/tradedispatch/dispatch-api/internal/adapters/enrichmentrunner"
	"github.com/tradedispatch/dispatch-api/internal/adapters/slamonitor"
	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/jobtext"
	"github.com/tradedispatch/dispatch-api/internal/domain/outreach"
	"github.com/tradedispatch/dispatch-api/internal/domain/sla"
	"github.com/tradedispatch/dispatch-api/internal/service"
)

// dispatchLockPrefix namespaces per-job dispatch locks in the cache.
const dispatchLockPrefix = "dispatch:lock:"

// ServiceContainer holds all application services. A service whose
// providers are unavailable is left nil.
type ServiceContainer struct {
	SLA           *service.SLAService
	Dispatch      *service.DispatchService
	Enrichment    *service.EnrichmentService
	Leads         *service.LeadService
	JobParse      *service.JobParseService
	Replies       *service.ReplyService
	Repos         *Repositories
	Providers     *Providers
	Observability ObservabilityContainer
}

// Close releases listeners held by the services.
func (c ServiceContainer) Close() {
	if c.SLA != nil {
		c.SLA.Close()
	}
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB // nil selects the in-memory store
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds repositories, providers and every service they can support.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	observability := buildObservability(logger, deps.Config.Observability)
	repos := BuildRepositories(deps.DB, deps.RedisClient)
	providers, err := BuildProviders(deps.Config, repos.Cache, logger)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build providers: %w", err)
	}
	return buildDomainServices(&DomainServicesOptions{
		Repos:         repos,
		Providers:     providers,
		Observability: observability,
		Config:        deps.Config,
		Logger:        logger,
	})
}

// DomainServicesOptions groups inputs for buildDomainServices.
type DomainServicesOptions struct {
	Repos         *Repositories
	Providers     *Providers
	Observability ObservabilityContainer
	Config        *config.AppConfig
	Logger        *slog.Logger
}

func buildDomainServices(opts *DomainServicesOptions) (ServiceContainer, error) {
	repos, providers, cfg, logger := opts.Repos, opts.Providers, opts.Config, opts.Logger
	sink := opts.Observability.Sink()
	c := ServiceContainer{Repos: repos, Providers: providers, Observability: opts.Observability}

	var err error
	c.SLA, err = service.NewSLAService(service.SLAServiceOptions{
		Repo:     repos.SLA,
		Jobs:     repos.Jobs,
		Resolver: sla.NewResolver(providers.Presets),
		Logger:   logger,
	})
	if err != nil {
		return c, fmt.Errorf("sla service: %w", err)
	}

	c.JobParse, err = service.NewJobParseService(service.JobParseServiceOptions{
		Jobs:     repos.Jobs,
		Geocoder: providers.Geocoder,
		Parser:   jobtext.NewParser(nil),
		Logger:   logger,
	})
	if err != nil {
		return c, fmt.Errorf("job parse service: %w", err)
	}

	if providers.Warm != nil && providers.Cold != nil {
		c.Dispatch, err = service.NewDispatchService(service.DispatchServiceOptions{
			Jobs:      repos.Jobs,
			Outreach:  repos.Outreach,
			SLA:       repos.SLA,
			Providers: service.DispatchProviders{Warm: providers.Warm, Cold: providers.Cold},
			Campaigns: providers.Campaigns,
			Links: outreach.Links{
				BaseURL:      cfg.HTTP.BaseURL,
				AcceptPath:   cfg.Dispatch.AcceptPath,
				TrackingPath: cfg.Dispatch.TrackingPath,
			},
			Lock:    dispatchLock(repos.Cache, cfg.Cache),
			Logger:  logger,
			Metrics: sink,
		})
		if err != nil {
			return c, fmt.Errorf("dispatch service: %w", err)
		}
	} else {
		logger.Warn("dispatch disabled: email and cold outreach providers are required")
	}

	if providers.Intel != nil && providers.Cold != nil {
		c.Enrichment, err = service.NewEnrichmentService(service.EnrichmentServiceOptions{
			Repo:      repos.Enrichment,
			Searcher:  providers.Intel,
			Verifier:  providers.Intel,
			Outreach:  providers.Cold,
			Campaigns: providers.Campaigns,
			Logger:    logger,
			Metrics:   sink,
		})
		if err != nil {
			return c, fmt.Errorf("enrichment service: %w", err)
		}
	} else {
		logger.Warn("enrichment disabled: email intelligence and cold outreach providers are required")
	}

	if providers.Intel != nil {
		c.Leads, err = service.NewLeadService(service.LeadServiceOptions{
			Repo:    repos.Leads,
			Intel:   providers.Intel,
			Boards:  providers.Boards,
			Logger:  logger,
			Metrics: sink,
		})
		if err != nil {
			return c, fmt.Errorf("lead service: %w", err)
		}
	} else {
		logger.Warn("lead pipeline disabled: email intelligence provider is required")
	}

	if providers.Plain != nil {
		c.Replies, err = service.NewReplyService(service.ReplyServiceOptions{
			Repo:   repos.Replies,
			Mailer: providers.Plain,
			Logger: logger,
		})
		if err != nil {
			return c, fmt.Errorf("reply service: %w", err)
		}
	} else {
		logger.Warn("reply sending disabled: email provider is required")
	}

	return c, nil
}

// dispatchLock returns nil without a cache; dispatch then runs unlocked.
func dispatchLock(cache core.CacheRepository, cfg config.CacheConfig) *core.KeyLock {
	if cache == nil {
		return nil
	}
	return core.NewKeyLock(cache, dispatchLockPrefix, cfg.DispatchLockTTL)
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
		Errors:   deps.errCh,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}
	logger := deps.logger
	if logger == nil {
		logger = slog.Default()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newSLAMonitorBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeSLAMonitor,
		name: "sla monitor",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil || deps.cfg.Services.Repos == nil {
				return errors.New("sla monitor requires repositories")
			}
			var monitorCfg config.SLAMonitorConfig
			if deps.cfg.Config != nil {
				monitorCfg = deps.cfg.Config.SLAMonitor
			}
			svcs := deps.cfg.Services
			runner, err := slamonitor.NewRunner(slamonitor.RunnerOptions{
				Config:   monitorCfg,
				Logger:   deps.logger,
				Notifier: svcs.Observability.Notifier,
				Metrics:  svcs.Observability.Sink(),
				Repo:     svcs.Repos.SLA,
				Jobs:     svcs.Repos.Jobs,
			})
			if err != nil {
				return err
			}
			return runner.Run(ctx)
		},
	}
}

func newEnrichmentRunnerBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeEnrichmentRunner,
		name: "enrichment runner",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			if deps.cfg.Services.Enrichment == nil {
				return errors.New("enrichment runner requires the email intelligence and cold outreach providers")
			}
			var runnerCfg config.EnrichmentRunnerConfig
			if deps.cfg.Config != nil {
				runnerCfg = deps.cfg.Config.EnrichmentRunner
			}
			runner, err := enrichmentrunner.NewRunner(enrichmentrunner.RunnerOptions{
				Enricher: deps.cfg.Services.Enrichment,
				Config:   runnerCfg,
				Logger:   deps.logger,
				Metrics:  deps.cfg.Services.Observability.Sink(),
			})
			if err != nil {
				return err
			}
			return runner.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newSLAMonitorBackgroundService(deps),
		newEnrichmentRunnerBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		services:    cfg.Services,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	services    ServiceContainer
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		// The service context is already cancelled; drain on a fresh deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Streams: cfg.services,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	} else {
		cfg.services.Close()
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	// Last, so metrics from draining workers still go out.
	if err := cfg.services.Observability.MetricsSink.Close(); err != nil && cfg.logger != nil {
		cfg.logger.Warn("statsd close failed", "error", err)
	}
	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
