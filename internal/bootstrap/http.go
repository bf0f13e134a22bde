package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/tradedispatch/dispatch-api/config"
	httpx "github.com/tradedispatch/dispatch-api/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// Errors receives listen and serve failures; optional.
	Errors chan<- error
}

// StartHTTPServer binds and serves the API. It returns nil when the address
// cannot be bound.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(routerServices(cfg.Services, appCfg.HTTP, logger))
	return startServer(logger, handler, appCfg.HTTP.Addr, cfg.Errors)
}

// routerServices maps the container onto router ports. Nil services stay
// untyped nil so their routes are skipped.
func routerServices(svcs ServiceContainer, httpCfg config.HTTPConfig, logger *slog.Logger) httpx.RouterServices {
	rs := httpx.RouterServices{
		StreamHeartbeat: httpCfg.StreamHeartbeat,
		Logger:          logger,
		Metrics:         svcs.Observability.Sink(),
	}
	if svcs.SLA != nil {
		rs.SLA = svcs.SLA
	}
	if svcs.Dispatch != nil {
		rs.Dispatch = svcs.Dispatch
	}
	if svcs.Enrichment != nil {
		rs.Enrichment = svcs.Enrichment
	}
	if svcs.Leads != nil {
		rs.Leads = svcs.Leads
	}
	if svcs.JobParse != nil {
		rs.JobParse = svcs.JobParse
	}
	if svcs.Replies != nil {
		rs.Replies = svcs.Replies
	}
	if svcs.Repos != nil {
		rs.Store = svcs.Repos.StoreName()
		rs.HealthChecks = healthChecks(svcs.Repos.Probes)
	}
	return rs
}

// healthChecks orders probes by name so /healthz output is stable.
func healthChecks(probes map[string]func(context.Context) error) []httpx.HealthCheck {
	names := make([]string, 0, len(probes))
	for name := range probes {
		names = append(names, name)
	}
	sort.Strings(names)
	checks := make([]httpx.HealthCheck, 0, len(names))
	for _, name := range names {
		checks = append(checks, httpx.HealthCheck{Name: name, Check: probes[name]})
	}
	return checks
}

// startServer binds addr before returning so a taken port fails startup
// instead of a background goroutine. Serve errors go to errs when set.
func startServer(logger *slog.Logger, handler http.Handler, addr string, errs chan<- error) *http.Server {
	if addr == "" {
		addr = ":8080"
	}

	// WriteTimeout stays zero: SLA event streams hold responses open indefinitely.
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		report(errs, logger, fmt.Errorf("http listen %s: %w", addr, err))
		return nil
	}
	logger.Info("http server listening", "addr", ln.Addr().String())

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			report(errs, logger, fmt.Errorf("http server: %w", err))
		}
	}()
	return server
}

func report(errs chan<- error, logger *slog.Logger, err error) {
	if errs == nil {
		logger.Error("http server failed", "error", err)
		return
	}
	select {
	case errs <- err:
	default:
		logger.Error("http server failed", "error", err)
	}
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	// Streams ends open SLA event streams before the server drains.
	Streams interface{ Close() }
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("http server draining")
	}

	if cfg.Streams != nil {
		cfg.Streams.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(cfg.Context, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("http server stopped")
	}

	return nil
}
