package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/observability/statsd"
)

// RouterServices holds all the services needed by the HTTP router.
// A nil service leaves its routes unregistered.
type RouterServices struct {
	SLA        SLAService
	Dispatch   Dispatcher
	Enrichment TargetEnricher
	Leads      LeadService
	JobParse   JobParser
	Replies    ReplySender

	// Store names the backing store reported by /healthz.
	Store        string
	HealthChecks []HealthCheck

	StreamHeartbeat time.Duration
	Logger          *slog.Logger
	// Metrics receives per-route request counts and timings; optional.
	Metrics statsd.Sink
}

// NewRouter creates the API router wrapped in request ids, logging and panic recovery.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	if services.SLA != nil {
		registerSLARoutes(mux, &SLAHandlers{
			Svc:       services.SLA,
			Heartbeat: services.StreamHeartbeat,
			Logger:    logger,
		})
	}
	if services.Dispatch != nil || services.Enrichment != nil {
		registerDispatchRoutes(mux, &DispatchHandlers{
			Svc:      services.Dispatch,
			Enricher: services.Enrichment,
			Logger:   logger,
		})
	}
	if services.Leads != nil {
		registerLeadRoutes(mux, &LeadHandlers{Svc: services.Leads, Logger: logger})
	}
	if services.JobParse != nil {
		mux.HandleFunc("POST /api/jobs/{id}/parse", (&JobHandlers{Parser: services.JobParse, Logger: logger}).Parse)
	}
	if services.Replies != nil {
		h := &ReplyHandlers{Svc: services.Replies, Logger: logger}
		mux.HandleFunc("POST /api/replies/{id}/send", h.Send)
		mux.HandleFunc("DELETE /api/replies/{id}/send", h.Reject)
	}
	health := &HealthHandlers{Store: services.Store, Checks: services.HealthChecks}
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("HEAD /healthz", health.Health)

	return RequestID(Logging(logger, services.Metrics)(Recover(logger)(mux)))
}

func registerSLARoutes(mux *http.ServeMux, h *SLAHandlers) {
	mux.HandleFunc("GET /api/jobs/{id}/sla", h.Snapshot)
	mux.HandleFunc("POST /api/jobs/{id}/sla", h.Start)
	mux.HandleFunc("GET /api/jobs/{id}/sla/stream", h.Stream)
	mux.HandleFunc("POST /api/jobs/{id}/sla/{stage}/complete", h.CompleteStage)
	mux.HandleFunc("POST /api/sla/alerts/{id}/ack", h.Acknowledge)
	mux.HandleFunc("GET /api/sla/presets", h.Presets)
}

func registerDispatchRoutes(mux *http.ServeMux, h *DispatchHandlers) {
	if h.Svc != nil {
		mux.HandleFunc("POST /api/jobs/{id}/dispatch", h.DispatchJob)
		mux.HandleFunc("POST /functions/dispatch-work-order", h.DispatchWorkOrder)
	}
	if h.Enricher != nil {
		mux.HandleFunc("POST /functions/enrich-emails", h.EnrichEmails)
	}
}

func registerLeadRoutes(mux *http.ServeMux, h *LeadHandlers) {
	mux.HandleFunc("GET /api/leads/enrich", h.Stats)
	mux.HandleFunc("POST /api/leads/enrich", h.Enrich)
	mux.HandleFunc("POST /api/leads/import/{source}", h.Import)
	mux.HandleFunc("POST /api/leads/verify", h.Verify)
}
