package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/service"
)

// Dispatcher sends a job to its matched technicians.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobID string) (*model.DispatchResult, error)
}

// TargetEnricher runs the email enrichment state machine for one target.
type TargetEnricher interface {
	Enrich(ctx context.Context, targetID string) (*model.EnrichmentResult, error)
}

var (
	_ Dispatcher     = (*service.DispatchService)(nil)
	_ TargetEnricher = (*service.EnrichmentService)(nil)
)

// DispatchHandlers serves job dispatch and the function-style endpoints.
type DispatchHandlers struct {
	Svc      Dispatcher
	Enricher TargetEnricher
	Logger   *slog.Logger
}

// DispatchJob handles POST /api/jobs/{id}/dispatch.
func (h *DispatchHandlers) DispatchJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathValue(w, r, "id")
	if !ok {
		return
	}
	h.dispatch(w, r, jobID)
}

// DispatchWorkOrder handles POST /functions/dispatch-work-order with body {job_id}.
// Kept for callers of the older function endpoint; DispatchJob is preferred.
func (h *DispatchHandlers) DispatchWorkOrder(w http.ResponseWriter, r *http.Request) {
	var req model.DispatchRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	h.dispatch(w, r, req.JobID)
}

func (h *DispatchHandlers) dispatch(w http.ResponseWriter, r *http.Request, jobID string) {
	res, err := h.Svc.Dispatch(r.Context(), jobID)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// EnrichEmails handles POST /functions/enrich-emails with body {target_id}.
func (h *DispatchHandlers) EnrichEmails(w http.ResponseWriter, r *http.Request) {
	var req model.EnrichEmailsRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.Enricher.Enrich(r.Context(), req.TargetID)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
