package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
	"github.com/tradedispatch/dispatch-api/internal/service"
)

// LeadService is the lead pipeline surface the handlers depend on.
type LeadService interface {
	Import(ctx context.Context, source model.LeadSource, req model.LeadImportRequest) (*model.LeadImportResult, error)
	Enrich(ctx context.Context, req model.LeadEnrichRequest) (*model.LeadEnrichResult, error)
	Verify(ctx context.Context, req model.LeadVerifyRequest) (*model.LeadVerifyResult, error)
	Stats(ctx context.Context) (*model.LeadStats, error)
}

var _ LeadService = (*service.LeadService)(nil)

// LeadHandlers serves license-board import and contractor email enrichment.
type LeadHandlers struct {
	Svc    LeadService
	Logger *slog.Logger
}

// Import handles POST /api/leads/import/{source}.
func (h *LeadHandlers) Import(w http.ResponseWriter, r *http.Request) {
	raw, ok := pathValue(w, r, "source")
	if !ok {
		return
	}
	source, err := model.ParseLeadSource(raw)
	if err != nil {
		writeServiceError(w, r, h.Logger, apperrors.ValidationField("source", err.Error()))
		return
	}
	var req model.LeadImportRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.Svc.Import(r.Context(), source, req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Enrich handles POST /api/leads/enrich.
func (h *LeadHandlers) Enrich(w http.ResponseWriter, r *http.Request) {
	var req model.LeadEnrichRequest
	if !DecodeOptionalJSON(w, r, &req) {
		return
	}
	if err := validateStruct(&req); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	res, err := h.Svc.Enrich(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Stats handles GET /api/leads/enrich.
func (h *LeadHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, stats)
}

// Verify handles POST /api/leads/verify.
func (h *LeadHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	var req model.LeadVerifyRequest
	if !DecodeOptionalJSON(w, r, &req) {
		return
	}
	if err := validateStruct(&req); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	res, err := h.Svc.Verify(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
