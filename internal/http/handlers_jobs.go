// Package httpx provides the HTTP API of the dispatch service.
package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/service"
)

// JobParser turns a free-text request into structured job fields.
type JobParser interface {
	Parse(ctx context.Context, jobID, rawText string) (*model.ParseJobResult, error)
}

var _ JobParser = (*service.JobParseService)(nil)

// JobHandlers provides HTTP handlers for job intake.
type JobHandlers struct {
	Parser JobParser
	Logger *slog.Logger
}

type parseJobRequest struct {
	RawText string `json:"raw_text" validate:"required"`
}

type parseJobResponse struct {
	Success bool `json:"success"`
	*model.ParseJobResult
}

// Parse handles POST /api/jobs/{id}/parse.
func (h *JobHandlers) Parse(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathValue(w, r, "id")
	if !ok {
		return
	}
	var req parseJobRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.Parser.Parse(r.Context(), jobID, req.RawText)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, parseJobResponse{Success: true, ParseJobResult: res})
}
