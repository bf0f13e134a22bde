package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/service"
)

// ReplySender sends or rejects queued outbound replies.
type ReplySender interface {
	Send(ctx context.Context, id string) (*model.OutboundReply, error)
	Reject(ctx context.Context, id string) (*model.OutboundReply, error)
}

var _ ReplySender = (*service.ReplyService)(nil)

// ReplyHandlers serves the outbound reply queue.
type ReplyHandlers struct {
	Svc    ReplySender
	Logger *slog.Logger
}

// Send handles POST /api/replies/{id}/send.
func (h *ReplyHandlers) Send(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.Svc.Send)
}

// Reject handles DELETE /api/replies/{id}/send.
func (h *ReplyHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.Svc.Reject)
}

func (h *ReplyHandlers) apply(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, string) (*model.OutboundReply, error),
) {
	id, ok := pathValue(w, r, "id")
	if !ok {
		return
	}
	reply, err := fn(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, reply)
}
