package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/domain/sla"
	"github.com/tradedispatch/dispatch-api/internal/service"
)

const defaultStreamHeartbeat = 25 * time.Second

// SLAService is the SLA surface the handlers depend on.
type SLAService interface {
	Resolve(trade, urgency string) model.SLAConfig
	Presets() *sla.Presets
	Snapshot(ctx context.Context, jobID string) *model.SLASnapshot
	StartTimers(ctx context.Context, req model.StartSLATimersRequest) (*model.SLASnapshot, error)
	CompleteStage(ctx context.Context, jobID string, stage model.SLAStage) error
	Acknowledge(ctx context.Context, alertID string) (*model.SLAAlert, error)
	Subscribe(ctx context.Context, jobID string) <-chan *model.SLASnapshot
}

var _ SLAService = (*service.SLAService)(nil)

// SLAHandlers serves job SLA timers, alerts and presets.
type SLAHandlers struct {
	Svc       SLAService
	Heartbeat time.Duration // Interval between keep-alive comments on streams
	Logger    *slog.Logger
}

// Snapshot handles GET /api/jobs/{id}/sla.
func (h *SLAHandlers) Snapshot(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathValue(w, r, "id")
	if !ok {
		return
	}
	WriteData(w, http.StatusOK, h.Svc.Snapshot(r.Context(), jobID))
}

// Start handles POST /api/jobs/{id}/sla. The body is optional.
func (h *SLAHandlers) Start(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathValue(w, r, "id")
	if !ok {
		return
	}
	var req model.StartSLATimersRequest
	if !DecodeOptionalJSON(w, r, &req) {
		return
	}
	req.JobID = jobID

	snap, err := h.Svc.StartTimers(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusCreated, snap)
}

// CompleteStage handles POST /api/jobs/{id}/sla/{stage}/complete.
func (h *SLAHandlers) CompleteStage(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathValue(w, r, "id")
	if !ok {
		return
	}
	stage, ok := pathValue(w, r, "stage")
	if !ok {
		return
	}
	if err := h.Svc.CompleteStage(r.Context(), jobID, model.SLAStage(stage)); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, h.Svc.Snapshot(r.Context(), jobID))
}

// Acknowledge handles POST /api/sla/alerts/{id}/ack.
func (h *SLAHandlers) Acknowledge(w http.ResponseWriter, r *http.Request) {
	alertID, ok := pathValue(w, r, "id")
	if !ok {
		return
	}
	alert, err := h.Svc.Acknowledge(r.Context(), alertID)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, alert)
}

type resolvedPreset struct {
	Trade   string          `json:"trade"`
	Urgency string          `json:"urgency"`
	Preset  bool            `json:"preset"`
	Config  model.SLAConfig `json:"config"`
}

type presetTable struct {
	Fallback model.SLAConfig            `json:"fallback"`
	Presets  map[string]model.SLAConfig `json:"presets"`
}

// Presets handles GET /api/sla/presets. With trade and urgency it resolves
// one pair; without them it lists the whole table.
func (h *SLAHandlers) Presets(w http.ResponseWriter, r *http.Request) {
	trade := queryValue(r, "trade")
	urgency := queryValue(r, "urgency")
	table := h.Svc.Presets()

	if trade == "" && urgency == "" {
		WriteData(w, http.StatusOK, presetTable{Fallback: table.Fallback, Presets: table.Entries})
		return
	}
	_, exact := table.Entries[sla.Key(trade, urgency)]
	WriteData(w, http.StatusOK, resolvedPreset{
		Trade:   trade,
		Urgency: urgency,
		Preset:  exact,
		Config:  h.Svc.Resolve(trade, urgency),
	})
}

// Stream handles GET /api/jobs/{id}/sla/stream as server-sent events. Each
// change to the job's timers or alerts produces a "snapshot" event.
func (h *SLAHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathValue(w, r, "id")
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "streaming_unsupported",
			Err:     fmt.Errorf("response writer cannot stream"),
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	snaps := h.Svc.Subscribe(ctx, jobID)
	ticker := time.NewTicker(h.heartbeat())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, open := <-snaps:
			if !open {
				return
			}
			if err := writeEvent(w, "snapshot", snap); err != nil {
				h.logger().DebugContext(ctx, "sla stream write failed", "job_id", jobID, "error", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}

func (h *SLAHandlers) heartbeat() time.Duration {
	if h.Heartbeat <= 0 {
		return defaultStreamHeartbeat
	}
	return h.Heartbeat
}

func (h *SLAHandlers) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
