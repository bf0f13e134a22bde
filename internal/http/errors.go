package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tradedispatch/dispatch-api/internal/data"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
)

var errInternal = errors.New("internal server error")

// statusFor maps a service error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest, string(apperrors.ErrCodeValidation)
	case apperrors.IsQuotaExceeded(err):
		return http.StatusPaymentRequired, string(apperrors.ErrCodeQuotaExceeded)
	case apperrors.IsNotFound(err),
		errors.Is(err, data.ErrJobNotFound),
		errors.Is(err, data.ErrAlertNotFound),
		errors.Is(err, data.ErrTargetNotFound),
		errors.Is(err, data.ErrLeadNotFound),
		errors.Is(err, data.ErrReplyNotFound):
		return http.StatusNotFound, string(apperrors.ErrCodeNotFound)
	case apperrors.IsConflict(err),
		errors.Is(err, data.ErrTargetNotClaimable),
		errors.Is(err, data.ErrReplyNotPending):
		return http.StatusConflict, string(apperrors.ErrCodeConflict)
	case apperrors.IsUpstream(err):
		return http.StatusInternalServerError, string(apperrors.ErrCodeUpstream)
	case apperrors.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, string(apperrors.ErrCodeTimeout)
	default:
		return http.StatusInternalServerError, string(apperrors.ErrCodeInternal)
	}
}

// writeServiceError renders a service error. Internal failures are logged and
// their details withheld from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if errors.Is(err, context.Canceled) || apperrors.IsCanceled(err) {
		// Client went away; nothing useful to send.
		return
	}
	code, errCode := statusFor(err)
	if code >= http.StatusInternalServerError {
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", code,
			"error", err,
		)
	}
	if errCode == string(apperrors.ErrCodeInternal) {
		err = errInternal
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: err})
}
