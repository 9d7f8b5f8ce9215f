package stablecoin

// responses.go implements the uniform success/error envelope shared by all
// endpoints and the helpers handlers use to send it.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/reflect-protocol/reflect-api/internal/logger"
)

// ResponseEnvelope is the wire format of every response:
// {"success": true, "data": ...} or {"success": false, "message": "..."}.
type ResponseEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatusForCode maps an error code to its HTTP status.
func StatusForCode(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidAmount, ErrCodeMissingField, ErrCodeInvalidRange,
		ErrCodeMalformedRequest:
		return http.StatusBadRequest
	case ErrCodeAssetNotFound, ErrCodeUnsupportedOperation:
		return http.StatusNotFound
	case ErrCodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithData sends a success envelope with the given payload.
func RespondWithData(w http.ResponseWriter, statusCode int, data any) {
	writeEnvelope(w, statusCode, ResponseEnvelope{Success: true, Data: data})
}

// RespondWithError maps err to an error envelope and sends it.
//
// Client errors keep their stable user-facing message. Server errors
// (upstream/internal) are logged with the full cause and returned to the
// client as a generic "Internal server error".
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	var scErr *StablecoinError
	if errors.As(err, &scErr) {
		statusCode = StatusForCode(scErr.Code())
		if statusCode < http.StatusInternalServerError {
			message = scErr.Message()
		}
	} else {
		reqLogger.Error("BUG: unmapped error type in RespondWithError",
			slog.String("error_type", fmt.Sprintf("%T", err)),
			slog.String("error", err.Error()),
		)
	}

	reqLogger.Warn("request failed",
		slog.String("error", err.Error()),
		slog.Int("status_code", statusCode),
	)

	writeEnvelope(w, statusCode, ResponseEnvelope{Success: false, Message: message})
}

// RespondWithErrorMessage sends an error envelope with an explicit status
// and message. Used by the middleware, which has no domain error to map.
func RespondWithErrorMessage(w http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(w, statusCode, ResponseEnvelope{Success: false, Message: message})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, envelope ResponseEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		// headers are already written, so just log the failure
		slog.Error("failed to encode JSON response",
			slog.String("error", err.Error()),
		)
	}
}
