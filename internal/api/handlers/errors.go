package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cheertaboi/coupon-service/internal/models"
)

const unexpectedErrorMessage = "An unexpected error occurred."

type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

// writeServiceError maps a use-case error onto the HTTP error body. Anything
// not raised by the domain is logged and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unexpected error")
		writeError(w, status, unexpectedErrorMessage)
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrBusinessRuleViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrCouponNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrCouponAlreadyDeleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
