package handler

import (
	"encoding/json"
	"errors"
	"hireflow/internal/callflow"
	"hireflow/internal/service"
	"hireflow/internal/validation"
	"hireflow/internal/wizard"
	"io"
	"log"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a request body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}

func queryInt(r *http.Request, key string, def int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrCodeExpired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrNotInvited),
		errors.Is(err, service.ErrParticipantNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInterviewClosed):
		return http.StatusGone
	case errors.Is(err, callflow.ErrUnknownDevice):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAccountExists),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, wizard.ErrSubmitInFlight),
		errors.Is(err, callflow.ErrSessionComplete),
		errors.Is(err, callflow.ErrDevicesRequired),
		errors.Is(err, callflow.ErrDevicePermission),
		errors.Is(err, callflow.ErrQuestionsRemaining),
		errors.Is(err, callflow.ErrNotActive),
		errors.Is(err, callflow.ErrNotComplete),
		errors.Is(err, callflow.ErrFeedbackSubmitted):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeServiceError turns a service error into a JSON error response.
// Validation failures carry their field messages.
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"fields": verrs,
		})
		return
	}
	var stepErr *wizard.StepError
	if errors.As(err, &stepErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":    "current step is incomplete",
			"step":     stepErr.Step,
			"problems": stepErr.Problems,
		})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}
