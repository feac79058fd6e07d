package handler

import (
	"errors"
	"hireflow/internal/model"
	"hireflow/internal/service"
	"hireflow/internal/transport/rest/middleware"
	"hireflow/internal/validation"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// CallHandler handles the applicant call flow
type CallHandler struct {
	callSvc *service.CallService
}

// NewCallHandler creates a new call handler
func NewCallHandler(callSvc *service.CallService) *CallHandler {
	return &CallHandler{callSvc: callSvc}
}

// Authenticate handles POST /v1/call/{interviewId}/auth. The path segment may
// be an interview ID or a share code.
func (h *CallHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req model.ApplicantAuthRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.callSvc.Authenticate(r.Context(), mux.Vars(r)["interviewId"], req)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			writeServiceError(w, err)
			return
		}
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			log.Printf("applicant auth failed: %v", err)
			msg = "authentication failed, please try again"
		}
		writeJSON(w, status, model.ApplicantAuthResponse{Message: msg})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Session handles GET /v1/call/session
func (h *CallHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, err := h.callSvc.Session(r.Context(), middleware.GetApplicantClaims(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// Advance handles POST /v1/call/advance
func (h *CallHandler) Advance(w http.ResponseWriter, r *http.Request) {
	sess, err := h.callSvc.Advance(r.Context(), middleware.GetApplicantClaims(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// AcquireDevice handles POST /v1/call/devices/{kind}
func (h *CallHandler) AcquireDevice(w http.ResponseWriter, r *http.Request) {
	lease, err := h.callSvc.AcquireDevice(r.Context(), middleware.GetApplicantClaims(r.Context()), mux.Vars(r)["kind"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lease)
}

// ReleaseDevice handles DELETE /v1/call/devices/{kind}
func (h *CallHandler) ReleaseDevice(w http.ResponseWriter, r *http.Request) {
	if err := h.callSvc.ReleaseDevice(r.Context(), middleware.GetApplicantClaims(r.Context()), mux.Vars(r)["kind"]); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeviceDenied handles POST /v1/call/device-denied
func (h *CallHandler) DeviceDenied(w http.ResponseWriter, r *http.Request) {
	var req model.DeviceDeniedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.callSvc.DenyDevice(r.Context(), middleware.GetApplicantClaims(r.Context()), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// Question handles GET /v1/call/question
func (h *CallHandler) Question(w http.ResponseWriter, r *http.Request) {
	q, err := h.callSvc.CurrentQuestion(r.Context(), middleware.GetApplicantClaims(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, q)
}

// NextQuestion handles POST /v1/call/question/next
func (h *CallHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.callSvc.NextQuestion(r.Context(), middleware.GetApplicantClaims(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, q)
}

// Feedback handles POST /v1/call/feedback
func (h *CallHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req model.FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.callSvc.SubmitFeedback(r.Context(), middleware.GetApplicantClaims(r.Context()), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}
