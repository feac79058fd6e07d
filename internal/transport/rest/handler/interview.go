package handler

import (
	"hireflow/internal/model"
	"hireflow/internal/service"
	"hireflow/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// InterviewHandler handles scheduled interview endpoints
type InterviewHandler struct {
	interviewSvc *service.InterviewService
}

func NewInterviewHandler(interviewSvc *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewSvc: interviewSvc}
}

// List handles GET /v1/interviews?status=&offset=&limit=
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.interviewSvc.List(r.Context(),
		middleware.GetRecruiterID(r.Context()),
		model.InterviewStatus(r.URL.Query().Get("status")),
		queryInt(r, "offset", 0),
		queryInt(r, "limit", model.DefaultPageLimit),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /v1/interviews/{id}
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	iv, err := h.interviewSvc.Get(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, iv)
}

// AddInvitee handles POST /v1/interviews/{id}/invitees
func (h *InterviewHandler) AddInvitee(w http.ResponseWriter, r *http.Request) {
	var in model.InviteeInput
	if !decodeJSON(w, r, &in) {
		return
	}

	iv, err := h.interviewSvc.AddInvitee(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"], in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, iv)
}

// Cancel handles POST /v1/interviews/{id}/cancel
func (h *InterviewHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	iv, err := h.interviewSvc.Cancel(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, iv)
}
