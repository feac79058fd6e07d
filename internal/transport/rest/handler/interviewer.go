package handler

import (
	"hireflow/internal/model"
	"hireflow/internal/service"
	"hireflow/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// InterviewerHandler handles AI interviewer persona endpoints
type InterviewerHandler struct {
	interviewerSvc *service.InterviewerService
}

func NewInterviewerHandler(interviewerSvc *service.InterviewerService) *InterviewerHandler {
	return &InterviewerHandler{interviewerSvc: interviewerSvc}
}

// Create handles POST /v1/interviewers
func (h *InterviewerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.InterviewerInput
	if !decodeJSON(w, r, &in) {
		return
	}

	iv, err := h.interviewerSvc.Create(r.Context(), middleware.GetRecruiterID(r.Context()), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, iv)
}

// List handles GET /v1/interviewers
func (h *InterviewerHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.interviewerSvc.List(r.Context(), middleware.GetRecruiterID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if list == nil {
		list = []*model.Interviewer{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"interviewers": list})
}

// Get handles GET /v1/interviewers/{id}
func (h *InterviewerHandler) Get(w http.ResponseWriter, r *http.Request) {
	iv, err := h.interviewerSvc.Get(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, iv)
}

// Update handles PATCH /v1/interviewers/{id}
func (h *InterviewerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.InterviewerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	iv, err := h.interviewerSvc.Update(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, iv)
}

// Delete handles DELETE /v1/interviewers/{id}
func (h *InterviewerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.interviewerSvc.Delete(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
