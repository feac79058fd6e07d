package handler

import (
	"hireflow/internal/model"
	"hireflow/internal/service"
	"hireflow/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// JobHandler handles job posting endpoints
type JobHandler struct {
	jobSvc *service.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobSvc *service.JobService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc}
}

// Create handles POST /v1/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.JobInput
	if !decodeJSON(w, r, &in) {
		return
	}

	job, err := h.jobSvc.Create(r.Context(), middleware.GetRecruiterID(r.Context()), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// List handles GET /v1/jobs?search=&status=&offset=&limit=
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.jobSvc.List(r.Context(), middleware.GetRecruiterID(r.Context()), model.JobFilter{
		Search: q.Get("search"),
		Status: model.JobStatus(q.Get("status")),
		Offset: queryInt(r, "offset", 0),
		Limit:  queryInt(r, "limit", model.DefaultPageLimit),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /v1/jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobSvc.Get(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// Update handles PATCH /v1/jobs/{id}
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.JobPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	job, err := h.jobSvc.Update(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// Delete handles DELETE /v1/jobs/{id}
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.jobSvc.Delete(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
