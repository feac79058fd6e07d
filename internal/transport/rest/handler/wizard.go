package handler

import (
	"hireflow/internal/model"
	"hireflow/internal/service"
	"hireflow/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// WizardHandler drives the interview-creation wizard
type WizardHandler struct {
	wizardSvc *service.WizardService
}

func NewWizardHandler(wizardSvc *service.WizardService) *WizardHandler {
	return &WizardHandler{wizardSvc: wizardSvc}
}

// Start handles POST /v1/wizards
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	resp, err := h.wizardSvc.Start(r.Context(), middleware.GetRecruiterID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/wizards/{id}
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.wizardSvc.Get(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetFields handles PATCH /v1/wizards/{id}/fields
func (h *WizardHandler) SetFields(w http.ResponseWriter, r *http.Request) {
	var req model.FieldsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, "fields is required")
		return
	}

	resp, err := h.wizardSvc.SetFields(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"], req.Fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Next handles POST /v1/wizards/{id}/next. On the last step it submits.
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	resp, err := h.wizardSvc.Next(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if resp.Interview != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// Back handles POST /v1/wizards/{id}/back
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	resp, err := h.wizardSvc.Back(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Close handles DELETE /v1/wizards/{id}
func (h *WizardHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.wizardSvc.Close(r.Context(), middleware.GetRecruiterID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
