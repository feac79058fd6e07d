package handler

import (
	"hireflow/internal/model"
	"hireflow/internal/service"
	"hireflow/internal/transport/rest/middleware"
	"net/http"
)

// ConferenceHandler exposes the live call roster
type ConferenceHandler struct {
	conferenceSvc *service.ConferenceService
}

func NewConferenceHandler(conferenceSvc *service.ConferenceService) *ConferenceHandler {
	return &ConferenceHandler{conferenceSvc: conferenceSvc}
}

// Participants handles GET /v1/call/conference/participants
func (h *ConferenceHandler) Participants(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetApplicantClaims(r.Context())
	list, err := h.conferenceSvc.Participants(r.Context(), claims.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if list == nil {
		list = []*model.Participant{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"participants": list})
}

// Speaking handles POST /v1/call/conference/speaking
func (h *ConferenceHandler) Speaking(w http.ResponseWriter, r *http.Request) {
	var req model.SpeakingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	claims := middleware.GetApplicantClaims(r.Context())
	if req.ParticipantID == "" {
		req.ParticipantID = claims.ApplicantID
	}
	p, err := h.conferenceSvc.SetSpeaking(r.Context(), claims.SessionID, claims.ApplicantID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// Mic handles POST /v1/call/conference/mic for the applicant's own microphone
func (h *ConferenceHandler) Mic(w http.ResponseWriter, r *http.Request) {
	var req model.MicRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	claims := middleware.GetApplicantClaims(r.Context())
	p, err := h.conferenceSvc.SetMic(r.Context(), claims.SessionID, claims.ApplicantID, req.Enabled)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}
