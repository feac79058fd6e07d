package service

import (
	"context"
	"fmt"
	"hireflow/internal/cache"
	"hireflow/internal/callflow"
	"hireflow/internal/model"
	"hireflow/internal/validation"
	"log"
	"sort"
	"time"
)

// AgentParticipantID identifies the AI interviewer in every call
const AgentParticipantID = "agent"

// ConferenceService keeps the participant roster of each call and pushes
// speaking and microphone changes to the session's sockets as they are
// reported. Roster changes within a session are applied one at a time.
type ConferenceService struct {
	participants cache.ConferenceCache
	sessions     cache.CallSessionCache
	broadcaster  Broadcaster
	now          func() time.Time
	locks        *sessionLocks
}

// NewConferenceService creates a new conference service
func NewConferenceService(participants cache.ConferenceCache, sessions cache.CallSessionCache, broadcaster Broadcaster) *ConferenceService {
	return &ConferenceService{
		participants: participants,
		sessions:     sessions,
		broadcaster:  broadcaster,
		now:          time.Now,
		locks:        newSessionLocks(),
	}
}

// Join seeds the roster with the AI interviewer and the applicant
func (s *ConferenceService) Join(ctx context.Context, sessionID string, iv *model.Interview, a *model.Applicant) error {
	now := s.now()
	agentName := iv.InterviewerName
	if agentName == "" {
		agentName = "Interviewer"
	}
	for _, p := range []*model.Participant{
		{ID: AgentParticipantID, Name: agentName, Role: model.RoleAgent, MicEnabled: true, UpdatedAt: now},
		{ID: a.ID, Name: a.FullName(), Role: model.RoleApplicant, MicEnabled: true, UpdatedAt: now},
	} {
		if err := s.participants.SetParticipant(ctx, sessionID, p); err != nil {
			return fmt.Errorf("failed to add participant: %w", err)
		}
	}
	return nil
}

func (s *ConferenceService) requireActive(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load call session: %w", err)
	}
	if sess == nil {
		return ErrSessionNotFound
	}
	if sess.State != callflow.StateInterviewActive {
		return callflow.ErrNotActive
	}
	return nil
}

// Participants returns the roster with the agent first, then by id
func (s *ConferenceService) Participants(ctx context.Context, sessionID string) ([]*model.Participant, error) {
	out, err := s.participants.Participants(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Role == model.RoleAgent && out[j].Role != model.RoleAgent
	})
	return out, nil
}

// SetSpeaking records a participant's speaking flag as reported by
// reporterID. A caller may report for itself or for the agent only. A
// participant with a muted microphone is never reported as speaking. Only
// changes are pushed.
func (s *ConferenceService) SetSpeaking(ctx context.Context, sessionID, reporterID string, req model.SpeakingRequest) (*model.Participant, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.ParticipantID != AgentParticipantID && req.ParticipantID != reporterID {
		return nil, ErrParticipantNotAllowed
	}
	if err := s.requireActive(ctx, sessionID); err != nil {
		return nil, err
	}
	defer s.locks.lock(sessionID)()

	p, err := s.participants.GetParticipant(ctx, sessionID, req.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("participant %s: %w", req.ParticipantID, ErrNotFound)
	}
	speaking := req.Speaking && p.MicEnabled
	if p.Speaking == speaking {
		return p, nil
	}

	p.Speaking = speaking
	p.UpdatedAt = s.now()
	if err := s.participants.SetParticipant(ctx, sessionID, p); err != nil {
		return nil, fmt.Errorf("failed to save participant: %w", err)
	}
	s.broadcaster.BroadcastToSession(sessionID, EventSpeaking, p)
	return p, nil
}

// SetMic toggles a participant's microphone. Muting also clears speaking.
func (s *ConferenceService) SetMic(ctx context.Context, sessionID, participantID string, enabled bool) (*model.Participant, error) {
	if err := s.requireActive(ctx, sessionID); err != nil {
		return nil, err
	}
	defer s.locks.lock(sessionID)()

	p, err := s.participants.GetParticipant(ctx, sessionID, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("participant %s: %w", participantID, ErrNotFound)
	}
	if p.MicEnabled == enabled {
		return p, nil
	}

	p.MicEnabled = enabled
	if !enabled {
		p.Speaking = false
	}
	p.UpdatedAt = s.now()
	if err := s.participants.SetParticipant(ctx, sessionID, p); err != nil {
		return nil, fmt.Errorf("failed to save participant: %w", err)
	}
	s.broadcaster.BroadcastToSession(sessionID, EventMic, p)
	return p, nil
}

// End clears the roster and disconnects the session's sockets
func (s *ConferenceService) End(ctx context.Context, sessionID string) {
	unlock := s.locks.lock(sessionID)
	err := s.participants.Clear(ctx, sessionID)
	unlock()
	if err != nil {
		log.Printf("failed to clear participants for session %s: %v", sessionID, err)
	}
	s.broadcaster.BroadcastToSession(sessionID, EventCallEnded, map[string]string{"sessionId": sessionID})
	s.broadcaster.DisconnectSession(sessionID)
}
