package model

import "time"

// ParticipantRole distinguishes the AI agent from humans in a call
type ParticipantRole string

const (
	RoleAgent     ParticipantRole = "agent"
	RoleApplicant ParticipantRole = "applicant"
)

// Participant mirrors what the real-time SDK reports about one call member
type Participant struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Role       ParticipantRole `json:"role"`
	MicEnabled bool            `json:"micEnabled"`
	Speaking   bool            `json:"speaking"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// SpeakingRequest reports a participant's speaking flag
type SpeakingRequest struct {
	ParticipantID string `json:"participantId" validate:"required"`
	Speaking      bool   `json:"speaking"`
}

// MicRequest toggles the local participant's microphone
type MicRequest struct {
	Enabled bool `json:"enabled"`
}
