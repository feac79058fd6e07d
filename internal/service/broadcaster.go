package service

// Broadcaster pushes events to the sockets attached to a call session
// (interface here to avoid an import cycle with transport/ws)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

// Event types pushed to call sockets
const (
	EventParticipants = "participants"
	EventSpeaking     = "participant_speaking"
	EventMic          = "participant_mic"
	EventCallState    = "call_state"
	EventCallEnded    = "call_ended"
)
