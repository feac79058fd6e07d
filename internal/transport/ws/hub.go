package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Client message types. Server events use the service.Event* names.
const (
	MsgSpeaking MessageType = "speaking"
	MsgMic      MessageType = "mic"
	MsgError    MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for call sessions
type Hub struct {
	// Session -> connections
	sessions map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID     string
	ParticipantID string
	Send          chan []byte
	Hub           *Hub
}

// BroadcastMessage is a message to broadcast. A nil To means every
// connection of the session. Close disconnects the session instead; it
// shares the queue so earlier messages are delivered first.
type BroadcastMessage struct {
	SessionID string
	To        *Connection
	Message   *Message
	Close     bool
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		sessions:   make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.sessions[conn.SessionID] == nil {
				h.sessions[conn.SessionID] = make(map[*Connection]bool)
			}
			h.sessions[conn.SessionID][conn] = true
			h.mu.Unlock()
			log.Printf("Participant %s connected to session %s", conn.ParticipantID, conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.sessions[conn.SessionID]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.sessions, conn.SessionID)
				}
				log.Printf("Participant %s disconnected from session %s", conn.ParticipantID, conn.SessionID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			if msg.Close {
				h.closeSession(msg.SessionID)
				continue
			}
			data, _ := json.Marshal(msg.Message)
			h.mu.RLock()
			for conn := range h.sessions[msg.SessionID] {
				if msg.To != nil && msg.To != conn {
					continue
				}
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) closeSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.sessions[sessionID] {
		close(conn.Send)
	}
	delete(h.sessions, sessionID)
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Count returns the number of open connections for a session
func (h *Hub) Count(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

func envelope(msgType string, payload interface{}) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: MessageType(msgType), Payload: data}
}

// BroadcastToSession sends a message to every socket of a call session
// (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message:   envelope(msgType, payload),
	}
}

// SendTo sends a message to one connection if it is still registered
func (h *Hub) SendTo(conn *Connection, msgType string, payload interface{}) {
	h.broadcast <- &BroadcastMessage{
		SessionID: conn.SessionID,
		To:        conn,
		Message:   envelope(msgType, payload),
	}
}

// DisconnectSession closes every socket of a call session
// (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.broadcast <- &BroadcastMessage{SessionID: sessionID, Close: true}
}
