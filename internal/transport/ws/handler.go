package ws

import (
	"context"
	"encoding/json"
	"hireflow/internal/model"
	"hireflow/internal/service"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub           *Hub
	authSvc       *service.AuthService
	callSvc       *service.CallService
	conferenceSvc *service.ConferenceService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, callSvc *service.CallService, conferenceSvc *service.ConferenceService) *Handler {
	return &Handler{
		hub:           hub,
		authSvc:       authSvc,
		callSvc:       callSvc,
		conferenceSvc: conferenceSvc,
	}
}

// CallWS handles GET /v1/ws/call/{interviewId}
func (h *Handler) CallWS(w http.ResponseWriter, r *http.Request) {
	interviewID := mux.Vars(r)["interviewId"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateApplicantToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if claims.InterviewID != interviewID {
		http.Error(w, "token not valid for this interview", http.StatusForbidden)
		return
	}

	if _, err := h.callSvc.Session(r.Context(), claims); err != nil {
		http.Error(w, "call session not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		SessionID:     claims.SessionID,
		ParticipantID: claims.ApplicantID,
		Send:          make(chan []byte, 256),
		Hub:           h.hub,
	}

	h.hub.Register(conn)

	if roster, err := h.conferenceSvc.Participants(r.Context(), claims.SessionID); err == nil {
		h.hub.SendTo(conn, service.EventParticipants, roster)
	}

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
		h.callSvc.Teardown(context.Background(), conn.SessionID)
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		if err := h.handleMessage(conn, data); err != nil {
			h.hub.SendTo(conn, string(MsgError), map[string]string{"error": err.Error()})
		}
	}
}

// handleMessage applies a client event to the conference roster
func (h *Handler) handleMessage(conn *Connection, data []byte) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}

	ctx := context.Background()
	switch msg.Type {
	case MsgSpeaking:
		var req model.SpeakingRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		if req.ParticipantID == "" {
			req.ParticipantID = conn.ParticipantID
		}
		_, err := h.conferenceSvc.SetSpeaking(ctx, conn.SessionID, conn.ParticipantID, req)
		return err
	case MsgMic:
		var req model.MicRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		_, err := h.conferenceSvc.SetMic(ctx, conn.SessionID, conn.ParticipantID, req.Enabled)
		return err
	}
	return nil
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
