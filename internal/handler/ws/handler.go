package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// errorReply is emitted as the bot response when the message pipeline fails.
// The connection stays open; no protocol-level error reaches the client.
const errorReply = "Sorry, I encountered an error. Please try again."

// Conversations runs the per-turn pipeline for one inbound user message.
type Conversations interface {
	ProcessUserMessage(ctx context.Context, sessionID, text string) (string, error)
}

// Handler upgrades chat clients to a WebSocket connection and relays the
// user_message / bot_response event exchange.
type Handler struct {
	conversations Conversations
	upgrader      websocket.Upgrader
}

// New creates the realtime channel handler.
func New(conversations Conversations) *Handler {
	return &Handler{
		conversations: conversations,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// event is the JSON envelope for both directions.
type event struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// HandleConnection serves GET /ws. The session id comes from the sessionId
// query parameter; absent that, a server-generated uuid is assigned and
// announced so the client can persist it.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	assigned := false
	if sessionID == "" {
		sessionID = uuid.NewString()
		assigned = true
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] client connected session=%s assigned=%t", sessionID, assigned)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.send(conn, event{Event: "session", Data: sessionID})

	// One read loop per connection: inbound events are processed one at a
	// time in arrival order.
	for {
		var msg event
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[ws] read error session=%s: %v", sessionID, err)
			}
			log.Printf("[ws] client disconnected session=%s", sessionID)
			return
		}

		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		h.handleEvent(ctx, conn, sessionID, msg)
	}
}

func (h *Handler) handleEvent(ctx context.Context, conn *websocket.Conn, sessionID string, msg event) {
	switch msg.Event {
	case "user_message":
		reply := h.processUserMessage(ctx, sessionID, msg.Data)
		h.send(conn, event{Event: "bot_response", Data: reply})
	case "test":
		log.Printf("[ws] test event session=%s data=%q", sessionID, msg.Data)
		h.send(conn, event{Event: "test", Data: "Hello from server!"})
	default:
		h.send(conn, event{Event: "error", Data: "unsupported event: " + msg.Event})
	}
}

// processUserMessage never surfaces pipeline errors: storage failures become
// the generic apology, completion failures already degrade inside the
// responder.
func (h *Handler) processUserMessage(ctx context.Context, sessionID, text string) string {
	reply, err := h.conversations.ProcessUserMessage(ctx, sessionID, text)
	if err != nil {
		log.Printf("[ws] message pipeline failed session=%s: %v", sessionID, err)
		return errorReply
	}
	return reply
}

func (h *Handler) send(conn *websocket.Conn, msg event) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
