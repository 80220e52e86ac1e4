package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/mr-dj06/Bandhu-AI/internal/model/chat"
	"github.com/mr-dj06/Bandhu-AI/internal/store"
)

// contextLimit is how many prior messages accompany each new user message
// to the responder.
const contextLimit = 5

// Responder produces one assistant reply for a user message given recent
// history. Implementations never fail; degraded backends return a fallback
// string instead.
type Responder interface {
	Respond(ctx context.Context, message string, history []chat.Message) string
}

// Service runs the per-turn conversation pipeline on top of the store.
type Service struct {
	store     store.Store
	responder Responder
}

// NewService wires the conversation pipeline.
func NewService(st store.Store, responder Responder) *Service {
	return &Service{store: st, responder: responder}
}

// ProcessUserMessage persists the user message, gathers recent context,
// asks the responder for a reply and persists it. Any storage failure is
// returned to the caller; the realtime channel converts it into the generic
// apology so the connection stays usable.
func (s *Service) ProcessUserMessage(ctx context.Context, sessionID, text string) (string, error) {
	userMsg, err := s.store.Append(ctx, sessionID, chat.SenderUser, text)
	if err != nil {
		return "", fmt.Errorf("saving user message: %w", err)
	}

	// Fetch one extra so the just-written message can be dropped from the
	// context, leaving up to contextLimit prior messages.
	history, err := s.store.Recent(ctx, sessionID, contextLimit+1)
	if err != nil {
		return "", fmt.Errorf("loading history: %w", err)
	}
	history = withoutMessage(history, userMsg.ID)

	reply := s.responder.Respond(ctx, text, history)

	if _, err := s.store.Append(ctx, sessionID, chat.SenderBot, reply); err != nil {
		return "", fmt.Errorf("saving bot message: %w", err)
	}

	log.Printf("[chat] processed message session=%s history=%d reply_len=%d", sessionID, len(history), len(reply))
	return reply, nil
}

func withoutMessage(messages []chat.Message, id string) []chat.Message {
	filtered := messages[:0]
	for _, msg := range messages {
		if msg.ID != id {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}
