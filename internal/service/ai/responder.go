package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/mr-dj06/Bandhu-AI/internal/model/chat"
)

const systemPrompt = "You are a helpful customer support assistant. Be concise, friendly, and professional."

// Fallback is returned whenever the completion call cannot produce a reply.
// The chat stays usable while the AI backend is down.
const Fallback = "I'm sorry, I'm having trouble responding right now. Please try again later."

// historyLimit bounds the conversation context sent upstream.
const historyLimit = 5

// Responder produces one assistant reply per user message by delegating to
// an external chat model. It is stateless between calls; all context is
// passed explicitly each invocation.
type Responder struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewResponder compiles the prompt/model chain. chatModel may be any eino
// chat model; production wiring uses the Ark model from config.
func NewResponder(ctx context.Context, chatModel model.ChatModel) (*Responder, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compiling responder chain: %w", err)
	}

	return &Responder{chain: runnable}, nil
}

// Respond generates a reply for the new message given recent history.
// Failures never propagate: the fixed fallback string is returned and the
// cause is logged so the masking stays observable.
func (r *Responder) Respond(ctx context.Context, message string, history []chat.Message) string {
	if r == nil || r.chain == nil {
		log.Printf("[ai] responder not configured, returning fallback")
		return Fallback
	}

	input := map[string]any{
		"system":  systemPrompt,
		"history": buildHistory(history),
		"query":   message,
	}

	response, err := r.chain.Invoke(ctx, input)
	if err != nil {
		log.Printf("[ai] completion failed, returning fallback: %v", err)
		return Fallback
	}
	if response == nil || response.Content == "" {
		log.Printf("[ai] completion returned empty content, returning fallback")
		return Fallback
	}

	return response.Content
}

// buildHistory maps the most recent stored messages onto the two-role chat
// format: sender "user" becomes the user role, everything else assistant.
func buildHistory(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		if msg.Sender == chat.SenderUser {
			history = append(history, schema.UserMessage(msg.Content))
		} else {
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}
