package chat_test

import (
	"context"
	"path/filepath"
	"testing"

	chatmodel "github.com/mr-dj06/Bandhu-AI/internal/model/chat"
	chatservice "github.com/mr-dj06/Bandhu-AI/internal/service/chat"
	"github.com/mr-dj06/Bandhu-AI/internal/store"
)

type fakeResponder struct {
	reply      string
	gotMessage string
	gotHistory []chatmodel.Message
}

func (f *fakeResponder) Respond(ctx context.Context, message string, history []chatmodel.Message) string {
	f.gotMessage = message
	f.gotHistory = history
	return f.reply
}

func setupService(t *testing.T) (*chatservice.Service, *store.SQLite, *fakeResponder) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("NewSQLite err: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	responder := &fakeResponder{reply: "How can I help?"}
	return chatservice.NewService(st, responder), st, responder
}

func TestProcessUserMessagePersistsBothTurns(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	reply, err := svc.ProcessUserMessage(ctx, "abc123", "Hello")
	if err != nil {
		t.Fatalf("ProcessUserMessage err: %v", err)
	}
	if reply != "How can I help?" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	transcript, err := st.Transcript(ctx, "abc123")
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(transcript))
	}
	if transcript[0].Sender != chatmodel.SenderUser || transcript[0].Content != "Hello" {
		t.Fatalf("unexpected first message: %+v", transcript[0])
	}
	if transcript[1].Sender != chatmodel.SenderBot || transcript[1].Content != "How can I help?" {
		t.Fatalf("unexpected second message: %+v", transcript[1])
	}
}

func TestProcessUserMessageFreshSessionHasEmptyHistory(t *testing.T) {
	svc, _, responder := setupService(t)

	if _, err := svc.ProcessUserMessage(context.Background(), "fresh", "Hello"); err != nil {
		t.Fatalf("ProcessUserMessage err: %v", err)
	}

	if responder.gotMessage != "Hello" {
		t.Fatalf("responder got message %q", responder.gotMessage)
	}
	if len(responder.gotHistory) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(responder.gotHistory))
	}
}

func TestProcessUserMessageContextIsFiveMostRecentPrior(t *testing.T) {
	svc, st, responder := setupService(t)
	ctx := context.Background()

	// Six prior messages in the session.
	priors := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	for i, text := range priors {
		sender := chatmodel.SenderUser
		if i%2 == 1 {
			sender = chatmodel.SenderBot
		}
		if _, err := st.Append(ctx, "s1", sender, text); err != nil {
			t.Fatalf("Append err: %v", err)
		}
	}

	if _, err := svc.ProcessUserMessage(ctx, "s1", "seventh"); err != nil {
		t.Fatalf("ProcessUserMessage err: %v", err)
	}

	if len(responder.gotHistory) != 5 {
		t.Fatalf("expected 5 prior messages in context, got %d", len(responder.gotHistory))
	}
	want := []string{"p2", "p3", "p4", "p5", "p6"}
	for i, msg := range responder.gotHistory {
		if msg.Content != want[i] {
			t.Fatalf("position %d: got %q want %q", i, msg.Content, want[i])
		}
	}
	// The new message reaches the responder only as the final turn argument.
	for _, msg := range responder.gotHistory {
		if msg.Content == "seventh" {
			t.Fatal("new message duplicated into history")
		}
	}
}
