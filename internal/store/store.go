package store

import (
	"context"
	"errors"

	"github.com/mr-dj06/Bandhu-AI/internal/model/chat"
)

// ErrUnavailable is returned when the underlying storage cannot be reached.
var ErrUnavailable = errors.New("storage unavailable")

// Store persists the append-only conversation log. There are no update or
// delete operations: messages are immutable once written.
type Store interface {
	// Append creates and persists a message with a server-assigned timestamp.
	Append(ctx context.Context, sessionID, sender, text string) (chat.Message, error)

	// Recent returns up to limit of the most recent messages for the session,
	// re-ordered chronologically (oldest first). Empty slice when none exist.
	Recent(ctx context.Context, sessionID string, limit int) ([]chat.Message, error)

	// Transcript returns the full history for the session, timestamp
	// ascending. Unknown sessions yield an empty slice, not an error.
	Transcript(ctx context.Context, sessionID string) ([]chat.Message, error)

	// SessionIDs returns every session id that has at least one message.
	SessionIDs(ctx context.Context) ([]string, error)

	Close() error
}
