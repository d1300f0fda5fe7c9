// Package store provides durable session persistence.
package store

import (
	"context"

	"github.com/voyago/voyago/internal/domain"
)

// Store is the durable session log. Message writes are committed before the
// call returns; a crash after CreateMessage must not lose the message.
type Store interface {
	// CreateSession persists a new session.
	CreateSession(ctx context.Context, session *domain.Session) error

	// GetSession returns the session with its messages, or nil on miss.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// GetOrCreateSession returns the session, creating an empty one under the
	// given id if it does not exist.
	GetOrCreateSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// ListSessions returns session summaries ordered by creation time,
	// newest first.
	ListSessions(ctx context.Context) ([]domain.SessionSummary, error)

	// CreateMessage appends a message to a session.
	CreateMessage(ctx context.Context, msg *domain.Message) error

	// GetMessages returns a session's messages in append order.
	GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// UpdateSessionTitle replaces the title only while it is still the
	// default placeholder. Returns whether an update happened.
	UpdateSessionTitle(ctx context.Context, sessionID, title string) (bool, error)

	Close() error
}
