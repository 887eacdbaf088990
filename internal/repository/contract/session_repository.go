package contract

import (
	"context"

	"rag-qa-be/internal/entity"
)

// SessionRepository holds the single active session per username.
// Save atomically replaces any previous session for the same username;
// that replacement is what invalidates the old device's token.
type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, username string) (*entity.Session, bool, error)
	Delete(ctx context.Context, username string) error
}
