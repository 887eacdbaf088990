package memory

import (
	"context"
	"time"

	"rag-qa-be/internal/entity"
	"rag-qa-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = &SessionRepository{}

// NewSessionRepository builds an in-memory registry. ttl should match the
// token TTL so entries for sessions that could never validate anyway get
// purged on their own.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// Save stores the session keyed by username. go-cache's Set is an atomic
// replace, so a concurrent login for the same account is last-writer-wins
// and never leaves two live entries.
func (r *SessionRepository) Save(_ context.Context, session *entity.Session) error {
	r.cache.Set(session.Username, session, time.Until(session.ExpiresAt))
	return nil
}

func (r *SessionRepository) Get(_ context.Context, username string) (*entity.Session, bool, error) {
	if x, found := r.cache.Get(username); found {
		return x.(*entity.Session), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, username string) error {
	r.cache.Delete(username)
	return nil
}
