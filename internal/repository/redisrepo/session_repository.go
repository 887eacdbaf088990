package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rag-qa-be/internal/entity"
	"rag-qa-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionRepository backs the registry with redis so sessions survive a
// process restart. Same semantics as the in-memory registry: one key per
// username, SET replaces atomically.
type SessionRepository struct {
	client *redis.Client
}

var _ contract.SessionRepository = &SessionRepository{}

func NewSessionRepository(redisURL string) (*SessionRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &SessionRepository{
		client: redis.NewClient(opts),
	}, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return r.client.Set(ctx, sessionKeyPrefix+session.Username, payload, ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, username string) (*entity.Session, bool, error) {
	payload, err := r.client.Get(ctx, sessionKeyPrefix+username).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var session entity.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, username string) error {
	return r.client.Del(ctx, sessionKeyPrefix+username).Err()
}
