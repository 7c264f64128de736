package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MouazMsh/Bookfliy/internal/model"
)

// sessionPrefix keys sessions in Redis: session:{id} -> session JSON
const sessionPrefix = "session:"

// SessionRepository stores browser sessions in Redis with a sliding TTL.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepository creates a session repository.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionPrefix + id
}

// Create stores a fresh anonymous session under a random id.
func (r *SessionRepository) Create(ctx context.Context) (*model.Session, error) {
	sess := &model.Session{ID: uuid.NewString()}
	if err := r.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session by id. A missing or expired session yields (nil, nil).
func (r *SessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess := &model.Session{ID: id}
	if err := json.Unmarshal([]byte(data), sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

// Save writes the session back and resets its TTL.
func (r *SessionRepository) Save(ctx context.Context, sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.rdb.Set(ctx, sessionKey(sess.ID), data, r.ttl).Err()
}

// Delete destroys a session (logout).
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, sessionKey(id)).Err()
}
