package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bentossell/rewriter-cursor/internal/model"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

// ErrSessionNotFound is returned when a session is missing, expired or revoked.
var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions as JSON values with a TTL matching their expiry.
// Each user also has a set of live session IDs so all of them can be revoked.
type Store struct {
	client *redis.Client
}

// NewStore wraps an existing Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

type storedSession struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func userSessionsKey(userID string) string {
	return userSessionKeyPrefix + userID
}

func encode(s *model.Session) ([]byte, error) {
	return json.Marshal(storedSession{
		ID:        s.ID,
		UserID:    s.UserID,
		Email:     s.Email,
		CreatedAt: s.CreatedAt.Unix(),
		ExpiresAt: s.ExpiresAt.Unix(),
	})
}

func decode(data []byte) (*model.Session, error) {
	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return &model.Session{
		ID:        stored.ID,
		UserID:    stored.UserID,
		Email:     stored.Email,
		CreatedAt: time.Unix(stored.CreatedAt, 0).UTC(),
		ExpiresAt: time.Unix(stored.ExpiresAt, 0).UTC(),
	}, nil
}

// Create stores s until s.ExpiresAt.
func (st *Store) Create(ctx context.Context, s *model.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}

	data, err := encode(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := st.client.TxPipeline()
	pipe.Set(ctx, sessionKey(s.ID), data, ttl)
	pipe.SAdd(ctx, userSessionsKey(s.UserID), s.ID)
	pipe.Expire(ctx, userSessionsKey(s.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the live session with id.
func (st *Store) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := st.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	s, err := decode(data)
	if err != nil {
		// Corrupted entry; treat as revoked.
		_ = st.client.Del(ctx, sessionKey(id)).Err()
		return nil, ErrSessionNotFound
	}
	if s.IsExpired() {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete revokes a single session. Deleting a missing session is not an error.
func (st *Store) Delete(ctx context.Context, s *model.Session) error {
	pipe := st.client.TxPipeline()
	pipe.Del(ctx, sessionKey(s.ID))
	pipe.SRem(ctx, userSessionsKey(s.UserID), s.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteAllForUser revokes every session of userID and returns how many were live.
func (st *Store) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	ids, err := st.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list user sessions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}

	removed, err := st.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	if err := st.client.Del(ctx, userSessionsKey(userID)).Err(); err != nil {
		return int(removed), fmt.Errorf("delete session index: %w", err)
	}
	return int(removed), nil
}

// Ping checks Redis connectivity.
func (st *Store) Ping(ctx context.Context) error {
	return st.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (st *Store) Close() error {
	return st.client.Close()
}
