//go:build integration

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bentossell/rewriter-cursor/internal/model"
	"github.com/bentossell/rewriter-cursor/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Connect(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client)
}

func TestStore_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	s := &model.Session{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Email:     "lifecycle@example.com",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Minute),
	}

	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != s.UserID || got.Email != s.Email {
		t.Errorf("Get = %+v, want %+v", got, s)
	}

	if err := store.Delete(ctx, s); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestStore_DeleteAllForUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	userID := uuid.NewString()
	now := time.Now().UTC()
	var ids []string
	for i := 0; i < 3; i++ {
		s := &model.Session{ID: uuid.NewString(), UserID: userID, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, s.ID)
	}

	removed, err := store.DeleteAllForUser(ctx, userID)
	if err != nil {
		t.Fatalf("DeleteAllForUser: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	for _, id := range ids {
		if _, err := store.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("session %s still live", id)
		}
	}
}

func TestStore_CreateExpired(t *testing.T) {
	store := newTestStore(t)

	past := time.Now().Add(-time.Minute)
	err := store.Create(context.Background(), &model.Session{ID: "x", UserID: "y", ExpiresAt: past})
	if err == nil {
		t.Error("expected error creating an already-expired session")
	}
}
