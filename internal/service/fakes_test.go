package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bentossell/rewriter-cursor/internal/model"
	"github.com/bentossell/rewriter-cursor/internal/repository"
	"github.com/bentossell/rewriter-cursor/internal/session"
)

type fakeAccounts struct {
	mu       sync.Mutex
	accounts map[string]*model.Account // by lower-case email
	profiles map[string]*model.Profile // by id
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		accounts: make(map[string]*model.Account),
		profiles: make(map[string]*model.Profile),
	}
}

func (f *fakeAccounts) RegisterAccount(_ context.Context, a *model.Account) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.ToLower(a.Email)
	if _, ok := f.accounts[key]; ok {
		return nil, repository.ErrEmailExists
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	f.accounts[key] = a
	p := &model.Profile{ID: a.ID, Email: a.Email, CreatedAt: now, UpdatedAt: now}
	f.profiles[a.ID] = p
	return p, nil
}

func (f *fakeAccounts) GetAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.accounts[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccounts) GetProfile(_ context.Context, id string) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return p, nil
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*model.Session)}
}

func (f *fakeSessions) Create(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.IsExpired() {
		return nil, session.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Delete(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, s.ID)
	return nil
}

func (f *fakeSessions) DeleteAllForUser(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeSessions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

type fakeRewrites struct {
	mu   sync.Mutex
	rows []*model.Rewrite
	seq  int
}

func (f *fakeRewrites) CreateRewrite(_ context.Context, rw *model.Rewrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ts := time.Unix(1700000000+int64(f.seq), 0).UTC()
	rw.CreatedAt, rw.UpdatedAt = ts, ts
	cp := *rw
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeRewrites) GetRewrite(_ context.Context, userID, id string) (*model.Rewrite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rw := range f.rows {
		if rw.ID == id && rw.IsOwnedBy(userID) {
			cp := *rw
			return &cp, nil
		}
	}
	return nil, repository.ErrRewriteNotFound
}

func (f *fakeRewrites) ListRewrites(_ context.Context, userID, cursor string, limit int) ([]*model.Rewrite, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cursor != "" {
		return nil, "", repository.ErrInvalidCursor
	}
	var out []*model.Rewrite
	for _, rw := range f.rows {
		if rw.IsOwnedBy(userID) {
			cp := *rw
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	next := ""
	if len(out) > limit {
		out = out[:limit]
		next = "more"
	}
	return out, next, nil
}

func (f *fakeRewrites) UpdateRewrittenText(_ context.Context, userID, id, text string) (*model.Rewrite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rw := range f.rows {
		if rw.ID == id && rw.IsOwnedBy(userID) {
			rw.RewrittenText = text
			rw.UpdatedAt = rw.UpdatedAt.Add(time.Minute)
			cp := *rw
			return &cp, nil
		}
	}
	return nil, repository.ErrRewriteNotFound
}
