package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bentossell/rewriter-cursor/internal/model"
	"github.com/bentossell/rewriter-cursor/internal/service"
)

// fakeRewrites is an in-memory RewriteService that keeps history newest first.
type fakeRewrites struct {
	mu          sync.Mutex
	rows        []*model.Rewrite
	generate    func(text string, mode model.RewriteMode) (*service.GenerateResult, error)
	lastGenMode model.RewriteMode
}

func (f *fakeRewrites) Generate(_ context.Context, userID, text string, mode model.RewriteMode) (*service.GenerateResult, error) {
	f.mu.Lock()
	f.lastGenMode = mode
	f.mu.Unlock()
	if userID == "" {
		return nil, service.ErrUnauthorized
	}
	if f.generate != nil {
		return f.generate(text, mode)
	}
	return &service.GenerateResult{Text: "rewritten: " + text, Timestamp: time.Now()}, nil
}

func (f *fakeRewrites) Save(_ context.Context, userID, original, rewritten string, mode model.RewriteMode) (*model.Rewrite, error) {
	if original == "" || rewritten == "" || mode == "" {
		return nil, service.ErrMissingFields
	}
	if !mode.IsValid() {
		return nil, service.ErrInvalidMode
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	rw := &model.Rewrite{
		ID:            uuid.NewString(),
		UserID:        userID,
		OriginalText:  original,
		RewrittenText: rewritten,
		Mode:          mode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.rows = append([]*model.Rewrite{rw}, f.rows...)
	cp := *rw
	return &cp, nil
}

func (f *fakeRewrites) History(_ context.Context, userID, cursor string, limit int) (*service.HistoryPage, error) {
	if cursor != "" {
		return nil, service.ErrInvalidCursor
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	page := &service.HistoryPage{}
	for _, rw := range f.rows {
		if rw.UserID == userID {
			cp := *rw
			page.Rewrites = append(page.Rewrites, &cp)
		}
	}
	return page, nil
}

func (f *fakeRewrites) Get(_ context.Context, userID, id string) (*model.Rewrite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, rw := range f.rows {
		if rw.ID == id && rw.UserID == userID {
			cp := *rw
			return &cp, nil
		}
	}
	return nil, service.ErrRewriteNotFound
}

func (f *fakeRewrites) Edit(_ context.Context, userID, id, text string) (*model.Rewrite, error) {
	if text == "" {
		return nil, service.ErrMissingFields
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, rw := range f.rows {
		if rw.ID == id && rw.UserID == userID {
			rw.RewrittenText = text
			rw.UpdatedAt = time.Now().UTC()
			cp := *rw
			return &cp, nil
		}
	}
	return nil, service.ErrRewriteNotFound
}

// fakeAccounts is a scripted AccountService.
type fakeAccounts struct {
	result    *service.AuthResult
	err       error
	revoked   int
	signedOut *model.Identity
	lastToken string
	lastEmail string
}

func (f *fakeAccounts) SignUp(_ context.Context, email, _ string) (*service.AuthResult, error) {
	f.lastEmail = email
	return f.result, f.err
}

func (f *fakeAccounts) SignIn(_ context.Context, email, _ string) (*service.AuthResult, error) {
	f.lastEmail = email
	return f.result, f.err
}

func (f *fakeAccounts) SignOut(_ context.Context, id *model.Identity) error {
	f.signedOut = id
	return f.err
}

func (f *fakeAccounts) SignOutEverywhere(_ context.Context, id *model.Identity) (int, error) {
	f.signedOut = id
	return f.revoked, f.err
}

func (f *fakeAccounts) CurrentSession(_ context.Context, token string) (*service.AuthResult, error) {
	f.lastToken = token
	return f.result, f.err
}
