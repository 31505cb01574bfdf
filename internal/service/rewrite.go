package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bentossell/rewriter-cursor/internal/completion"
	"github.com/bentossell/rewriter-cursor/internal/metrics"
	"github.com/bentossell/rewriter-cursor/internal/model"
	"github.com/bentossell/rewriter-cursor/internal/prompt"
	"github.com/bentossell/rewriter-cursor/internal/repository"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// genericModeLabel is the metrics label for modes outside the fixed set.
const genericModeLabel = "generic"

// RewriteStore is the persistence the rewrite service needs.
type RewriteStore interface {
	CreateRewrite(ctx context.Context, rw *model.Rewrite) error
	GetRewrite(ctx context.Context, userID, id string) (*model.Rewrite, error)
	ListRewrites(ctx context.Context, userID, cursor string, limit int) ([]*model.Rewrite, string, error)
	UpdateRewrittenText(ctx context.Context, userID, id, text string) (*model.Rewrite, error)
}

// GenerateResult is the outcome of one completion call.
type GenerateResult struct {
	Text      string
	Timestamp time.Time
}

// HistoryPage is one page of saved rewrites, newest first.
type HistoryPage struct {
	Rewrites   []*model.Rewrite
	NextCursor string
}

// RewriteService generates rewrites and manages saved ones.
type RewriteService struct {
	store   RewriteStore
	llm     completion.Client
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewRewriteService creates a new RewriteService.
func NewRewriteService(store RewriteStore, llm completion.Client, recorder metrics.Recorder, logger *slog.Logger) *RewriteService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RewriteService{
		store:   store,
		llm:     llm,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
	}
}

// Generate builds the prompt for mode and asks the completion backend once.
// Modes outside the fixed set fall back to the generic instruction.
func (s *RewriteService) Generate(ctx context.Context, userID, text string, mode model.RewriteMode) (*GenerateResult, error) {
	if text == "" || mode == "" {
		return nil, ErrMissingFields
	}

	label := string(mode)
	if !mode.IsValid() {
		label = genericModeLabel
	}

	start := s.now()
	out, err := s.llm.Complete(ctx, prompt.SystemInstruction, prompt.Build(mode, text))
	s.metrics.ObserveCompletionDuration(s.now().Sub(start))
	if err != nil {
		s.metrics.IncRewriteGenerated(label, metrics.StatusFailed)
		return nil, fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	s.metrics.IncRewriteGenerated(label, metrics.StatusSuccess)
	s.logger.Info("rewrite_generated",
		"user_id", userID,
		"mode", label,
		"input_chars", len(text),
		"output_chars", len(out),
	)

	return &GenerateResult{Text: out, Timestamp: s.now().UTC()}, nil
}

// Save stores a generated rewrite for userID.
func (s *RewriteService) Save(ctx context.Context, userID, original, rewritten string, mode model.RewriteMode) (*model.Rewrite, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(original) == "" || strings.TrimSpace(rewritten) == "" || mode == "" {
		return nil, ErrMissingFields
	}
	if !mode.IsValid() {
		return nil, ErrInvalidMode
	}

	rw := &model.Rewrite{
		ID:            uuid.NewString(),
		UserID:        userID,
		OriginalText:  original,
		RewrittenText: rewritten,
		Mode:          mode,
	}
	if err := s.store.CreateRewrite(ctx, rw); err != nil {
		return nil, fmt.Errorf("save rewrite: %w", err)
	}

	s.metrics.IncRewriteSaved()
	s.logger.Info("rewrite_saved", "user_id", userID, "rewrite_id", rw.ID, "mode", string(mode))
	return rw, nil
}

// History returns userID's saved rewrites, newest first.
func (s *RewriteService) History(ctx context.Context, userID, cursor string, limit int) (*HistoryPage, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	limit = clampLimit(limit)

	rewrites, next, err := s.store.ListRewrites(ctx, userID, cursor, limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCursor) {
			return nil, ErrInvalidCursor
		}
		return nil, fmt.Errorf("list rewrites: %w", err)
	}

	return &HistoryPage{Rewrites: rewrites, NextCursor: next}, nil
}

// Get returns one of userID's rewrites.
func (s *RewriteService) Get(ctx context.Context, userID, id string) (*model.Rewrite, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	rw, err := s.store.GetRewrite(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrRewriteNotFound) {
			return nil, ErrRewriteNotFound
		}
		return nil, fmt.Errorf("get rewrite: %w", err)
	}
	return rw, nil
}

// Edit replaces the rewritten text of one of userID's rewrites. The original
// text and mode are left as they were.
func (s *RewriteService) Edit(ctx context.Context, userID, id, text string) (*model.Rewrite, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrMissingFields
	}

	rw, err := s.store.UpdateRewrittenText(ctx, userID, id, text)
	if err != nil {
		if errors.Is(err, repository.ErrRewriteNotFound) {
			return nil, ErrRewriteNotFound
		}
		return nil, fmt.Errorf("edit rewrite: %w", err)
	}

	s.metrics.IncRewriteEdited()
	s.logger.Info("rewrite_edited", "user_id", userID, "rewrite_id", id)
	return rw, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
