package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bentossell/rewriter-cursor/internal/model"
)

// ErrRewriteNotFound is returned when a rewrite does not exist or belongs
// to another user.
var ErrRewriteNotFound = errors.New("rewrite not found")

const rewriteColumns = `id, user_id, original_text, rewritten_text, rewrite_mode, created_at, updated_at`

// CreateRewrite inserts a saved rewrite. Timestamps are set by the database.
func (r *Repository) CreateRewrite(ctx context.Context, rw *model.Rewrite) error {
	query := `
		INSERT INTO rewrites (id, user_id, original_text, rewritten_text, rewrite_mode)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		rw.ID,
		rw.UserID,
		rw.OriginalText,
		rw.RewrittenText,
		string(rw.Mode),
	).Scan(&rw.CreatedAt, &rw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rewrite: %w", err)
	}

	return nil
}

// GetRewrite returns the rewrite with id owned by userID.
func (r *Repository) GetRewrite(ctx context.Context, userID, id string) (*model.Rewrite, error) {
	query := `SELECT ` + rewriteColumns + `
		FROM rewrites
		WHERE id = $1 AND user_id = $2
	`

	rw, err := scanRewrite(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRewriteNotFound
		}
		return nil, fmt.Errorf("failed to get rewrite: %w", err)
	}
	return rw, nil
}

// ListRewrites returns one page of userID's rewrites, newest first, and the
// cursor for the next page ("" when there is none).
func (r *Repository) ListRewrites(ctx context.Context, userID, cursor string, limit int) ([]*model.Rewrite, string, error) {
	var cursorData *PaginationCursor
	if cursor != "" {
		var err error
		cursorData, err = decodeCursor(cursor)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
	}

	query := `SELECT ` + rewriteColumns + `
		FROM rewrites
		WHERE user_id = $1
	`
	args := []any{userID}
	argIndex := 2

	if cursorData != nil {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIndex, argIndex+1)
		args = append(args, cursorData.CreatedAt, cursorData.ID)
		argIndex += 2
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIndex)
	args = append(args, limit+1) // one extra row tells us whether there is a next page

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list rewrites: %w", err)
	}
	defer rows.Close()

	rewrites := make([]*model.Rewrite, 0, limit)
	for rows.Next() {
		rw, err := scanRewrite(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan rewrite: %w", err)
		}
		rewrites = append(rewrites, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating rewrites: %w", err)
	}

	var nextCursor string
	if len(rewrites) > limit {
		rewrites = rewrites[:limit]
		last := rewrites[len(rewrites)-1]
		nextCursor = encodeCursor(&PaginationCursor{
			ID:        last.ID,
			CreatedAt: last.CreatedAt,
		})
	}

	return rewrites, nextCursor, nil
}

// UpdateRewrittenText replaces the rewritten text of a rewrite owned by
// userID and returns the updated row. original_text is never touched.
func (r *Repository) UpdateRewrittenText(ctx context.Context, userID, id, text string) (*model.Rewrite, error) {
	query := `
		UPDATE rewrites
		SET rewritten_text = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + rewriteColumns

	rw, err := scanRewrite(r.pool.QueryRow(ctx, query, id, userID, text))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRewriteNotFound
		}
		return nil, fmt.Errorf("failed to update rewrite: %w", err)
	}
	return rw, nil
}

func scanRewrite(row pgx.Row) (*model.Rewrite, error) {
	var (
		rw   model.Rewrite
		mode string
	)
	err := row.Scan(
		&rw.ID,
		&rw.UserID,
		&rw.OriginalText,
		&rw.RewrittenText,
		&mode,
		&rw.CreatedAt,
		&rw.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rw.Mode = model.RewriteMode(mode)
	return &rw, nil
}
