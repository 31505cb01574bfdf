package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bentossell/rewriter-cursor/internal/model"
)

// Common errors for profile repository operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

const createProfileQuery = `
	INSERT INTO profiles (id, email)
	VALUES ($1, $2)
	RETURNING created_at, updated_at
`

func createProfile(ctx context.Context, db dbtx, profile *model.Profile) error {
	err := db.QueryRow(ctx, createProfileQuery, profile.ID, profile.Email).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrProfileExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// CreateProfile inserts the profile mirror for an existing account.
func (r *Repository) CreateProfile(ctx context.Context, profile *model.Profile) error {
	return createProfile(ctx, r.pool, profile)
}

// GetProfile retrieves a profile by user ID.
func (r *Repository) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	query := `
		SELECT id, email, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var profile model.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}
