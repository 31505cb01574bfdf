package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bentossell/rewriter-cursor/internal/model"
)

// Common errors for account repository operations.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already exists")
)

const createAccountQuery = `
	INSERT INTO accounts (id, email, password_hash)
	VALUES ($1, $2, $3)
	RETURNING created_at
`

func createAccount(ctx context.Context, db dbtx, account *model.Account) error {
	err := db.QueryRow(ctx, createAccountQuery,
		account.ID,
		account.Email,
		account.PasswordHash,
	).Scan(&account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// RegisterAccount inserts the account and its profile in one transaction.
func (r *Repository) RegisterAccount(ctx context.Context, account *model.Account) (*model.Profile, error) {
	var profile *model.Profile
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := createAccount(ctx, tx, account); err != nil {
			return err
		}
		p := &model.Profile{ID: account.ID, Email: account.Email}
		if err := createProfile(ctx, tx, p); err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetAccountByEmail looks an account up by email, ignoring case.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE LOWER(email) = $1
	`
	return r.scanAccount(r.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))), "email")
}

// GetAccountByID retrieves an account by its ID.
func (r *Repository) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id), "ID")
}

func (r *Repository) scanAccount(row pgx.Row, by string) (*model.Account, error) {
	var account model.Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by %s: %w", by, err)
	}
	return &account, nil
}
