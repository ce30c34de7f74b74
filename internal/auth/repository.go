package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scryptex/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, u *models.User) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, wallet_address, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.WalletAddress, u.Role).Scan(&u.CreatedAt)
}

// GetByUsername returns the user with the given username, or nil if none exists.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, password_hash, wallet_address, role, created_at
		FROM users WHERE username = $1
	`, username)
}

// GetByEmail returns the user with the given email, or nil if none exists.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, password_hash, wallet_address, role, created_at
		FROM users WHERE email = $1
	`, email)
}

// GetByID returns the user with the given id, or nil if none exists.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, password_hash, wallet_address, role, created_at
		FROM users WHERE id = $1
	`, id)
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.WalletAddress, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
