package postgres

import (
	"context"
	"database/sql"

	"billingflow/pkg/user"
)

// Repository persists users in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username,password_hash,role) VALUES ($1,$2,$3)",
		u.Username, u.PasswordHash, u.Role)
	return err
}

// Get retrieves a user by username.
func (r *Repository) Get(ctx context.Context, username string) (user.User, error) {
	var u user.User
	err := r.db.QueryRowContext(ctx,
		"SELECT username,password_hash,role FROM users WHERE username=$1", username).
		Scan(&u.Username, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return u, err
}
