package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// User holds authentication credentials. The password is stored only as a
// bcrypt hash.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role,omitempty"`
}

// Repository defines behavior for persisting users.
type Repository interface {
	Create(ctx context.Context, u User) error
	Get(ctx context.Context, username string) (User, error)
}

// ErrNotFound indicates the requested user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrAuthFailed indicates the username or password was wrong. Lookups and
// hash mismatches map to the same error so callers cannot tell them apart.
var ErrAuthFailed = errors.New("invalid username or password")

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate checks the given credentials against the repository.
func Authenticate(ctx context.Context, repo Repository, username, password string) (User, error) {
	u, err := repo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrAuthFailed
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrAuthFailed
	}
	return u, nil
}
