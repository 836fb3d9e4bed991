package user_test

import (
	"context"
	"errors"
	"testing"

	"billingflow/pkg/user"
	"billingflow/pkg/user/memory"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	hash, err := user.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("expected hashed password, got plaintext")
	}
	if err := repo.Create(ctx, user.User{Username: "alice", PasswordHash: hash}); err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := user.Authenticate(ctx, repo, "alice", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("expected alice, got %s", u.Username)
	}

	if _, err := user.Authenticate(ctx, repo, "alice", "wrong"); !errors.Is(err, user.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for bad password, got %v", err)
	}
	if _, err := user.Authenticate(ctx, repo, "bob", "s3cret"); !errors.Is(err, user.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for unknown user, got %v", err)
	}
}
