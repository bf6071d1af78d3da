// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/samber/oops"
)

// MaxNameLength bounds the display name accepted at signup.
const MaxNameLength = 100

// User represents a registered account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	ProfileLink  *string
	CreatedAt    time.Time
}

// ValidateEmail performs a light well-formedness check. Emails are stored
// case-sensitively; uniqueness is enforced by the users table.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\n") {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email is not well-formed")
	}
	return nil
}

// ValidateName checks the display name provided at signup.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return oops.Code("AUTH_INVALID_NAME").Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return oops.Code("AUTH_INVALID_NAME").
			With("max", MaxNameLength).
			Errorf("name must be at most %d characters", MaxNameLength)
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user and fills in the generated id and creation
	// timestamp. Returns ErrDuplicateEmail (wrapped) when the email is
	// already registered.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by id. Returns ErrNotFound (wrapped) when
	// absent.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by exact email. Returns ErrNotFound
	// (wrapped) when absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Delete removes a user and, through the schema cascade, all of their
	// clipboard items.
	Delete(ctx context.Context, id int64) error
}
