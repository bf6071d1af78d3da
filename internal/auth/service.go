// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// Service provides signup, login, logout, and the access guard used by all
// ownership-scoped operations.
type Service struct {
	users    UserRepository
	sessions *SessionRegistry
	hasher   PasswordHasher
}

// NewService creates a new Service. All dependencies are required.
func NewService(users UserRepository, sessions *SessionRegistry, hasher PasswordHasher) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("session registry is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("password hasher is required")
	}
	return &Service{users: users, sessions: sessions, hasher: hasher}, nil
}

// dummyPasswordHash is verified against when no user matches the login
// email, keeping response time consistent so email existence cannot be
// probed through timing.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Signup registers a new user and issues a session token for it.
func (s *Service) Signup(ctx context.Context, name, email, password string, profileLink *string) (*User, string, error) {
	if err := ValidateName(name); err != nil {
		return nil, "", err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		ProfileLink:  profileLink,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, "", oops.Code("AUTH_DUPLICATE_EMAIL").
				With("email", email).
				Wrap(err)
		}
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	return user, token, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password produce the same error; a verification is
// run against a dummy hash when the email is unknown so the two cases are
// also indistinguishable by timing.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	return user, token, nil
}

// Logout revokes the session token. Revoking an absent or already-revoked
// token is a no-op.
func (s *Service) Logout(token string) {
	if token == "" {
		return
	}
	s.sessions.Revoke(token)
}

// Authenticate resolves a session token to its live user. It fails with
// AUTH_UNAUTHENTICATED when the token is empty, unknown to the registry, or
// bound to a user that no longer exists in storage.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, oops.Code("AUTH_UNAUTHENTICATED").Errorf("not authenticated")
	}

	userID, ok := s.sessions.Resolve(token)
	if !ok {
		return nil, oops.Code("AUTH_UNAUTHENTICATED").Errorf("not authenticated")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Stale session: the user was deleted after the token was issued.
			s.sessions.Revoke(token)
			return nil, oops.Code("AUTH_UNAUTHENTICATED").Errorf("not authenticated")
		}
		return nil, oops.Code("AUTH_GUARD_FAILED").
			With("operation", "get user by id").
			With("user_id", userID).
			Wrap(err)
	}

	return user, nil
}
