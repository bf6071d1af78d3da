// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"

	"github.com/samber/oops"
)

// SessionTokenBytes is the entropy of a session token. 32 bytes gives 256
// bits, making collisions cryptographically negligible; Issue performs no
// uniqueness check.
const SessionTokenBytes = 32

// SessionRegistry maps opaque session tokens to user ids. It is process-wide
// mutable state guarded by a single RWMutex; every operation is O(1).
// Sessions are never persisted: a process restart invalidates all of them.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]int64
}

// NewSessionRegistry creates an empty SessionRegistry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]int64)}
}

// Issue generates a URL-safe token with SessionTokenBytes of secure
// randomness, binds it to userID, and returns it.
func (r *SessionRegistry) Issue(userID int64) (string, error) {
	buf := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	r.mu.Lock()
	r.sessions[token] = userID
	r.mu.Unlock()

	return token, nil
}

// Resolve returns the user id bound to token, or false if the token is
// unknown.
func (r *SessionRegistry) Resolve(token string) (int64, bool) {
	r.mu.RLock()
	userID, ok := r.sessions[token]
	r.mu.RUnlock()
	return userID, ok
}

// Revoke removes the binding for token. Revoking an absent token is a no-op.
func (r *SessionRegistry) Revoke(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Active returns the number of live sessions.
func (r *SessionRegistry) Active() int {
	r.mu.RLock()
	n := len(r.sessions)
	r.mu.RUnlock()
	return n
}
