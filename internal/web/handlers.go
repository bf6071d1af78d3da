// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/clipvault/clipvault/internal/auth"
	"github.com/clipvault/clipvault/internal/clipboard"
	"github.com/clipvault/clipvault/internal/observability"
)

// Handlers bundles the services behind the HTTP surface.
type Handlers struct {
	auth    *auth.Service
	clips   *clipboard.Service
	cookies CookieSettings
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewHandlers wires the API handlers. metrics may be nil when the
// observability server is disabled.
func NewHandlers(authSvc *auth.Service, clips *clipboard.Service, cookies CookieSettings, metrics *observability.Metrics, logger *slog.Logger) (*Handlers, error) {
	if authSvc == nil {
		return nil, oops.Code("WEB_INVALID_DEPS").Errorf("auth service is required")
	}
	if clips == nil {
		return nil, oops.Code("WEB_INVALID_DEPS").Errorf("clipboard service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		auth:    authSvc,
		clips:   clips,
		cookies: cookies,
		metrics: metrics,
		logger:  logger,
	}, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ProfileLink *string   `json:"profile_link"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		ProfileLink: u.ProfileLink,
		CreatedAt:   u.CreatedAt,
	}
}

type itemResponse struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Content   string    `json:"content"`
	ShareCode *string   `json:"share_code"`
	IsShared  bool      `json:"is_shared"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toItemResponse(it *clipboard.Item) itemResponse {
	return itemResponse{
		ID:        it.ID,
		OwnerID:   it.OwnerID,
		Content:   it.Content,
		ShareCode: it.ShareCode,
		IsShared:  it.IsShared,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

// handleRoot answers the liveness probe at the API root.
func (h *Handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "ClipVault API is running"})
}
