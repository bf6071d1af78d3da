// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the full route table. Clipboard routes require a valid
// session; signup, login, logout, share validation, and the root probe do
// not. CORS wraps the router itself so preflight requests are answered even
// when no route matches the OPTIONS method.
func NewRouter(h *Handlers, corsOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger(h.logger, h.metrics))

	r.HandleFunc("/", h.handleRoot).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/signup", h.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.requireAuth(h.handleMe)).Methods(http.MethodGet)

	api.HandleFunc("/clipboard", h.requireAuth(h.handleListItems)).Methods(http.MethodGet)
	api.HandleFunc("/clipboard", h.requireAuth(h.handleCreateItem)).Methods(http.MethodPost)
	api.HandleFunc("/clipboard/{id}", h.requireAuth(h.handleGetItem)).Methods(http.MethodGet)
	api.HandleFunc("/clipboard/{id}", h.requireAuth(h.handleUpdateItem)).Methods(http.MethodPut)
	api.HandleFunc("/clipboard/{id}", h.requireAuth(h.handleDeleteItem)).Methods(http.MethodDelete)
	api.HandleFunc("/clipboard/{id}/share", h.requireAuth(h.handleShareItem)).Methods(http.MethodPost)
	api.HandleFunc("/clipboard/{id}/share", h.requireAuth(h.handleUnshareItem)).Methods(http.MethodDelete)

	api.HandleFunc("/share/validate", h.handleValidateShare).Methods(http.MethodPost)

	return corsMiddleware(corsOrigins)(r)
}
