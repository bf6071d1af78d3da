// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package web

import (
	"encoding/json"
	"net/http"
)

type signupRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	ProfileLink *string `json:"profile_link"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
		return
	}

	user, token, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password, req.ProfileLink)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.cookies.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.cookies.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// handleLogout revokes the presented session regardless of its validity and
// clears the cookie, so logout never fails.
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(sessionToken(r))
	h.cookies.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "Not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
