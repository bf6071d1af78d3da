// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/clipvault/clipvault/pkg/errutil"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps a service error to its boundary status with a generic
// message. Nothing from the error chain reaches the client; unexpected
// errors are logged with their oops context and reported as 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, detail := statusFor(err)
	if status == http.StatusInternalServerError {
		if id := RequestIDFromContext(r.Context()); id != "" {
			logger = logger.With(slog.String("request_id", id))
		}
		errutil.LogError(logger, "request failed", err)
	}
	writeJSON(w, status, errorBody{Detail: detail})
}

// statusFor translates the error taxonomy to HTTP. Unknown email and wrong
// password share one code; absent and not-owned items share another, so the
// response can never leak which case occurred.
func statusFor(err error) (int, string) {
	switch errutil.Code(err) {
	case "AUTH_INVALID_CREDENTIALS":
		return http.StatusUnauthorized, "Invalid email or password"
	case "AUTH_DUPLICATE_EMAIL":
		return http.StatusBadRequest, "Email already registered"
	case "AUTH_UNAUTHENTICATED":
		return http.StatusUnauthorized, "Not authenticated"
	case "AUTH_INVALID_EMAIL", "AUTH_INVALID_NAME", "AUTH_EMPTY_PASSWORD":
		return http.StatusBadRequest, "Invalid signup details"
	case "CLIP_NOT_FOUND":
		return http.StatusNotFound, "Clipboard item not found"
	case "SHARE_CODE_INVALID":
		return http.StatusNotFound, "Invalid share code"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
