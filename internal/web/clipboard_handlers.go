// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

type itemContentRequest struct {
	Content string `json:"content"`
}

type shareResponse struct {
	ShareCode string `json:"share_code"`
}

type validateRequest struct {
	Code string `json:"code"`
}

type validateResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	OwnerName string    `json:"owner_name"`
	CreatedAt time.Time `json:"created_at"`
}

// itemID parses the {id} path variable. Non-numeric values are treated the
// same as an absent item.
func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handlers) handleListItems(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	items, err := h.clips.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]itemResponse, 0, len(items))
	for i := range items {
		out = append(out, toItemResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req itemContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
		return
	}
	item, err := h.clips.Create(r.Context(), user.ID, req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handlers) handleGetItem(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := itemID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Clipboard item not found"})
		return
	}
	item, err := h.clips.Get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handlers) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := itemID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Clipboard item not found"})
		return
	}
	var req itemContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
		return
	}
	item, err := h.clips.Update(r.Context(), user.ID, id, req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handlers) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := itemID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Clipboard item not found"})
		return
	}
	if err := h.clips.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Item deleted"})
}

func (h *Handlers) handleShareItem(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := itemID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Clipboard item not found"})
		return
	}
	code, err := h.clips.Share(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{ShareCode: code})
}

func (h *Handlers) handleUnshareItem(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := itemID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Clipboard item not found"})
		return
	}
	if err := h.clips.Unshare(r.Context(), user.ID, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Sharing disabled"})
}

// handleValidateShare is the only unauthenticated data endpoint. The
// response deliberately omits the owner id and share state so a code
// holder learns nothing beyond the shared content itself.
func (h *Handlers) handleValidateShare(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
		return
	}
	view, err := h.clips.Resolve(r.Context(), req.Code)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordShareResolution("miss")
		}
		writeError(w, r, h.logger, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordShareResolution("hit")
	}
	writeJSON(w, http.StatusOK, validateResponse{
		ID:        view.ID,
		Content:   view.Content,
		OwnerName: view.OwnerName,
		CreatedAt: view.CreatedAt,
	})
}
