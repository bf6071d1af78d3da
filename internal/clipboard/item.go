// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package clipboard

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an item does not exist or is owned by a
// different user. The two cases are deliberately indistinguishable so item
// ids of other users cannot be enumerated.
var ErrNotFound = errors.New("clipboard item not found")

// ErrShareCodeTaken is returned when persisting a candidate share code that
// another item already holds. Callers retry with a fresh code.
var ErrShareCodeTaken = errors.New("share code already in use")

// ErrAlreadyShared is returned by the repository when a conditional share
// write finds the item shared; the caller re-reads to return the existing
// code.
var ErrAlreadyShared = errors.New("item already shared")

// Item is a stored clipboard snippet. ShareCode is non-nil exactly when
// IsShared is true; an active code is unique across all items system-wide.
type Item struct {
	ID        int64
	OwnerID   int64
	Content   string
	ShareCode *string
	IsShared  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SharedView is the minimal disclosure returned when a share code is
// redeemed: never the owner's email or id.
type SharedView struct {
	ID        int64
	Content   string
	OwnerName string
	CreatedAt time.Time
}

// ItemRepository manages clipboard item persistence. Every owner-scoped
// method treats "exists but not owned" identically to "absent" and reports
// ErrNotFound (wrapped) for both.
type ItemRepository interface {
	// ListByOwner returns the owner's items ordered by last update,
	// most recently touched first. Empty slice when there are none.
	ListByOwner(ctx context.Context, ownerID int64) ([]Item, error)

	// Create stores a new unshared item and fills in the generated id and
	// timestamps.
	Create(ctx context.Context, item *Item) error

	// GetForOwner retrieves an item owned by ownerID.
	GetForOwner(ctx context.Context, ownerID, itemID int64) (*Item, error)

	// UpdateContent replaces the item's content and refreshes its update
	// timestamp, returning the updated row.
	UpdateContent(ctx context.Context, ownerID, itemID int64, content string) (*Item, error)

	// Delete removes an item and, with it, any share binding.
	Delete(ctx context.Context, ownerID, itemID int64) error

	// Share atomically publishes the item under code. It returns
	// ErrAlreadyShared (wrapped) when the item already carries a code,
	// ErrShareCodeTaken (wrapped) when another item holds code, and
	// ErrNotFound (wrapped) when the item is absent or not owned.
	Share(ctx context.Context, ownerID, itemID int64, code string) error

	// Unshare clears the share code and flag. Idempotent: unsharing an
	// unshared item succeeds.
	Unshare(ctx context.Context, ownerID, itemID int64) error

	// GetByShareCode resolves an active share code to its public view.
	// Returns ErrNotFound (wrapped) when no item currently holds code.
	GetByShareCode(ctx context.Context, code string) (*SharedView, error)
}
