// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package clipboard

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// shareCodeMaxRetries bounds the regeneration loop for colliding share
// codes. With a 10^12 code space, a single collision is already rare;
// exhausting the budget signals a misconfigured or full deployment and is
// surfaced as a server error, never retried further.
const shareCodeMaxRetries = 5

// Service implements the clipboard operations on top of an ItemRepository.
type Service struct {
	items ItemRepository
}

// NewService creates a new Service.
func NewService(items ItemRepository) (*Service, error) {
	if items == nil {
		return nil, oops.Code("CLIP_INVALID_DEPS").Errorf("item repository is required")
	}
	return &Service{items: items}, nil
}

// List returns the owner's items, most recently updated first.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Item, error) {
	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, oops.Code("CLIP_LIST_FAILED").
			With("operation", "list items").
			Wrap(err)
	}
	return items, nil
}

// Create stores a new unshared item with the content verbatim.
func (s *Service) Create(ctx context.Context, ownerID int64, content string) (*Item, error) {
	item := &Item{
		OwnerID: ownerID,
		Content: content,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, oops.Code("CLIP_CREATE_FAILED").
			With("operation", "create item").
			Wrap(err)
	}
	return item, nil
}

// Get retrieves one of the owner's items.
func (s *Service) Get(ctx context.Context, ownerID, itemID int64) (*Item, error) {
	item, err := s.items.GetForOwner(ctx, ownerID, itemID)
	if err != nil {
		return nil, s.itemError(err, "get item", itemID)
	}
	return item, nil
}

// Update replaces the item's content and refreshes its update timestamp.
func (s *Service) Update(ctx context.Context, ownerID, itemID int64, content string) (*Item, error) {
	item, err := s.items.UpdateContent(ctx, ownerID, itemID, content)
	if err != nil {
		return nil, s.itemError(err, "update item", itemID)
	}
	return item, nil
}

// Delete removes one of the owner's items along with any share binding.
func (s *Service) Delete(ctx context.Context, ownerID, itemID int64) error {
	if err := s.items.Delete(ctx, ownerID, itemID); err != nil {
		return s.itemError(err, "delete item", itemID)
	}
	return nil
}

// Share publishes the item under a short public code and returns it.
// Re-sharing an already-shared item returns the existing code unchanged; a
// code is never rotated by Share. Global code uniqueness is enforced by the
// storage layer's unique constraint; on collision a fresh code is drawn, at
// most shareCodeMaxRetries times.
func (s *Service) Share(ctx context.Context, ownerID, itemID int64) (string, error) {
	item, err := s.items.GetForOwner(ctx, ownerID, itemID)
	if err != nil {
		return "", s.itemError(err, "share item", itemID)
	}
	if item.IsShared && item.ShareCode != nil {
		return *item.ShareCode, nil
	}

	var code string
	backoff := retry.WithMaxRetries(shareCodeMaxRetries, retry.NewConstant(time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		candidate, genErr := GenerateShareCode()
		if genErr != nil {
			return genErr
		}
		shareErr := s.items.Share(ctx, ownerID, itemID, candidate)
		if errors.Is(shareErr, ErrShareCodeTaken) {
			return retry.RetryableError(shareErr)
		}
		if shareErr != nil {
			return shareErr
		}
		code = candidate
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyShared):
			// Lost a race with a concurrent share of the same item; the
			// winner's code is the item's code.
			return s.existingCode(ctx, ownerID, itemID)
		case errors.Is(err, ErrNotFound):
			return "", s.itemError(err, "share item", itemID)
		case errors.Is(err, ErrShareCodeTaken):
			return "", oops.Code("SHARE_CODE_EXHAUSTED").
				With("item_id", itemID).
				With("attempts", shareCodeMaxRetries+1).
				Wrap(err)
		default:
			return "", oops.Code("CLIP_SHARE_FAILED").
				With("operation", "share item").
				With("item_id", itemID).
				Wrap(err)
		}
	}
	return code, nil
}

// Unshare revokes the item's share code. Revocation is immediate and total;
// unsharing an unshared item is a no-op.
func (s *Service) Unshare(ctx context.Context, ownerID, itemID int64) error {
	if err := s.items.Unshare(ctx, ownerID, itemID); err != nil {
		return s.itemError(err, "unshare item", itemID)
	}
	return nil
}

// Resolve redeems a share code without authentication. It fails with
// SHARE_CODE_INVALID whether the code was never issued or has been revoked.
func (s *Service) Resolve(ctx context.Context, code string) (*SharedView, error) {
	if code == "" {
		return nil, oops.Code("SHARE_CODE_INVALID").Errorf("invalid share code")
	}
	view, err := s.items.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SHARE_CODE_INVALID").Wrap(err)
		}
		return nil, oops.Code("SHARE_RESOLVE_FAILED").
			With("operation", "get item by share code").
			Wrap(err)
	}
	return view, nil
}

// existingCode re-reads the item to return the code set by a concurrent
// share call.
func (s *Service) existingCode(ctx context.Context, ownerID, itemID int64) (string, error) {
	item, err := s.items.GetForOwner(ctx, ownerID, itemID)
	if err != nil {
		return "", s.itemError(err, "share item", itemID)
	}
	if item.ShareCode == nil {
		// Shared state flipped back between writes; treat as a transient
		// server error rather than inventing a code.
		return "", oops.Code("CLIP_SHARE_FAILED").
			With("item_id", itemID).
			Errorf("share state changed concurrently")
	}
	return *item.ShareCode, nil
}

// itemError maps repository failures to the caller-facing taxonomy. Absent
// and not-owned are already unified as ErrNotFound by the repository.
func (s *Service) itemError(err error, operation string, itemID int64) error {
	if errors.Is(err, ErrNotFound) {
		return oops.Code("CLIP_NOT_FOUND").
			With("item_id", itemID).
			Wrap(err)
	}
	return oops.Code("CLIP_STORE_FAILED").
		With("operation", operation).
		With("item_id", itemID).
		Wrap(err)
}
