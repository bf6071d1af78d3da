// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

// Package postgres implements the clipboard repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/clipvault/clipvault/internal/clipboard"
	"github.com/clipvault/clipvault/internal/store"
)

// ItemRepository implements clipboard.ItemRepository using PostgreSQL.
// Ownership checks are folded into every WHERE clause, so a row owned by
// someone else scans identically to a missing row.
type ItemRepository struct {
	db store.DB
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db store.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// ListByOwner returns the owner's items ordered by last update descending.
func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID int64) ([]clipboard.Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, content, share_code, is_shared, created_at, updated_at
		FROM clipboard_items
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`, ownerID)
	if err != nil {
		return nil, oops.Code("ITEM_LIST_FAILED").
			With("operation", "list items").
			Wrap(err)
	}
	defer rows.Close()

	items := make([]clipboard.Item, 0)
	for rows.Next() {
		var item clipboard.Item
		if err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Content,
			&item.ShareCode,
			&item.IsShared,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, oops.Code("ITEM_SCAN_FAILED").
				With("operation", "scan item row").
				Wrap(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ITEM_LIST_FAILED").
			With("operation", "iterate items").
			Wrap(err)
	}

	return items, nil
}

// Create stores a new unshared item and fills in the generated fields.
func (r *ItemRepository) Create(ctx context.Context, item *clipboard.Item) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO clipboard_items (owner_id, content)
		VALUES ($1, $2)
		RETURNING id, is_shared, created_at, updated_at
	`, item.OwnerID, item.Content).Scan(
		&item.ID,
		&item.IsShared,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return oops.Code("ITEM_CREATE_FAILED").
			With("operation", "insert item").
			Wrap(err)
	}
	return nil
}

// GetForOwner retrieves an item owned by ownerID.
func (r *ItemRepository) GetForOwner(ctx context.Context, ownerID, itemID int64) (*clipboard.Item, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, owner_id, content, share_code, is_shared, created_at, updated_at
		FROM clipboard_items
		WHERE id = $2 AND owner_id = $1
	`, ownerID, itemID)

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(itemID)
	}
	if err != nil {
		return nil, oops.Code("ITEM_GET_FAILED").
			With("operation", "get item").
			With("item_id", itemID).
			Wrap(err)
	}
	return item, nil
}

// UpdateContent replaces the item's content and refreshes updated_at.
func (r *ItemRepository) UpdateContent(ctx context.Context, ownerID, itemID int64, content string) (*clipboard.Item, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE clipboard_items
		SET content = $3, updated_at = now()
		WHERE id = $2 AND owner_id = $1
		RETURNING id, owner_id, content, share_code, is_shared, created_at, updated_at
	`, ownerID, itemID, content)

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(itemID)
	}
	if err != nil {
		return nil, oops.Code("ITEM_UPDATE_FAILED").
			With("operation", "update item").
			With("item_id", itemID).
			Wrap(err)
	}
	return item, nil
}

// Delete removes an item. The share binding disappears with the row.
func (r *ItemRepository) Delete(ctx context.Context, ownerID, itemID int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM clipboard_items WHERE id = $2 AND owner_id = $1
	`, ownerID, itemID)
	if err != nil {
		return oops.Code("ITEM_DELETE_FAILED").
			With("operation", "delete item").
			With("item_id", itemID).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return notFound(itemID)
	}
	return nil
}

// Share publishes the item under code inside a single transaction: the row
// is locked, the unshared state re-checked under the lock, and the code
// written. Global uniqueness rides on the share_code unique constraint; a
// violation surfaces as ErrShareCodeTaken for the caller to retry with a
// fresh code.
func (r *ItemRepository) Share(ctx context.Context, ownerID, itemID int64, code string) error {
	return store.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var existing *string
		err := tx.QueryRow(ctx, `
			SELECT share_code
			FROM clipboard_items
			WHERE id = $2 AND owner_id = $1
			FOR UPDATE
		`, ownerID, itemID).Scan(&existing)
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(itemID)
		}
		if err != nil {
			return oops.Code("ITEM_SHARE_FAILED").
				With("operation", "lock item").
				With("item_id", itemID).
				Wrap(err)
		}
		if existing != nil {
			return oops.Code("ITEM_ALREADY_SHARED").
				With("item_id", itemID).
				Wrap(clipboard.ErrAlreadyShared)
		}

		_, err = tx.Exec(ctx, `
			UPDATE clipboard_items
			SET share_code = $3, is_shared = TRUE, updated_at = now()
			WHERE id = $2 AND owner_id = $1
		`, ownerID, itemID, code)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return oops.Code("ITEM_SHARE_CODE_TAKEN").
					With("item_id", itemID).
					Wrap(clipboard.ErrShareCodeTaken)
			}
			return oops.Code("ITEM_SHARE_FAILED").
				With("operation", "set share code").
				With("item_id", itemID).
				Wrap(err)
		}
		return nil
	})
}

// Unshare clears the share code and flag. Unconditional and idempotent.
func (r *ItemRepository) Unshare(ctx context.Context, ownerID, itemID int64) error {
	result, err := r.db.Exec(ctx, `
		UPDATE clipboard_items
		SET share_code = NULL, is_shared = FALSE, updated_at = now()
		WHERE id = $2 AND owner_id = $1
	`, ownerID, itemID)
	if err != nil {
		return oops.Code("ITEM_UNSHARE_FAILED").
			With("operation", "clear share code").
			With("item_id", itemID).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return notFound(itemID)
	}
	return nil
}

// GetByShareCode resolves an active code to its public view: content, the
// owner's display name, and the creation time. Nothing else leaves this
// query.
func (r *ItemRepository) GetByShareCode(ctx context.Context, code string) (*clipboard.SharedView, error) {
	var view clipboard.SharedView
	err := r.db.QueryRow(ctx, `
		SELECT i.id, i.content, u.name, i.created_at
		FROM clipboard_items i
		JOIN users u ON u.id = i.owner_id
		WHERE i.share_code = $1
	`, code).Scan(&view.ID, &view.Content, &view.OwnerName, &view.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ITEM_NOT_FOUND").Wrap(clipboard.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ITEM_GET_BY_CODE_FAILED").
			With("operation", "get item by share code").
			Wrap(err)
	}
	return &view, nil
}

// scanItem scans a single row into an Item. Callers are responsible for
// handling pgx.ErrNoRows.
func scanItem(row pgx.Row) (*clipboard.Item, error) {
	var item clipboard.Item
	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Content,
		&item.ShareCode,
		&item.IsShared,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("ITEM_SCAN_FAILED").
			With("operation", "scan item").
			Wrap(err)
	}
	return &item, nil
}

// notFound reports an absent or not-owned item; the item id is logged but
// the two cases are indistinguishable to the caller.
func notFound(itemID int64) error {
	return oops.Code("ITEM_NOT_FOUND").
		With("item_id", itemID).
		Wrap(clipboard.ErrNotFound)
}

// Compile-time interface check.
var _ clipboard.ItemRepository = (*ItemRepository)(nil)
