// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipvault/clipvault/internal/clipboard"
	"github.com/clipvault/clipvault/internal/clipboard/postgres"
)

var itemColumns = []string{"id", "owner_id", "content", "share_code", "is_shared", "created_at", "updated_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock
}

func TestItemRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered rows", func(t *testing.T) {
		mock := newMockPool(t)
		now := time.Now().UTC()
		mock.ExpectQuery(`SELECT id, owner_id, content, share_code, is_shared, created_at, updated_at`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(itemColumns).
				AddRow(int64(2), int64(1), "newest", (*string)(nil), false, now, now).
				AddRow(int64(1), int64(1), "oldest", (*string)(nil), false, now.Add(-time.Hour), now.Add(-time.Hour)))

		repo := postgres.NewItemRepository(mock)
		items, err := repo.ListByOwner(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "newest", items[0].Content)
		assert.Equal(t, "oldest", items[1].Content)
	})

	t.Run("no rows yields empty non-nil slice", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, owner_id, content, share_code, is_shared, created_at, updated_at`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(itemColumns))

		repo := postgres.NewItemRepository(mock)
		items, err := repo.ListByOwner(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestItemRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO clipboard_items`).
		WithArgs(int64(1), "hello").
		WillReturnRows(pgxmock.NewRows([]string{"id", "is_shared", "created_at", "updated_at"}).
			AddRow(int64(7), false, now, now))

	repo := postgres.NewItemRepository(mock)
	item := &clipboard.Item{OwnerID: 1, Content: "hello"}
	require.NoError(t, repo.Create(ctx, item))
	assert.Equal(t, int64(7), item.ID)
	assert.False(t, item.IsShared)
	assert.Equal(t, now, item.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestItemRepository_GetForOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock := newMockPool(t)
		now := time.Now().UTC()
		mock.ExpectQuery(`SELECT id, owner_id, content, share_code, is_shared, created_at, updated_at`).
			WithArgs(int64(1), int64(7)).
			WillReturnRows(pgxmock.NewRows(itemColumns).
				AddRow(int64(7), int64(1), "hello", (*string)(nil), false, now, now))

		repo := postgres.NewItemRepository(mock)
		item, err := repo.GetForOwner(ctx, 1, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), item.ID)
	})

	t.Run("wrong owner scans as missing", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, owner_id, content, share_code, is_shared, created_at, updated_at`).
			WithArgs(int64(2), int64(7)).
			WillReturnRows(pgxmock.NewRows(itemColumns))

		repo := postgres.NewItemRepository(mock)
		item, err := repo.GetForOwner(ctx, 2, 7)
		require.Error(t, err)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, clipboard.ErrNotFound)
	})
}

func TestItemRepository_UpdateContent(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the updated row", func(t *testing.T) {
		mock := newMockPool(t)
		now := time.Now().UTC()
		mock.ExpectQuery(`UPDATE clipboard_items`).
			WithArgs(int64(1), int64(7), "new content").
			WillReturnRows(pgxmock.NewRows(itemColumns).
				AddRow(int64(7), int64(1), "new content", (*string)(nil), false, now.Add(-time.Hour), now))

		repo := postgres.NewItemRepository(mock)
		item, err := repo.UpdateContent(ctx, 1, 7, "new content")
		require.NoError(t, err)
		assert.Equal(t, "new content", item.Content)
		assert.True(t, item.UpdatedAt.After(item.CreatedAt))
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`UPDATE clipboard_items`).
			WithArgs(int64(1), int64(99), "new content").
			WillReturnRows(pgxmock.NewRows(itemColumns))

		repo := postgres.NewItemRepository(mock)
		_, err := repo.UpdateContent(ctx, 1, 99, "new content")
		require.Error(t, err)
		assert.ErrorIs(t, err, clipboard.ErrNotFound)
	})
}

func TestItemRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes owned item", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM clipboard_items`).
			WithArgs(int64(1), int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := postgres.NewItemRepository(mock)
		require.NoError(t, repo.Delete(ctx, 1, 7))
	})

	t.Run("not owned reports not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM clipboard_items`).
			WithArgs(int64(2), int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgres.NewItemRepository(mock)
		err := repo.Delete(ctx, 2, 7)
		require.Error(t, err)
		assert.ErrorIs(t, err, clipboard.ErrNotFound)
	})
}

func TestItemRepository_Share(t *testing.T) {
	ctx := context.Background()

	t.Run("locks, checks, and writes the code", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT share_code`).
			WithArgs(int64(1), int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"share_code"}).AddRow((*string)(nil)))
		mock.ExpectExec(`UPDATE clipboard_items`).
			WithArgs(int64(1), int64(7), "ABCD2345").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		repo := postgres.NewItemRepository(mock)
		require.NoError(t, repo.Share(ctx, 1, 7, "ABCD2345"))
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("already shared rolls back", func(t *testing.T) {
		mock := newMockPool(t)
		existing := "WXYZ6789"
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT share_code`).
			WithArgs(int64(1), int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"share_code"}).AddRow(&existing))
		mock.ExpectRollback()

		repo := postgres.NewItemRepository(mock)
		err := repo.Share(ctx, 1, 7, "ABCD2345")
		require.Error(t, err)
		assert.ErrorIs(t, err, clipboard.ErrAlreadyShared)
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("code collision surfaces as taken", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT share_code`).
			WithArgs(int64(1), int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"share_code"}).AddRow((*string)(nil)))
		mock.ExpectExec(`UPDATE clipboard_items`).
			WithArgs(int64(1), int64(7), "ABCD2345").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
		mock.ExpectRollback()

		repo := postgres.NewItemRepository(mock)
		err := repo.Share(ctx, 1, 7, "ABCD2345")
		require.Error(t, err)
		assert.ErrorIs(t, err, clipboard.ErrShareCodeTaken)
	})

	t.Run("absent item rolls back with not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT share_code`).
			WithArgs(int64(1), int64(99)).
			WillReturnRows(pgxmock.NewRows([]string{"share_code"}))
		mock.ExpectRollback()

		repo := postgres.NewItemRepository(mock)
		err := repo.Share(ctx, 1, 99, "ABCD2345")
		require.Error(t, err)
		assert.ErrorIs(t, err, clipboard.ErrNotFound)
	})
}

func TestItemRepository_Unshare(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the share state", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE clipboard_items`).
			WithArgs(int64(1), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := postgres.NewItemRepository(mock)
		require.NoError(t, repo.Unshare(ctx, 1, 7))
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE clipboard_items`).
			WithArgs(int64(1), int64(99)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := postgres.NewItemRepository(mock)
		err := repo.Unshare(ctx, 1, 99)
		require.Error(t, err)
		assert.ErrorIs(t, err, clipboard.ErrNotFound)
	})
}

func TestItemRepository_GetByShareCode(t *testing.T) {
	ctx := context.Background()

	t.Run("active code resolves to public view", func(t *testing.T) {
		mock := newMockPool(t)
		now := time.Now().UTC()
		mock.ExpectQuery(`SELECT i.id, i.content, u.name, i.created_at`).
			WithArgs("ABCD2345").
			WillReturnRows(pgxmock.NewRows([]string{"id", "content", "name", "created_at"}).
				AddRow(int64(7), "hello", "Alice", now))

		repo := postgres.NewItemRepository(mock)
		view, err := repo.GetByShareCode(ctx, "ABCD2345")
		require.NoError(t, err)
		assert.Equal(t, int64(7), view.ID)
		assert.Equal(t, "hello", view.Content)
		assert.Equal(t, "Alice", view.OwnerName)
	})

	t.Run("unknown code", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT i.id, i.content, u.name, i.created_at`).
			WithArgs("NEVERWAS").
			WillReturnRows(pgxmock.NewRows([]string{"id", "content", "name", "created_at"}))

		repo := postgres.NewItemRepository(mock)
		view, err := repo.GetByShareCode(ctx, "NEVERWAS")
		require.Error(t, err)
		assert.Nil(t, view)
		assert.ErrorIs(t, err, clipboard.ErrNotFound)
	})

	t.Run("database failure is not a missing code", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT i.id, i.content, u.name, i.created_at`).
			WithArgs("ABCD2345").
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewItemRepository(mock)
		_, err := repo.GetByShareCode(ctx, "ABCD2345")
		require.Error(t, err)
		assert.NotErrorIs(t, err, clipboard.ErrNotFound)
	})
}
