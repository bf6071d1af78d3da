// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
)

// WithTx begins a transaction, runs fn with the transactional handle, and
// commits on success or rolls back on error or panic. Panics are rethrown.
// pgx.Tx satisfies the query methods of DB, so repository code written
// against DB runs unchanged inside fn.
func WithTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return oops.Code("DB_TX_BEGIN_FAILED").Wrap(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx) //nolint:errcheck // panic takes precedence
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx) //nolint:errcheck // original error takes precedence
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = oops.Code("DB_TX_COMMIT_FAILED").Wrap(commitErr)
		}
	}()

	err = fn(tx)
	return err
}
