// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

// Package clipboard provides ownership-scoped clipboard item storage and the
// share-code lifecycle: generation, idempotent re-issue, revocation, and
// unauthenticated redemption.
package clipboard
