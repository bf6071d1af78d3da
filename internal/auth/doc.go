// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

// Package auth provides authentication primitives for ClipVault: password
// hashing, the in-process session registry, and the service that gates all
// ownership-scoped operations.
package auth
