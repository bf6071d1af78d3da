// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

// Package web exposes the ClipVault HTTP API: cookie-authenticated auth and
// clipboard routes plus the unauthenticated share-code redemption route.
package web
