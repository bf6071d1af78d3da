// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package clipboard

import (
	"crypto/rand"

	"github.com/samber/oops"
)

// Share code format. The alphabet drops I, O, 0, and 1 to avoid
// transcription mistakes; 32 characters at length 8 gives over 10^12
// combinations.
const (
	ShareCodeLength   = 8
	ShareCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateShareCode draws a fixed-length code uniformly from
// ShareCodeAlphabet using crypto/rand. The 32-character alphabet divides
// 256, so reducing each byte modulo the alphabet size stays uniform.
func GenerateShareCode() (string, error) {
	buf := make([]byte, ShareCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("SHARE_CODE_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}
	for i, b := range buf {
		buf[i] = ShareCodeAlphabet[int(b)%len(ShareCodeAlphabet)]
	}
	return string(buf), nil
}
