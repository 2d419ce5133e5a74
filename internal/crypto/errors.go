// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrDecryptionFailed hides the concrete cause (encoding, length, key or
	// padding) of a failed decryption.
	ErrDecryptionFailed = errors.New("decryption failed")

	ErrInvalidKey = errors.New("invalid key length")
)
