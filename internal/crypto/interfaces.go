// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_mock.go -package=mock

// KeyChain holds the PII vault cryptography. It knows nothing about the
// network, storage or sessions; it only derives, wraps and applies keys.
//
// Sealing a record:
//
//	DEK       = GenerateDEK()
//	data      = Encrypt(plaintext, DEK)
//	KEK       = DeriveKey(uid)
//	wrapped   = WrapKey(DEK, KEK)
//	checksum  = Hash(plaintext)
//
// Opening reverses the steps and finishes with VerifyIntegrity.
type KeyChain interface {
	// DeriveKey derives the 256-bit key-encryption key for uid with PBKDF2
	// over the application salt and a fixed iteration count.
	DeriveKey(uid string) []byte

	// GenerateDEK returns a fresh random 256-bit data-encryption key.
	GenerateDEK() ([]byte, error)

	// Encrypt encrypts plaintext with key using AES-256-CBC and PKCS#7
	// padding. The result is base64(iv ‖ ciphertext).
	Encrypt(plaintext, key []byte) (string, error)

	// Decrypt reverses Encrypt. Any malformed input, wrong key or bad padding
	// yields ErrDecryptionFailed.
	Decrypt(ciphertext string, key []byte) ([]byte, error)

	// WrapKey encrypts a DEK under a KEK.
	WrapKey(dek, kek []byte) (string, error)

	// UnwrapKey recovers a DEK; the result is always 32 bytes or an error.
	UnwrapKey(wrapped string, kek []byte) ([]byte, error)

	// Hash returns the hex SHA-256 digest of plaintext.
	Hash(plaintext []byte) string

	// VerifyIntegrity reports whether digest matches Hash(plaintext).
	VerifyIntegrity(plaintext []byte, digest string) bool
}
