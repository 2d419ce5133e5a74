// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// KeySize is the length of every DEK and KEK (AES-256).
const KeySize = 32

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	salt       []byte
	iterations int
}

// NewKeyChain constructs a [KeyChain] deriving keys with PBKDF2-HMAC-SHA256
// over salt and the given iteration count.
func NewKeyChain(salt string, iterations int) KeyChain {
	return &keyChain{
		salt:       []byte(salt),
		iterations: iterations,
	}
}

// DeriveKey implements [KeyChain].
func (k *keyChain) DeriveKey(uid string) []byte {
	return pbkdf2.Key([]byte(uid), k.salt, k.iterations, KeySize, sha256.New)
}

// GenerateDEK implements [KeyChain]. It reads 32 random bytes from the OS
// CSPRNG.
func (k *keyChain) GenerateDEK() ([]byte, error) {
	dek := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, dek); err != nil {
		return nil, err
	}
	return dek, nil
}

// Encrypt implements [KeyChain]. A random 16-byte IV is prepended to the
// ciphertext: blob = iv ‖ ciphertext.
func (k *keyChain) Encrypt(plaintext, key []byte) (string, error) {
	if len(key) != KeySize {
		return "", ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	blob := make([]byte, aes.BlockSize+len(padded))
	iv := blob[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(blob[aes.BlockSize:], padded)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [KeyChain].
func (k *keyChain) Decrypt(ciphertext string, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(blob) < 2*aes.BlockSize || len(blob)%aes.BlockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	iv, body := blob[:aes.BlockSize], blob[aes.BlockSize:]
	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)

	unpadded, ok := pkcs7Unpad(plain, aes.BlockSize)
	if !ok {
		return nil, ErrDecryptionFailed
	}

	return unpadded, nil
}

// WrapKey implements [KeyChain].
func (k *keyChain) WrapKey(dek, kek []byte) (string, error) {
	if len(dek) != KeySize {
		return "", ErrInvalidKey
	}
	return k.Encrypt(dek, kek)
}

// UnwrapKey implements [KeyChain].
func (k *keyChain) UnwrapKey(wrapped string, kek []byte) ([]byte, error) {
	dek, err := k.Decrypt(wrapped, kek)
	if err != nil {
		return nil, err
	}
	if len(dek) != KeySize {
		return nil, ErrDecryptionFailed
	}
	return dek, nil
}

// Hash implements [KeyChain].
func (k *keyChain) Hash(plaintext []byte) string {
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:])
}

// VerifyIntegrity implements [KeyChain]. The comparison is constant time.
func (k *keyChain) VerifyIntegrity(plaintext []byte, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(k.Hash(plaintext)), []byte(digest)) == 1
}

// pkcs7Pad always appends 1..blockSize bytes, each equal to the pad length.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}

	var bad byte
	for _, b := range data[len(data)-n:] {
		bad |= b ^ byte(n)
	}
	if bad != 0 {
		return nil, false
	}

	return data[:len(data)-n], true
}
