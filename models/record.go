// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// EncryptedRecord is a person's contact data sealed by the PII vault.
//
// EncryptedData is encrypted under a random data key; EncryptedKey is that
// data key wrapped under a key derived from the owner's uid. Checksum is the
// hex SHA-256 of the plaintext JSON and must match after every decryption.
type EncryptedRecord struct {
	UID           string    `json:"uid"`
	EncryptedData string    `json:"encryptedData"`
	EncryptedKey  string    `json:"encryptedKey"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PersonalData is the plaintext payload protected by the vault.
type PersonalData map[FieldName]string

// Project returns only the entries whose field is in allowed.
func (p PersonalData) Project(allowed FieldSet) PersonalData {
	out := make(PersonalData, len(allowed))
	for _, f := range allowed {
		if v, ok := p[f]; ok {
			out[f] = v
		}
	}
	return out
}
