// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Mall is a registered merchant allowed to broker access to personal data.
//
// The plaintext API key is never part of this structure; only its keyed hash
// is persisted. AllowedFields is the ceiling no viewer session may exceed.
type Mall struct {
	// MallID is the chosen, immutable, globally unique slug.
	MallID string `json:"mallId"`

	// MallName is the human-readable merchant name.
	MallName string `json:"mallName"`

	// AllowedFields lists the fields this mall may ever have disclosed.
	AllowedFields FieldSet `json:"allowedFields"`

	// AllowedDomains holds normalized hosts (optionally with port) accepted as
	// callback and CORS origins for this mall.
	AllowedDomains []string `json:"allowedDomains"`

	// ContactEmail is an optional operator contact.
	ContactEmail string `json:"contactEmail,omitempty"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// APIKeyHash is the hex HMAC-SHA256 of the current API key.
	APIKeyHash string `json:"apiKeyHash"`

	CreatedAt time.Time `json:"createdAt"`

	// ExpiresAt is one year after the latest key issuance.
	ExpiresAt time.Time `json:"expiresAt"`

	IsActive bool `json:"isActive"`
}

// APIKeyIndex maps an API key hash back to the owning mall.
type APIKeyIndex struct {
	MallID    string    `json:"mallId"`
	CreatedAt time.Time `json:"createdAt"`
}

// MallRegistration is the administrative request to register a mall.
type MallRegistration struct {
	MallName       string   `json:"mallName"`
	MallID         string   `json:"mallId"`
	AllowedFields  []string `json:"allowedFields"`
	AllowedDomains []string `json:"allowedDomains"`
	ContactEmail   string   `json:"contactEmail,omitempty"`
	Description    string   `json:"description,omitempty"`
}

// IssuedAPIKey is returned exactly once whenever a key is generated.
type IssuedAPIKey struct {
	MallID        string    `json:"mallId"`
	APIKey        string    `json:"apiKey"`
	AllowedFields FieldSet  `json:"allowedFields,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt"`
}
