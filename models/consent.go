// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ConsentType tells how long a data owner's consent lasts.
type ConsentType string

const (
	// ConsentOnce is a single-use affirmation that is never persisted.
	ConsentOnce ConsentType = "once"

	// ConsentAlways is persisted and valid for six months.
	ConsentAlways ConsentType = "always"
)

// Valid reports whether t is a known consent type.
func (t ConsentType) Valid() bool {
	return t == ConsentOnce || t == ConsentAlways
}

// Consent is a grant given by the data owner to a (mall, shop) pair.
type Consent struct {
	UID         string      `json:"uid"`
	MallID      string      `json:"mallId"`
	ShopID      string      `json:"shopId"`
	ConsentType ConsentType `json:"consentType"`
	CreatedAt   time.Time   `json:"createdAt"`

	// ExpiresAt is set only for ConsentAlways.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	IsActive bool `json:"isActive"`
}

// ActiveAt reports whether the consent grants access at now.
// An always-consent is valid up to and including its expiry instant.
func (c Consent) ActiveAt(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return true
}

// ConsentState is the result of a consent check.
type ConsentState struct {
	Active  bool     `json:"active"`
	Consent *Consent `json:"consent,omitempty"`
}
