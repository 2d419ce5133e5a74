// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SessionType selects the viewing medium and with it the session lifetime
// and extension budget.
type SessionType string

const (
	// SessionPaper is a printed slip: one hour, no extensions.
	SessionPaper SessionType = "paper"

	// SessionQR is a scanned QR code: twelve hours, up to three extensions.
	SessionQR SessionType = "qr"
)

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	return t == SessionPaper || t == SessionQR
}

// ViewerSession is an ephemeral, field-scoped window during which personal
// data may be disclosed to a viewer.
type ViewerSession struct {
	SessionID   string      `json:"sessionId"`
	UID         string      `json:"uid"`
	MallID      string      `json:"mallId"`
	ShopID      string      `json:"shopId,omitempty"`
	SessionType SessionType `json:"sessionType"`

	// AllowedFields is the actual disclosure set, always a subset of the
	// owning mall's allowed fields.
	AllowedFields FieldSet `json:"allowedFields"`

	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Extensions    int       `json:"extensions"`
	MaxExtensions int       `json:"maxExtensions"`
	IsActive      bool      `json:"isActive"`
}

// UsableAt reports whether the session may still gate a disclosure at now.
func (s ViewerSession) UsableAt(now time.Time) bool {
	return s.IsActive && !now.After(s.ExpiresAt)
}

// RemainingExtensions returns how many more times the session may be extended.
func (s ViewerSession) RemainingExtensions() int {
	if r := s.MaxExtensions - s.Extensions; r > 0 {
		return r
	}
	return 0
}

// Capabilities describes what a viewer UI may do with disclosed data.
type Capabilities struct {
	CanPrint bool `json:"canPrint"`
	CanView  bool `json:"canView"`
	CanCopy  bool `json:"canCopy"`
	CanSave  bool `json:"canSave"`
}

// CapabilitiesFor returns the viewer capabilities for a session type.
// Copying and saving are never allowed.
func CapabilitiesFor(t SessionType) Capabilities {
	return Capabilities{
		CanPrint: t == SessionPaper,
		CanView:  true,
	}
}

// DelegationUse marks a delegate token as consumed.
type DelegationUse struct {
	TokenID   string    `json:"jti"`
	SessionID string    `json:"sessionId"`
	UsedAt    time.Time `json:"usedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
