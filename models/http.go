// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// UIDRequest asks for the internal uid of a mall user.
type UIDRequest struct {
	ExternalUserID string `json:"externalUserId"`
}

// UIDResponse answers a [UIDRequest].
type UIDResponse struct {
	UID   string `json:"uid"`
	IsNew bool   `json:"isNew"`
}

// JWTRequest asks for a mall-session token.
type JWTRequest struct {
	ExternalUserID string      `json:"externalUserId"`
	SessionType    SessionType `json:"sessionType"`
}

// JWTResponse answers a [JWTRequest].
type JWTResponse struct {
	JWT         string      `json:"jwt"`
	ExpiresIn   int64       `json:"expiresIn"`
	SessionType SessionType `json:"sessionType"`
}

// ConsentRequest saves a consent decision.
type ConsentRequest struct {
	UID         string      `json:"uid"`
	MallID      string      `json:"mallId,omitempty"`
	ShopID      string      `json:"shopId"`
	ConsentType ConsentType `json:"consentType"`
}

// DelegationRequest asks for a partner token scoped to a consent.
type DelegationRequest struct {
	UID         string      `json:"uid"`
	ShopID      string      `json:"shopId"`
	Fields      []string    `json:"fields"`
	Purpose     string      `json:"purpose"`
	ConsentType ConsentType `json:"consentType,omitempty"`
}

// DelegationResponse answers a [DelegationRequest].
type DelegationResponse struct {
	JWT         string `json:"jwt"`
	DelegateJWT string `json:"delegateJwt"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// SessionRequest asks for a viewer session using a mall-session token.
type SessionRequest struct {
	JWT            string      `json:"jwt"`
	RequiredFields []string    `json:"requiredFields"`
	SessionType    SessionType `json:"sessionType,omitempty"`
}

// DelegatedSessionRequest asks for a viewer session using a delegate token,
// given directly or nested inside a partner token.
type DelegatedSessionRequest struct {
	DelegateJWT    string      `json:"delegateJwt,omitempty"`
	PartnerJWT     string      `json:"partnerJwt,omitempty"`
	RequiredFields []string    `json:"requiredFields"`
	SessionType    SessionType `json:"sessionType"`
}

// SessionResponse describes a freshly opened viewer session.
type SessionResponse struct {
	SessionID     string       `json:"sessionId"`
	ViewerURL     string       `json:"viewerUrl"`
	AllowedFields FieldSet     `json:"allowedFields"`
	ExpiresAt     time.Time    `json:"expiresAt"`
	Capabilities  Capabilities `json:"capabilities"`
}

// SessionStatus describes an existing viewer session.
type SessionStatus struct {
	SessionID           string       `json:"sessionId"`
	SessionType         SessionType  `json:"sessionType"`
	AllowedFields       FieldSet     `json:"allowedFields"`
	ExpiresAt           time.Time    `json:"expiresAt"`
	Extensions          int          `json:"extensionCount"`
	RemainingExtensions int          `json:"remainingExtensions"`
	Active              bool         `json:"active"`
	Capabilities        Capabilities `json:"capabilities"`
}

// ExtendResponse answers a session extension.
type ExtendResponse struct {
	NewExpiresAt        time.Time `json:"newExpiresAt"`
	ExtensionCount      int       `json:"extensionCount"`
	RemainingExtensions int       `json:"remainingExtensions"`
}

// DisclosureResponse carries the projected personal data.
type DisclosureResponse struct {
	UserData      PersonalData `json:"userData"`
	AllowedFields FieldSet     `json:"allowedFields"`
}
