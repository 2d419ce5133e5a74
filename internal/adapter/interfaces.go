// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a Go client for the broker's HTTP API.
//
// [BrokerClient] covers every endpoint: mall administration with the admin
// token, mall operations with an API key and the partner facing session
// routes. Non-2xx answers are mapped by mapHTTPError onto the sentinel errors
// in errors.go, so callers can use [errors.Is] (e.g. [ErrGone] for an expired
// session, [ErrForbidden] for a missing consent).
package adapter

import (
	"context"

	"github.com/MKhiriev/ssdm-gateway/models"
)

// BrokerClient talks to a running broker.
type BrokerClient interface {
	// SetAPIKey stores the mall API key sent on mall routes.
	SetAPIKey(apiKey string)

	// SetAdminToken stores the token sent on administration routes.
	SetAdminToken(token string)

	RegisterMall(ctx context.Context, registration models.MallRegistration) (models.IssuedAPIKey, error)
	GetMall(ctx context.Context, mallID string) (models.Mall, error)
	ReissueAPIKey(ctx context.Context, mallID string) (models.IssuedAPIKey, error)
	DeactivateMall(ctx context.Context, mallID string) error

	GetOrCreateUID(ctx context.Context, externalUserID string) (models.UIDResponse, error)
	SealPersonalData(ctx context.Context, uid string, data models.PersonalData) error
	IssueMallSessionToken(ctx context.Context, request models.JWTRequest) (models.JWTResponse, error)
	SaveConsent(ctx context.Context, request models.ConsentRequest) (models.Consent, error)
	CheckConsent(ctx context.Context, uid, shopID string) (models.ConsentState, error)
	RevokeConsent(ctx context.Context, uid, shopID string) error
	Delegate(ctx context.Context, request models.DelegationRequest) (models.DelegationResponse, error)

	RequestSession(ctx context.Context, request models.SessionRequest) (models.SessionResponse, error)
	RequestDelegatedSession(ctx context.Context, request models.DelegatedSessionRequest) (models.SessionResponse, error)
	SessionStatus(ctx context.Context, sessionID string) (models.SessionStatus, error)
	RevokeSession(ctx context.Context, sessionID string) error
	ExtendSession(ctx context.Context, sessionID string) (models.ExtendResponse, error)
	ReadSessionData(ctx context.Context, sessionID string) (models.DisclosureResponse, error)

	// DelegateKey returns the PEM public key delegate tokens verify with.
	DelegateKey(ctx context.Context) ([]byte, error)
	Version(ctx context.Context) (string, error)
}
