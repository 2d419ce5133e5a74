package service

import (
	"context"

	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/golang-jwt/jwt/v5"
)

// MallService is the mall registry: registration, API key lifecycle and
// per-mall disclosure policy.
type MallService interface {
	Register(ctx context.Context, registration models.MallRegistration) (models.IssuedAPIKey, error)
	Reissue(ctx context.Context, mallID string) (models.IssuedAPIKey, error)
	Deactivate(ctx context.Context, mallID string) error
	GetMall(ctx context.Context, mallID string) (models.Mall, error)

	// ResolveAPIKey returns the active, unexpired mall owning apiKey.
	ResolveAPIKey(ctx context.Context, apiKey string) (models.Mall, error)

	// ValidateDomain reports whether rawURL's host is one of the mall's
	// allowed domains.
	ValidateDomain(ctx context.Context, mallID, rawURL string) (bool, error)
}

// UIDService maps (mall, external user) pairs onto stable internal uids.
type UIDService interface {
	GetOrCreateUID(ctx context.Context, mallID, externalUserID string) (models.UIDMapping, bool, error)
}

// ConsentService records, checks and revokes consent grants.
type ConsentService interface {
	Save(ctx context.Context, uid, mallID, shopID string, consentType models.ConsentType) (models.Consent, error)
	Check(ctx context.Context, uid, mallID, shopID string) (models.ConsentState, error)
	Revoke(ctx context.Context, uid, mallID, shopID string) error
	PurgeExpired(ctx context.Context) (int, error)
}

// TokenService issues and verifies the three token classes. Verification
// always names the class it expects.
type TokenService interface {
	IssueMallSession(ctx context.Context, uid, mallID string, sessionType models.SessionType) (models.Token, error)
	IssueDelegate(ctx context.Context, uid, mallID, shopID string, fields models.FieldSet) (models.Token, error)
	IssuePartner(ctx context.Context, mallID, shopID, purpose, delegateJWT string) (models.Token, error)

	Verify(ctx context.Context, class models.TokenClass, token string, claims jwt.Claims) error
	VerifyMallSession(ctx context.Context, token string) (models.MallSessionClaims, error)
	VerifyDelegate(ctx context.Context, token string) (models.DelegateClaims, error)
	VerifyPartner(ctx context.Context, token string) (models.PartnerClaims, error)

	// DelegatePublicKey returns the PEM encoded key partners verify
	// delegate tokens with.
	DelegatePublicKey() ([]byte, error)
}

// DelegationService turns mall requests into signed tokens: mall-session
// tokens for the mall's own users and delegate/partner pairs for delivery
// partners.
type DelegationService interface {
	IssueMallSession(ctx context.Context, mallID string, request models.JWTRequest) (models.JWTResponse, error)
	Delegate(ctx context.Context, mallID string, request models.DelegationRequest) (models.DelegationResponse, error)
}

// SessionService manages viewer sessions.
type SessionService interface {
	RequestSession(ctx context.Context, request models.SessionRequest) (models.ViewerSession, error)
	RequestDelegatedSession(ctx context.Context, request models.DelegatedSessionRequest) (models.ViewerSession, error)
	Extend(ctx context.Context, sessionID string) (models.ViewerSession, error)
	Resolve(ctx context.Context, sessionID string) (models.ViewerSession, error)
	Revoke(ctx context.Context, sessionID string) error

	// PurgeExpired removes unusable sessions and delegation markers whose
	// token has expired.
	PurgeExpired(ctx context.Context) (int, error)

	// ViewerURL is the page a partner opens to view the session.
	ViewerURL(sessionID string) string
}

// VaultService seals personal data and discloses it through live sessions.
type VaultService interface {
	Seal(ctx context.Context, mallID, uid string, data models.PersonalData) (models.EncryptedRecord, error)

	// Disclose decrypts record and projects it onto session.AllowedFields.
	Disclose(ctx context.Context, session models.ViewerSession, record models.EncryptedRecord) (models.PersonalData, error)

	// Read loads the record of session.UID and discloses it.
	Read(ctx context.Context, session models.ViewerSession) (models.PersonalData, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// MallServiceWrapper and the wrappers below decorate a service with extra
// behavior such as input validation.
type MallServiceWrapper interface {
	Wrap(MallService) MallService
}

type UIDServiceWrapper interface {
	Wrap(UIDService) UIDService
}

type ConsentServiceWrapper interface {
	Wrap(ConsentService) ConsentService
}

type DelegationServiceWrapper interface {
	Wrap(DelegationService) DelegationService
}

type SessionServiceWrapper interface {
	Wrap(SessionService) SessionService
}

type VaultServiceWrapper interface {
	Wrap(VaultService) VaultService
}
