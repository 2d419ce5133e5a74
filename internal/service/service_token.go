// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token lifetimes.
const (
	paperSessionTTL = time.Hour
	qrSessionTTL    = 12 * time.Hour
	delegateTTL     = time.Hour
	partnerTTL      = 15 * time.Minute
)

// tokenClass describes how one token class is signed and verified. The
// audience claim carries the class label so a token of one class never
// verifies as another even if keys were ever shared.
type tokenClass struct {
	method    jwt.SigningMethod
	audience  string
	signKey   any
	verifyKey any
}

// tokenService is the concrete TokenService.
type tokenService struct {
	classes map[models.TokenClass]tokenClass

	// issuer is the "iss" claim of every token and is required on verify.
	issuer string

	delegateKey *ecdsa.PrivateKey

	now     func() time.Time
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewTokenService builds the class table from cfg. The delegate signing key
// is read from cfg.DelegateKeyPath; when the path is empty an ephemeral
// P-256 key is generated, which invalidates outstanding delegate tokens on
// restart.
func NewTokenService(cfg config.App, m *metrics.Metrics, logger *logger.Logger) (TokenService, error) {
	delegateKey, err := loadDelegateKey(cfg.DelegateKeyPath)
	if err != nil {
		return nil, err
	}
	if cfg.DelegateKeyPath == "" {
		logger.Warn().Str("func", "NewTokenService").Msg("no delegate key configured, generated an ephemeral ES256 key")
	}

	return newTokenService(cfg.TokenIssuer, []byte(cfg.MallSessionSignKey), []byte(cfg.PartnerSignKey), delegateKey, m, logger), nil
}

func newTokenService(issuer string, mallSessionKey, partnerKey []byte, delegateKey *ecdsa.PrivateKey, m *metrics.Metrics, logger *logger.Logger) *tokenService {
	return &tokenService{
		classes: map[models.TokenClass]tokenClass{
			models.MallSessionToken: {
				method:    jwt.SigningMethodHS256,
				audience:  audience(models.MallSessionToken),
				signKey:   mallSessionKey,
				verifyKey: mallSessionKey,
			},
			models.DelegateToken: {
				method:    jwt.SigningMethodES256,
				audience:  audience(models.DelegateToken),
				signKey:   delegateKey,
				verifyKey: &delegateKey.PublicKey,
			},
			models.PartnerToken: {
				method:    jwt.SigningMethodHS256,
				audience:  audience(models.PartnerToken),
				signKey:   partnerKey,
				verifyKey: partnerKey,
			},
		},
		issuer:      issuer,
		delegateKey: delegateKey,
		now:         time.Now,
		metrics:     m,
		logger:      logger,
	}
}

// IssueMallSession signs a mall-session token whose lifetime follows the
// session type: one hour for paper, twelve hours for qr.
func (s *tokenService) IssueMallSession(ctx context.Context, uid, mallID string, sessionType models.SessionType) (models.Token, error) {
	ttl, err := mallSessionTTL(sessionType)
	if err != nil {
		return models.Token{}, err
	}

	claims := models.MallSessionClaims{
		UID:         uid,
		MallID:      mallID,
		SessionType: sessionType,
	}
	claims.RegisteredClaims = s.registeredClaims(models.MallSessionToken, uid, ttl)

	return s.sign(ctx, models.MallSessionToken, &claims, claims.ID, ttl)
}

// IssueDelegate signs a single-use delegate token for a delivery partner.
// The returned Token.ID is the jti consumed when the token opens a session.
func (s *tokenService) IssueDelegate(ctx context.Context, uid, mallID, shopID string, fields models.FieldSet) (models.Token, error) {
	claims := models.DelegateClaims{
		ShopID:  shopID,
		MallID:  mallID,
		Fields:  fields.Strings(),
		OneTime: true,
	}
	claims.RegisteredClaims = s.registeredClaims(models.DelegateToken, uid, delegateTTL)

	return s.sign(ctx, models.DelegateToken, &claims, claims.ID, delegateTTL)
}

// IssuePartner wraps delegateJWT in a short-lived partner token.
func (s *tokenService) IssuePartner(ctx context.Context, mallID, shopID, purpose, delegateJWT string) (models.Token, error) {
	claims := models.PartnerClaims{
		ShopID:      shopID,
		MallID:      mallID,
		Purpose:     purpose,
		DelegateJWT: delegateJWT,
	}
	claims.RegisteredClaims = s.registeredClaims(models.PartnerToken, shopID, partnerTTL)

	return s.sign(ctx, models.PartnerToken, &claims, claims.ID, partnerTTL)
}

// Verify parses token as the given class into claims. Only the class's
// algorithm is accepted. Failures map onto ErrTokenExpired, ErrMalformedToken
// or ErrUnauthorized.
func (s *tokenService) Verify(ctx context.Context, class models.TokenClass, token string, claims jwt.Claims) error {
	log := logger.FromContext(ctx)

	def, ok := s.classes[class]
	if !ok {
		return fmt.Errorf("%w: unknown token class %d", ErrUnauthorized, class)
	}
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return def.verifyKey, nil },
		jwt.WithValidMethods([]string{def.method.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(def.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err == nil {
		return nil
	}

	log.Debug().Err(err).Str("func", "tokenService.Verify").Str("class", class.String()).Msg("token rejected")

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing), errors.Is(err, jwt.ErrTokenInvalidClaims):
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	default:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
}

func (s *tokenService) VerifyMallSession(ctx context.Context, token string) (models.MallSessionClaims, error) {
	var claims models.MallSessionClaims
	if err := s.Verify(ctx, models.MallSessionToken, token, &claims); err != nil {
		return models.MallSessionClaims{}, err
	}
	return claims, nil
}

func (s *tokenService) VerifyDelegate(ctx context.Context, token string) (models.DelegateClaims, error) {
	var claims models.DelegateClaims
	if err := s.Verify(ctx, models.DelegateToken, token, &claims); err != nil {
		return models.DelegateClaims{}, err
	}
	return claims, nil
}

func (s *tokenService) VerifyPartner(ctx context.Context, token string) (models.PartnerClaims, error) {
	var claims models.PartnerClaims
	if err := s.Verify(ctx, models.PartnerToken, token, &claims); err != nil {
		return models.PartnerClaims{}, err
	}
	return claims, nil
}

func (s *tokenService) DelegatePublicKey() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&s.delegateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("error encoding delegate public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

func (s *tokenService) registeredClaims(class models.TokenClass, subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience(class)},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}

func (s *tokenService) sign(ctx context.Context, class models.TokenClass, claims jwt.Claims, id string, ttl time.Duration) (models.Token, error) {
	def := s.classes[class]

	signed, err := jwt.NewWithClaims(def.method, claims).SignedString(def.signKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "tokenService.sign").Str("class", class.String()).Msg("error signing token")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	s.metrics.IncTokenIssued(class.String())

	return models.Token{
		Class:        class,
		SignedString: signed,
		ID:           id,
		ExpiresAt:    s.now().Add(ttl),
		ExpiresIn:    int64(ttl / time.Second),
	}, nil
}

func audience(class models.TokenClass) string {
	return "ssdm:" + class.String()
}

func mallSessionTTL(sessionType models.SessionType) (time.Duration, error) {
	switch sessionType {
	case models.SessionPaper:
		return paperSessionTTL, nil
	case models.SessionQR:
		return qrSessionTTL, nil
	default:
		return 0, fmt.Errorf("%w: unknown session type %q", ErrInvalidInput, sessionType)
	}
}

// loadDelegateKey reads a PEM encoded P-256 key from path or generates one
// when path is empty.
func loadDelegateKey(path string) (*ecdsa.PrivateKey, error) {
	if path == "" {
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading delegate key: %w", err)
	}
	key, err := jwt.ParseECPrivateKeyFromPEM(raw)
	if err != nil {
		return nil, fmt.Errorf("error parsing delegate key: %w", err)
	}
	if key.Curve != elliptic.P256() {
		return nil, errors.New("delegate key must be a P-256 key")
	}
	return key, nil
}
