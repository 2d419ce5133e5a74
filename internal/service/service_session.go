// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
	"github.com/MKhiriev/ssdm-gateway/internal/store"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
	"github.com/MKhiriev/ssdm-gateway/models"
)

const (
	// sessionIDBytes gives 128-bit session identifiers.
	sessionIDBytes = 16

	paperSessionLifetime = time.Hour
	qrSessionLifetime    = 12 * time.Hour
	qrMaxExtensions      = 3
	extensionStep        = 12 * time.Hour
)

// sessionService is the concrete SessionService.
//
// State lives entirely in the session record: Active while isActive and
// now <= expiresAt, Revoked once isActive is false, Expired afterwards.
// Expiry is evaluated lazily on every read and extension.
type sessionService struct {
	sessions    *store.Repository[models.ViewerSession]
	delegations *store.Repository[models.DelegationUse]

	malls  MallService
	tokens TokenService

	viewerBaseURL string

	now     func() time.Time
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewSessionService(storages *store.Storages, malls MallService, tokens TokenService, cfg config.App, m *metrics.Metrics, logger *logger.Logger) SessionService {
	return &sessionService{
		sessions:      storages.Sessions,
		delegations:   storages.Delegations,
		malls:         malls,
		tokens:        tokens,
		viewerBaseURL: strings.TrimRight(cfg.ViewerBaseURL, "/"),
		now:           time.Now,
		metrics:       m,
		logger:        logger,
	}
}

// RequestSession opens a session from a mall-session token. The disclosed
// fields are requiredFields intersected with the mall's allowed fields; an
// empty intersection is ErrForbidden. A session type in the request must
// match the one the token was issued for.
func (s *sessionService) RequestSession(ctx context.Context, request models.SessionRequest) (models.ViewerSession, error) {
	claims, err := s.tokens.VerifyMallSession(ctx, request.JWT)
	if err != nil {
		return models.ViewerSession{}, err
	}

	if request.SessionType != "" && request.SessionType != claims.SessionType {
		return models.ViewerSession{}, fmt.Errorf("%w: token was issued for %s sessions", ErrForbidden, claims.SessionType)
	}

	mall, err := s.activeMall(ctx, claims.MallID)
	if err != nil {
		return models.ViewerSession{}, err
	}

	allowed := models.NewFieldSet(request.RequiredFields...).Intersect(mall.AllowedFields)
	if len(allowed) == 0 {
		return models.ViewerSession{}, fmt.Errorf("%w: none of the required fields may be disclosed", ErrForbidden)
	}

	session := s.newSession(claims.UID, mall.MallID, "", claims.SessionType, allowed)
	if err = s.persist(ctx, session); err != nil {
		return models.ViewerSession{}, err
	}

	return session, nil
}

// RequestDelegatedSession opens a session from a delegate token, given
// directly or nested in a partner token. The delegate's jti is consumed with
// an atomic create-if-absent, so a token opens at most one session.
func (s *sessionService) RequestDelegatedSession(ctx context.Context, request models.DelegatedSessionRequest) (models.ViewerSession, error) {
	log := logger.FromContext(ctx)

	delegateJWT := request.DelegateJWT
	var partner *models.PartnerClaims
	if request.PartnerJWT != "" {
		claims, err := s.tokens.VerifyPartner(ctx, request.PartnerJWT)
		if err != nil {
			return models.ViewerSession{}, err
		}
		partner = &claims
		delegateJWT = claims.DelegateJWT
	}

	delegate, err := s.tokens.VerifyDelegate(ctx, delegateJWT)
	if err != nil {
		return models.ViewerSession{}, err
	}
	if partner != nil && (partner.MallID != delegate.MallID || partner.ShopID != delegate.ShopID) {
		return models.ViewerSession{}, fmt.Errorf("%w: partner and delegate tokens disagree", ErrForbidden)
	}

	if !request.SessionType.Valid() {
		return models.ViewerSession{}, fmt.Errorf("%w: unknown session type %q", ErrInvalidInput, request.SessionType)
	}

	mall, err := s.activeMall(ctx, delegate.MallID)
	if err != nil {
		return models.ViewerSession{}, err
	}

	allowed := models.NewFieldSet(request.RequiredFields...).
		Intersect(models.NewFieldSet(delegate.Fields...)).
		Intersect(mall.AllowedFields)
	if len(allowed) == 0 {
		return models.ViewerSession{}, fmt.Errorf("%w: none of the required fields may be disclosed", ErrForbidden)
	}

	session := s.newSession(delegate.Subject, mall.MallID, delegate.ShopID, request.SessionType, allowed)

	use := models.DelegationUse{
		TokenID:   delegate.ID,
		SessionID: session.SessionID,
		UsedAt:    session.CreatedAt,
		ExpiresAt: delegate.ExpiresAt.Time,
	}
	if err = s.delegations.Create(ctx, delegate.ID, use); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Info().Str("func", "sessionService.RequestDelegatedSession").Str("mall_id", mall.MallID).Msg("delegate token replayed")
			return models.ViewerSession{}, ErrDelegationAlreadyUsed
		}
		log.Err(err).Str("func", "sessionService.RequestDelegatedSession").Msg("error consuming delegate token")
		return models.ViewerSession{}, fmt.Errorf("error consuming delegate token: %w", err)
	}

	if err = s.persist(ctx, session); err != nil {
		if delErr := s.delegations.Delete(ctx, delegate.ID); delErr != nil {
			log.Err(delErr).Str("func", "sessionService.RequestDelegatedSession").Msg("error releasing delegate token")
		}
		return models.ViewerSession{}, err
	}

	return session, nil
}

// Extend pushes expiresAt forward by twelve hours inside a compare-and-swap
// on the session record. Expired or revoked sessions are never revived.
func (s *sessionService) Extend(ctx context.Context, sessionID string) (models.ViewerSession, error) {
	now := s.now()

	session, err := s.sessions.Update(ctx, sessionID, func(v *models.ViewerSession) error {
		if !v.UsableAt(now) {
			return ErrSessionExpired
		}
		if v.Extensions >= v.MaxExtensions {
			return ErrExtensionLimitReached
		}
		v.Extensions++
		v.ExpiresAt = v.ExpiresAt.Add(extensionStep)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrExtensionLimitReached) {
			s.metrics.IncExtension(metrics.ResultRejected)
			return models.ViewerSession{}, err
		}
		s.metrics.IncExtension(metrics.ResultError)
		return models.ViewerSession{}, fmt.Errorf("error extending session: %w", storeError(err))
	}

	s.metrics.IncExtension(metrics.ResultOK)
	logger.FromContext(ctx).Info().
		Str("func", "sessionService.Extend").
		Int("extensions", session.Extensions).
		Time("expires_at", session.ExpiresAt).
		Msg("session extended")

	return session, nil
}

// Resolve returns the session if it can still be used to disclose data.
func (s *sessionService) Resolve(ctx context.Context, sessionID string) (models.ViewerSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return models.ViewerSession{}, fmt.Errorf("error loading session: %w", storeError(err))
	}
	if !session.UsableAt(s.now()) {
		return models.ViewerSession{}, ErrSessionExpired
	}
	return session, nil
}

// Revoke deactivates the session. Revoking twice is not an error.
func (s *sessionService) Revoke(ctx context.Context, sessionID string) error {
	_, err := s.sessions.Update(ctx, sessionID, func(v *models.ViewerSession) error {
		v.IsActive = false
		return nil
	})
	if err != nil {
		return fmt.Errorf("error revoking session: %w", storeError(err))
	}
	return nil
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int, error) {
	now := s.now()
	staleSession := func(session models.ViewerSession) bool { return !session.UsableAt(now) }
	staleUse := func(use models.DelegationUse) bool { return now.After(use.ExpiresAt) }

	var staleSessions []string
	err := s.sessions.Scan(ctx, func(id string, session models.ViewerSession) error {
		if staleSession(session) {
			staleSessions = append(staleSessions, id)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error scanning sessions: %w", err)
	}

	var staleUses []string
	err = s.delegations.Scan(ctx, func(id string, use models.DelegationUse) error {
		if staleUse(use) {
			staleUses = append(staleUses, id)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error scanning delegation markers: %w", err)
	}

	purgedSessions, err := purgeStale(ctx, s.sessions, staleSessions, staleSession)
	if err != nil {
		return purgedSessions, err
	}
	purgedUses, err := purgeStale(ctx, s.delegations, staleUses, staleUse)
	return purgedSessions + purgedUses, err
}

func (s *sessionService) ViewerURL(sessionID string) string {
	return s.viewerBaseURL + "/view/" + sessionID
}

func (s *sessionService) activeMall(ctx context.Context, mallID string) (models.Mall, error) {
	mall, err := s.malls.GetMall(ctx, mallID)
	if err != nil {
		return models.Mall{}, err
	}
	if !mall.IsActive {
		return models.Mall{}, fmt.Errorf("%w: mall %q is inactive", ErrForbidden, mallID)
	}
	return mall, nil
}

func (s *sessionService) newSession(uid, mallID, shopID string, sessionType models.SessionType, allowed models.FieldSet) models.ViewerSession {
	now := s.now().UTC()

	lifetime, maxExtensions := paperSessionLifetime, 0
	if sessionType == models.SessionQR {
		lifetime, maxExtensions = qrSessionLifetime, qrMaxExtensions
	}

	return models.ViewerSession{
		SessionID:     utils.RandomHex(sessionIDBytes),
		UID:           uid,
		MallID:        mallID,
		ShopID:        shopID,
		SessionType:   sessionType,
		AllowedFields: allowed,
		CreatedAt:     now,
		ExpiresAt:     now.Add(lifetime),
		MaxExtensions: maxExtensions,
		IsActive:      true,
	}
}

func (s *sessionService) persist(ctx context.Context, session models.ViewerSession) error {
	if err := s.sessions.Create(ctx, session.SessionID, session); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sessionService.persist").Str("mall_id", session.MallID).Msg("error storing session")
		return fmt.Errorf("error storing session: %w", storeError(err))
	}

	s.metrics.IncSessionCreated(string(session.SessionType))
	logger.FromContext(ctx).Info().
		Str("func", "sessionService.persist").
		Str("mall_id", session.MallID).
		Str("session_type", string(session.SessionType)).
		Strs("fields", session.AllowedFields.Strings()).
		Msg("viewer session opened")
	return nil
}
