// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/store"
	"github.com/MKhiriev/ssdm-gateway/models"
)

// consentLifetimeMonths is how long an "always" consent stays valid.
const consentLifetimeMonths = 6

type consentService struct {
	consents *store.Repository[models.Consent]

	now    func() time.Time
	logger *logger.Logger
}

func NewConsentService(storages *store.Storages, logger *logger.Logger) ConsentService {
	return &consentService{
		consents: storages.Consents,
		now:      time.Now,
		logger:   logger,
	}
}

// Save records a consent grant. A "once" grant is never written: the
// returned value is a transient affirmation without an expiry. An "always"
// grant overwrites any previous grant for the same key and expires six
// months after creation.
func (s *consentService) Save(ctx context.Context, uid, mallID, shopID string, consentType models.ConsentType) (models.Consent, error) {
	if !consentType.Valid() {
		return models.Consent{}, fmt.Errorf("%w: unknown consent type %q", ErrInvalidInput, consentType)
	}

	now := s.now().UTC()
	consent := models.Consent{
		UID:         uid,
		MallID:      mallID,
		ShopID:      shopID,
		ConsentType: consentType,
		CreatedAt:   now,
		IsActive:    true,
	}

	if consentType == models.ConsentOnce {
		return consent, nil
	}

	expiresAt := now.AddDate(0, consentLifetimeMonths, 0)
	consent.ExpiresAt = &expiresAt

	if err := s.consents.Put(ctx, consentKey(uid, mallID, shopID), consent); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "consentService.Save").Str("mall_id", mallID).Str("shop_id", shopID).Msg("error storing consent")
		return models.Consent{}, fmt.Errorf("error storing consent: %w", err)
	}

	return consent, nil
}

// Check reports whether an active grant exists. Expired or inactive rows are
// evicted on the way out, but only while they are still stale, so a renewal
// racing the eviction is kept. A failed eviction never fails the caller.
func (s *consentService) Check(ctx context.Context, uid, mallID, shopID string) (models.ConsentState, error) {
	log := logger.FromContext(ctx)
	key := consentKey(uid, mallID, shopID)

	consent, err := s.consents.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ConsentState{}, nil
		}
		log.Err(err).Str("func", "consentService.Check").Str("mall_id", mallID).Msg("error loading consent")
		return models.ConsentState{}, fmt.Errorf("error loading consent: %w", err)
	}

	now := s.now()
	if !consent.ActiveAt(now) {
		if _, err = s.consents.DeleteIf(ctx, key, staleConsentAt(now)); err != nil {
			log.Warn().Err(err).Str("func", "consentService.Check").Msg("error evicting stale consent")
		}
		return models.ConsentState{}, nil
	}

	return models.ConsentState{Active: true, Consent: &consent}, nil
}

// Revoke deletes the grant. Revoking an absent grant is not an error.
func (s *consentService) Revoke(ctx context.Context, uid, mallID, shopID string) error {
	if err := s.consents.Delete(ctx, consentKey(uid, mallID, shopID)); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "consentService.Revoke").Str("mall_id", mallID).Msg("error revoking consent")
		return fmt.Errorf("error revoking consent: %w", err)
	}
	return nil
}

// PurgeExpired removes every grant that is no longer active and returns how
// many were removed.
func (s *consentService) PurgeExpired(ctx context.Context) (int, error) {
	now := s.now()

	stale := staleConsentAt(now)

	var ids []string
	err := s.consents.Scan(ctx, func(id string, consent models.Consent) error {
		if stale(consent) {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error scanning consents: %w", err)
	}

	return purgeStale(ctx, s.consents, ids, stale)
}

func staleConsentAt(now time.Time) func(models.Consent) bool {
	return func(consent models.Consent) bool {
		return !consent.ActiveAt(now)
	}
}

func consentKey(uid, mallID, shopID string) string {
	return store.JoinKey(uid, mallID, shopID)
}

// purgeStale removes the ids that are still stale when their turn comes and
// counts them. It stops at the first failure.
func purgeStale[T any](ctx context.Context, repo *store.Repository[T], ids []string, stale func(T) bool) (int, error) {
	purged := 0
	for _, id := range ids {
		deleted, err := repo.DeleteIf(ctx, id, stale)
		if err != nil {
			return purged, fmt.Errorf("error deleting %s%s: %w", repo.Prefix(), id, err)
		}
		if deleted {
			purged++
		}
	}
	return purged, nil
}
