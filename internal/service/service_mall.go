// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/store"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
	"github.com/MKhiriev/ssdm-gateway/internal/validators"
	"github.com/MKhiriev/ssdm-gateway/models"
)

const (
	// apiKeyPrefix marks broker API keys so leaked keys are easy to grep for.
	apiKeyPrefix = "ssdm_"

	// apiKeyBytes is the entropy of a key before hex encoding.
	apiKeyBytes = 32
)

// mallService is the concrete MallService. Keys are never stored in
// plaintext: the mall record keeps the HMAC-SHA256 hash and an index record
// keyed by the same hash points back to the mall.
type mallService struct {
	malls   *store.Repository[models.Mall]
	apiKeys *store.Repository[models.APIKeyIndex]

	// hashKey is the HMAC key of API key hashing.
	hashKey string

	now    func() time.Time
	logger *logger.Logger
}

// NewMallService constructs a MallService over the mall and API key
// repositories of storages.
func NewMallService(storages *store.Storages, cfg config.App, logger *logger.Logger) MallService {
	return &mallService{
		malls:   storages.Malls,
		apiKeys: storages.APIKeys,
		hashKey: cfg.APIKeyHashKey,
		now:     time.Now,
		logger:  logger,
	}
}

// Register persists a new mall with a freshly generated key. The plaintext
// key is only ever present in the returned value.
//
// Returns ErrInvalidInput for a bad mallId or domain list and ErrConflict
// when mallId is taken.
func (s *mallService) Register(ctx context.Context, registration models.MallRegistration) (models.IssuedAPIKey, error) {
	log := logger.FromContext(ctx)

	if !validators.ValidMallID(registration.MallID) {
		return models.IssuedAPIKey{}, fmt.Errorf("%w: %w", ErrInvalidInput, validators.ErrInvalidMallID)
	}
	if len(registration.AllowedDomains) == 0 {
		return models.IssuedAPIKey{}, fmt.Errorf("%w: %w", ErrInvalidInput, validators.ErrEmptyAllowedDomains)
	}
	domains, err := validators.NormalizeDomains(registration.AllowedDomains)
	if err != nil {
		return models.IssuedAPIKey{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	apiKey, keyHash := s.newAPIKey()

	mall := models.Mall{
		MallID:         registration.MallID,
		MallName:       registration.MallName,
		AllowedFields:  models.NewFieldSet(registration.AllowedFields...),
		AllowedDomains: domains,
		ContactEmail:   registration.ContactEmail,
		Description:    registration.Description,
		APIKeyHash:     keyHash,
		CreatedAt:      now,
		ExpiresAt:      keyExpiry(now),
		IsActive:       true,
	}

	if err = s.apiKeys.Create(ctx, keyHash, models.APIKeyIndex{MallID: mall.MallID, CreatedAt: now}); err != nil {
		log.Err(err).Str("func", "mallService.Register").Str("mall_id", mall.MallID).Msg("error storing api key index")
		return models.IssuedAPIKey{}, fmt.Errorf("error storing api key index: %w", storeError(err))
	}

	if err = s.malls.Create(ctx, mall.MallID, mall); err != nil {
		if delErr := s.apiKeys.Delete(ctx, keyHash); delErr != nil {
			log.Err(delErr).Str("func", "mallService.Register").Str("mall_id", mall.MallID).Msg("error removing orphaned api key index")
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Info().Str("func", "mallService.Register").Str("mall_id", mall.MallID).Msg("mall id already registered")
			return models.IssuedAPIKey{}, fmt.Errorf("%w: mall %q already exists", ErrConflict, mall.MallID)
		}
		log.Err(err).Str("func", "mallService.Register").Str("mall_id", mall.MallID).Msg("error storing mall")
		return models.IssuedAPIKey{}, fmt.Errorf("error storing mall: %w", err)
	}

	log.Info().Str("func", "mallService.Register").Str("mall_id", mall.MallID).Msg("mall registered")

	return models.IssuedAPIKey{
		MallID:        mall.MallID,
		APIKey:        apiKey,
		AllowedFields: mall.AllowedFields,
		ExpiresAt:     mall.ExpiresAt,
	}, nil
}

// Reissue replaces the mall's key. The old key stops resolving as soon as
// the mall record carries the new hash; the stale index entry is removed
// afterwards.
func (s *mallService) Reissue(ctx context.Context, mallID string) (models.IssuedAPIKey, error) {
	log := logger.FromContext(ctx)

	if _, err := s.malls.Get(ctx, mallID); err != nil {
		return models.IssuedAPIKey{}, fmt.Errorf("error loading mall %q: %w", mallID, storeError(err))
	}

	now := s.now().UTC()
	apiKey, keyHash := s.newAPIKey()

	if err := s.apiKeys.Create(ctx, keyHash, models.APIKeyIndex{MallID: mallID, CreatedAt: now}); err != nil {
		log.Err(err).Str("func", "mallService.Reissue").Str("mall_id", mallID).Msg("error storing api key index")
		return models.IssuedAPIKey{}, fmt.Errorf("error storing api key index: %w", storeError(err))
	}

	var previousHash string
	mall, err := s.malls.Update(ctx, mallID, func(m *models.Mall) error {
		previousHash = m.APIKeyHash
		m.APIKeyHash = keyHash
		m.ExpiresAt = keyExpiry(now)
		return nil
	})
	if err != nil {
		if delErr := s.apiKeys.Delete(ctx, keyHash); delErr != nil {
			log.Err(delErr).Str("func", "mallService.Reissue").Str("mall_id", mallID).Msg("error removing orphaned api key index")
		}
		log.Err(err).Str("func", "mallService.Reissue").Str("mall_id", mallID).Msg("error replacing api key")
		return models.IssuedAPIKey{}, fmt.Errorf("error replacing api key: %w", storeError(err))
	}

	if previousHash != "" && previousHash != keyHash {
		if err = s.apiKeys.Delete(ctx, previousHash); err != nil {
			log.Err(err).Str("func", "mallService.Reissue").Str("mall_id", mallID).Msg("error removing previous api key index")
		}
	}

	log.Info().Str("func", "mallService.Reissue").Str("mall_id", mallID).Msg("api key reissued")

	return models.IssuedAPIKey{
		MallID:        mall.MallID,
		APIKey:        apiKey,
		AllowedFields: mall.AllowedFields,
		ExpiresAt:     mall.ExpiresAt,
	}, nil
}

// Deactivate marks the mall inactive; its key stops resolving immediately.
func (s *mallService) Deactivate(ctx context.Context, mallID string) error {
	_, err := s.malls.Update(ctx, mallID, func(m *models.Mall) error {
		m.IsActive = false
		return nil
	})
	if err != nil {
		return fmt.Errorf("error deactivating mall %q: %w", mallID, storeError(err))
	}

	logger.FromContext(ctx).Info().Str("func", "mallService.Deactivate").Str("mall_id", mallID).Msg("mall deactivated")
	return nil
}

func (s *mallService) GetMall(ctx context.Context, mallID string) (models.Mall, error) {
	mall, err := s.malls.Get(ctx, mallID)
	if err != nil {
		return models.Mall{}, fmt.Errorf("error loading mall %q: %w", mallID, storeError(err))
	}
	return mall, nil
}

// ResolveAPIKey fails with ErrUnauthorized for unknown, replaced, expired or
// deactivated keys without telling the caller which.
func (s *mallService) ResolveAPIKey(ctx context.Context, apiKey string) (models.Mall, error) {
	log := logger.FromContext(ctx)

	if apiKey == "" {
		return models.Mall{}, ErrUnauthorized
	}
	keyHash := utils.HashString(apiKey, s.hashKey)

	index, err := s.apiKeys.Get(ctx, keyHash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Mall{}, ErrUnauthorized
		}
		log.Err(err).Str("func", "mallService.ResolveAPIKey").Msg("error loading api key index")
		return models.Mall{}, fmt.Errorf("error loading api key index: %w", err)
	}

	mall, err := s.malls.Get(ctx, index.MallID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Mall{}, ErrUnauthorized
		}
		log.Err(err).Str("func", "mallService.ResolveAPIKey").Str("mall_id", index.MallID).Msg("error loading mall")
		return models.Mall{}, fmt.Errorf("error loading mall: %w", err)
	}

	switch {
	case !utils.EqualHash(mall.APIKeyHash, keyHash):
		log.Debug().Str("func", "mallService.ResolveAPIKey").Str("mall_id", mall.MallID).Msg("api key was replaced")
		return models.Mall{}, ErrUnauthorized
	case !mall.IsActive:
		log.Debug().Str("func", "mallService.ResolveAPIKey").Str("mall_id", mall.MallID).Msg("mall is inactive")
		return models.Mall{}, ErrUnauthorized
	case s.now().After(mall.ExpiresAt):
		log.Debug().Str("func", "mallService.ResolveAPIKey").Str("mall_id", mall.MallID).Msg("api key expired")
		return models.Mall{}, ErrUnauthorized
	}

	return mall, nil
}

func (s *mallService) ValidateDomain(ctx context.Context, mallID, rawURL string) (bool, error) {
	mall, err := s.malls.Get(ctx, mallID)
	if err != nil {
		return false, fmt.Errorf("error loading mall %q: %w", mallID, storeError(err))
	}
	if !mall.IsActive {
		return false, nil
	}

	host, err := validators.NormalizeDomain(rawURL)
	if err != nil {
		return false, nil
	}
	return slices.Contains(mall.AllowedDomains, host), nil
}

// newAPIKey returns a fresh plaintext key and its storage hash.
func (s *mallService) newAPIKey() (string, string) {
	key := apiKeyPrefix + utils.RandomHex(apiKeyBytes)
	return key, utils.HashString(key, s.hashKey)
}

func keyExpiry(issuedAt time.Time) time.Time {
	return issuedAt.AddDate(1, 0, 0)
}
