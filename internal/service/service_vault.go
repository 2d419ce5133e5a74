// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/crypto"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
	"github.com/MKhiriev/ssdm-gateway/internal/store"
	"github.com/MKhiriev/ssdm-gateway/models"
)

// vaultService is the PII vault. Each record is encrypted under its own
// random data key; the data key is wrapped under a key derived from the uid
// and the server-held salt, and a SHA-256 checksum of the plaintext guards
// against silent corruption since CBC is not authenticated.
type vaultService struct {
	records *store.Repository[models.EncryptedRecord]
	keys    crypto.KeyChain

	now     func() time.Time
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewVaultService(storages *store.Storages, keys crypto.KeyChain, m *metrics.Metrics, logger *logger.Logger) VaultService {
	return &vaultService{
		records: storages.Records,
		keys:    keys,
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}
}

// Seal encrypts data and stores it as the record of uid, replacing any
// previous record. Only the mall that minted uid may seal it.
func (v *vaultService) Seal(ctx context.Context, mallID, uid string, data models.PersonalData) (models.EncryptedRecord, error) {
	log := logger.FromContext(ctx)

	if !uidBelongsTo(uid, mallID) {
		log.Warn().Str("func", "vaultService.Seal").Str("mall_id", mallID).Msg("uid was not minted for mall")
		return models.EncryptedRecord{}, fmt.Errorf("%w: uid belongs to another mall", ErrForbidden)
	}

	plaintext, err := json.Marshal(data)
	if err != nil {
		return models.EncryptedRecord{}, fmt.Errorf("error encoding personal data: %w", err)
	}

	dek, err := v.keys.GenerateDEK()
	if err != nil {
		log.Err(err).Str("func", "vaultService.Seal").Msg("error generating data key")
		return models.EncryptedRecord{}, fmt.Errorf("error generating data key: %w", err)
	}

	encryptedData, err := v.keys.Encrypt(plaintext, dek)
	if err != nil {
		log.Err(err).Str("func", "vaultService.Seal").Msg("error encrypting personal data")
		return models.EncryptedRecord{}, fmt.Errorf("error encrypting personal data: %w", err)
	}

	encryptedKey, err := v.keys.WrapKey(dek, v.keys.DeriveKey(uid))
	if err != nil {
		log.Err(err).Str("func", "vaultService.Seal").Msg("error wrapping data key")
		return models.EncryptedRecord{}, fmt.Errorf("error wrapping data key: %w", err)
	}

	record := models.EncryptedRecord{
		UID:           uid,
		EncryptedData: encryptedData,
		EncryptedKey:  encryptedKey,
		Checksum:      v.keys.Hash(plaintext),
		CreatedAt:     v.now().UTC(),
	}

	if err = v.records.Put(ctx, uid, record); err != nil {
		log.Err(err).Str("func", "vaultService.Seal").Msg("error storing encrypted record")
		return models.EncryptedRecord{}, fmt.Errorf("error storing encrypted record: %w", err)
	}

	return record, nil
}

// Disclose decrypts record, verifies its checksum and returns only the
// fields the session allows. Every cryptographic failure is reported as
// ErrDecryptionFailed or ErrIntegrityMismatch without further detail.
func (v *vaultService) Disclose(ctx context.Context, session models.ViewerSession, record models.EncryptedRecord) (models.PersonalData, error) {
	data, err := v.open(ctx, session, record)
	if err != nil {
		v.metrics.IncDisclosure(metrics.ResultError)
		return nil, err
	}

	v.metrics.IncDisclosure(metrics.ResultOK)
	return data.Project(session.AllowedFields), nil
}

func (v *vaultService) Read(ctx context.Context, session models.ViewerSession) (models.PersonalData, error) {
	record, err := v.records.Get(ctx, session.UID)
	if err != nil {
		v.metrics.IncDisclosure(metrics.ResultRejected)
		return nil, fmt.Errorf("error loading encrypted record: %w", storeError(err))
	}
	return v.Disclose(ctx, session, record)
}

func (v *vaultService) open(ctx context.Context, session models.ViewerSession, record models.EncryptedRecord) (models.PersonalData, error) {
	log := logger.FromContext(ctx)

	if record.UID != session.UID {
		log.Error().Str("func", "vaultService.open").Msg("record does not belong to session owner")
		return nil, ErrIntegrityMismatch
	}

	dek, err := v.keys.UnwrapKey(record.EncryptedKey, v.keys.DeriveKey(record.UID))
	if err != nil {
		log.Err(err).Str("func", "vaultService.open").Msg("error unwrapping data key")
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	plaintext, err := v.keys.Decrypt(record.EncryptedData, dek)
	if err != nil {
		log.Err(err).Str("func", "vaultService.open").Msg("error decrypting record")
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	if !v.keys.VerifyIntegrity(plaintext, record.Checksum) {
		log.Error().Str("func", "vaultService.open").Msg("checksum mismatch")
		return nil, ErrIntegrityMismatch
	}

	var data models.PersonalData
	if err = json.Unmarshal(plaintext, &data); err != nil {
		log.Err(err).Str("func", "vaultService.open").Msg("error decoding record")
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return data, nil
}
