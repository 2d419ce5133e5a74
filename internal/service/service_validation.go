package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ssdm-gateway/internal/validators"
	"github.com/MKhiriev/ssdm-gateway/models"
)

// invalid wraps a validator error into ErrInvalidInput.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// ── mall registry ──

type MallValidationService struct {
	MallService
	validator validators.Validator
}

func NewMallValidationService() MallServiceWrapper {
	return &MallValidationService{validator: validators.NewRequestValidator()}
}

func (v *MallValidationService) Register(ctx context.Context, registration models.MallRegistration) (models.IssuedAPIKey, error) {
	if err := v.validator.Validate(ctx, registration); err != nil {
		return models.IssuedAPIKey{}, invalid(err)
	}
	return v.MallService.Register(ctx, registration)
}

func (v *MallValidationService) Wrap(inner MallService) MallService {
	v.MallService = inner
	return v
}

// ── uid mapping ──

type UIDValidationService struct {
	inner     UIDService
	validator validators.Validator
}

func NewUIDValidationService() UIDServiceWrapper {
	return &UIDValidationService{validator: validators.NewRequestValidator()}
}

func (v *UIDValidationService) GetOrCreateUID(ctx context.Context, mallID, externalUserID string) (models.UIDMapping, bool, error) {
	if err := v.validator.Validate(ctx, models.UIDRequest{ExternalUserID: externalUserID}); err != nil {
		return models.UIDMapping{}, false, invalid(err)
	}
	return v.inner.GetOrCreateUID(ctx, mallID, externalUserID)
}

func (v *UIDValidationService) Wrap(inner UIDService) UIDService {
	v.inner = inner
	return v
}

// ── consent ──

type ConsentValidationService struct {
	ConsentService
	validator validators.Validator
}

func NewConsentValidationService() ConsentServiceWrapper {
	return &ConsentValidationService{validator: validators.NewRequestValidator()}
}

func (v *ConsentValidationService) Save(ctx context.Context, uid, mallID, shopID string, consentType models.ConsentType) (models.Consent, error) {
	request := models.ConsentRequest{UID: uid, ShopID: shopID, ConsentType: consentType}
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.Consent{}, invalid(err)
	}
	return v.ConsentService.Save(ctx, uid, mallID, shopID, consentType)
}

func (v *ConsentValidationService) Check(ctx context.Context, uid, mallID, shopID string) (models.ConsentState, error) {
	request := models.ConsentRequest{UID: uid, ShopID: shopID}
	if err := v.validator.Validate(ctx, request, validators.FieldUID, validators.FieldShopID); err != nil {
		return models.ConsentState{}, invalid(err)
	}
	return v.ConsentService.Check(ctx, uid, mallID, shopID)
}

func (v *ConsentValidationService) Revoke(ctx context.Context, uid, mallID, shopID string) error {
	request := models.ConsentRequest{UID: uid, ShopID: shopID}
	if err := v.validator.Validate(ctx, request, validators.FieldUID, validators.FieldShopID); err != nil {
		return invalid(err)
	}
	return v.ConsentService.Revoke(ctx, uid, mallID, shopID)
}

func (v *ConsentValidationService) Wrap(inner ConsentService) ConsentService {
	v.ConsentService = inner
	return v
}

// ── delegation ──

type DelegationValidationService struct {
	inner     DelegationService
	validator validators.Validator
}

func NewDelegationValidationService() DelegationServiceWrapper {
	return &DelegationValidationService{validator: validators.NewRequestValidator()}
}

func (v *DelegationValidationService) IssueMallSession(ctx context.Context, mallID string, request models.JWTRequest) (models.JWTResponse, error) {
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.JWTResponse{}, invalid(err)
	}
	return v.inner.IssueMallSession(ctx, mallID, request)
}

func (v *DelegationValidationService) Delegate(ctx context.Context, mallID string, request models.DelegationRequest) (models.DelegationResponse, error) {
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.DelegationResponse{}, invalid(err)
	}
	return v.inner.Delegate(ctx, mallID, request)
}

func (v *DelegationValidationService) Wrap(inner DelegationService) DelegationService {
	v.inner = inner
	return v
}

// ── viewer sessions ──

type SessionValidationService struct {
	SessionService
	validator validators.Validator
}

func NewSessionValidationService() SessionServiceWrapper {
	return &SessionValidationService{validator: validators.NewRequestValidator()}
}

func (v *SessionValidationService) RequestSession(ctx context.Context, request models.SessionRequest) (models.ViewerSession, error) {
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.ViewerSession{}, invalid(err)
	}
	return v.SessionService.RequestSession(ctx, request)
}

func (v *SessionValidationService) RequestDelegatedSession(ctx context.Context, request models.DelegatedSessionRequest) (models.ViewerSession, error) {
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.ViewerSession{}, invalid(err)
	}
	return v.SessionService.RequestDelegatedSession(ctx, request)
}

func (v *SessionValidationService) Wrap(inner SessionService) SessionService {
	v.SessionService = inner
	return v
}

// ── vault ──

type VaultValidationService struct {
	VaultService
	validator validators.Validator
}

func NewVaultValidationService() VaultServiceWrapper {
	return &VaultValidationService{validator: validators.NewRequestValidator()}
}

func (v *VaultValidationService) Seal(ctx context.Context, mallID, uid string, data models.PersonalData) (models.EncryptedRecord, error) {
	if uid == "" {
		return models.EncryptedRecord{}, invalid(validators.ErrEmptyUID)
	}
	if err := v.validator.Validate(ctx, data); err != nil {
		return models.EncryptedRecord{}, invalid(err)
	}
	return v.VaultService.Seal(ctx, mallID, uid, data)
}

func (v *VaultValidationService) Wrap(inner VaultService) VaultService {
	v.VaultService = inner
	return v
}
