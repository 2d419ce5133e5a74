// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"net/mail"
	"strings"

	"github.com/MKhiriev/ssdm-gateway/models"
)

// Field name constants used to restrict validation to a subset of a request.
const (
	// FieldMallID targets the mall slug.
	FieldMallID = "mall_id"

	// FieldMallName targets the human-readable mall name.
	FieldMallName = "mall_name"

	// FieldAllowedFields targets the mall's disclosure ceiling.
	FieldAllowedFields = "allowed_fields"

	// FieldAllowedDomains targets the mall's trusted origins.
	FieldAllowedDomains = "allowed_domains"

	// FieldContactEmail targets the optional mall contact address.
	FieldContactEmail = "contact_email"

	FieldExternalUserID = "external_user_id"
	FieldSessionType    = "session_type"
	FieldUID            = "uid"
	FieldShopID         = "shop_id"
	FieldConsentType    = "consent_type"

	// FieldOptionalConsentType accepts an empty consent type but rejects
	// anything other than once/always when one is given.
	FieldOptionalConsentType = "optional_consent_type"

	// FieldOptionalSessionType is the same relaxation for session types.
	FieldOptionalSessionType = "optional_session_type"

	FieldPurpose     = "purpose"
	FieldJWT         = "jwt"
	FieldDelegateJWT = "delegate_jwt"

	// FieldPersonalData targets the plaintext record sealed into the vault.
	FieldPersonalData = "personal_data"
)

// maxFieldValueLen caps a single personal data value.
const maxFieldValueLen = 1024

// RequestValidator implements Validator for every broker request DTO.
// Both value and pointer forms are accepted.
type RequestValidator struct{}

// NewRequestValidator returns a RequestValidator as the Validator interface.
func NewRequestValidator() Validator {
	return &RequestValidator{}
}

// Validate dispatches on the dynamic type of obj. When no fields are named,
// the default set for that type is checked. The first failing check wins.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.MallRegistration:
		return v.validateMallRegistration(ctx, value, fields...)
	case *models.MallRegistration:
		return v.validateMallRegistration(ctx, *value, fields...)

	case models.UIDRequest:
		return v.validateUIDRequest(ctx, value, fields...)
	case *models.UIDRequest:
		return v.validateUIDRequest(ctx, *value, fields...)

	case models.JWTRequest:
		return v.validateJWTRequest(ctx, value, fields...)
	case *models.JWTRequest:
		return v.validateJWTRequest(ctx, *value, fields...)

	case models.ConsentRequest:
		return v.validateConsentRequest(ctx, value, fields...)
	case *models.ConsentRequest:
		return v.validateConsentRequest(ctx, *value, fields...)

	case models.DelegationRequest:
		return v.validateDelegationRequest(ctx, value, fields...)
	case *models.DelegationRequest:
		return v.validateDelegationRequest(ctx, *value, fields...)

	case models.SessionRequest:
		return v.validateSessionRequest(ctx, value, fields...)
	case *models.SessionRequest:
		return v.validateSessionRequest(ctx, *value, fields...)

	case models.DelegatedSessionRequest:
		return v.validateDelegatedSessionRequest(ctx, value, fields...)
	case *models.DelegatedSessionRequest:
		return v.validateDelegatedSessionRequest(ctx, *value, fields...)

	case models.PersonalData:
		return v.validatePersonalData(ctx, value, fields...)
	case *models.PersonalData:
		return v.validatePersonalData(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateMallRegistration checks an administrative registration.
//
// Default fields: MallID, MallName, AllowedFields, AllowedDomains, ContactEmail.
func (v *RequestValidator) validateMallRegistration(ctx context.Context, reg models.MallRegistration, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldMallID, FieldMallName, FieldAllowedFields, FieldAllowedDomains, FieldContactEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldMallID:
			if !ValidMallID(reg.MallID) {
				return ErrInvalidMallID
			}
		case FieldMallName:
			if strings.TrimSpace(reg.MallName) == "" {
				return ErrEmptyMallName
			}
		case FieldAllowedFields:
			if len(reg.AllowedFields) == 0 {
				return ErrEmptyAllowedFields
			}
			for _, name := range reg.AllowedFields {
				if !models.FieldName(name).IsKnown() {
					return ErrUnknownFieldName
				}
			}
		case FieldAllowedDomains:
			if len(reg.AllowedDomains) == 0 {
				return ErrEmptyAllowedDomains
			}
			if _, err := NormalizeDomains(reg.AllowedDomains); err != nil {
				return err
			}
		case FieldContactEmail:
			if reg.ContactEmail == "" {
				continue
			}
			if _, err := mail.ParseAddress(reg.ContactEmail); err != nil {
				return ErrInvalidContactAddress
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateUIDRequest(ctx context.Context, req models.UIDRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldExternalUserID}
	}

	for _, f := range fields {
		switch f {
		case FieldExternalUserID:
			if strings.TrimSpace(req.ExternalUserID) == "" {
				return ErrEmptyExternalUserID
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateJWTRequest(ctx context.Context, req models.JWTRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldExternalUserID, FieldSessionType}
	}

	for _, f := range fields {
		switch f {
		case FieldExternalUserID:
			if strings.TrimSpace(req.ExternalUserID) == "" {
				return ErrEmptyExternalUserID
			}
		case FieldSessionType:
			if !req.SessionType.Valid() {
				return ErrInvalidSessionType
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateConsentRequest checks consent save/check/revoke input. Check and
// revoke carry no consent type, so their callers pass FieldUID and FieldShopID
// explicitly.
func (v *RequestValidator) validateConsentRequest(ctx context.Context, req models.ConsentRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUID, FieldShopID, FieldConsentType}
	}

	for _, f := range fields {
		switch f {
		case FieldUID:
			if req.UID == "" {
				return ErrEmptyUID
			}
		case FieldShopID:
			if strings.TrimSpace(req.ShopID) == "" {
				return ErrEmptyShopID
			}
		case FieldConsentType:
			if !req.ConsentType.Valid() {
				return ErrInvalidConsentType
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateDelegationRequest(ctx context.Context, req models.DelegationRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUID, FieldShopID, FieldPurpose, FieldOptionalConsentType}
	}

	for _, f := range fields {
		switch f {
		case FieldUID:
			if req.UID == "" {
				return ErrEmptyUID
			}
		case FieldShopID:
			if strings.TrimSpace(req.ShopID) == "" {
				return ErrEmptyShopID
			}
		case FieldPurpose:
			if strings.TrimSpace(req.Purpose) == "" {
				return ErrEmptyPurpose
			}
		case FieldOptionalConsentType:
			if req.ConsentType != "" && !req.ConsentType.Valid() {
				return ErrInvalidConsentType
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateSessionRequest(ctx context.Context, req models.SessionRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldJWT, FieldOptionalSessionType}
	}

	for _, f := range fields {
		switch f {
		case FieldJWT:
			if req.JWT == "" {
				return ErrEmptyToken
			}
		case FieldOptionalSessionType:
			if req.SessionType != "" && !req.SessionType.Valid() {
				return ErrInvalidSessionType
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateDelegatedSessionRequest(ctx context.Context, req models.DelegatedSessionRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDelegateJWT, FieldSessionType}
	}

	for _, f := range fields {
		switch f {
		case FieldDelegateJWT:
			switch {
			case req.DelegateJWT == "" && req.PartnerJWT == "":
				return ErrEmptyToken
			case req.DelegateJWT != "" && req.PartnerJWT != "":
				return ErrAmbiguousToken
			}
		case FieldSessionType:
			if !req.SessionType.Valid() {
				return ErrInvalidSessionType
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validatePersonalData(ctx context.Context, data models.PersonalData, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPersonalData}
	}

	for _, f := range fields {
		switch f {
		case FieldPersonalData:
			if len(data) == 0 {
				return ErrEmptyPersonalData
			}
			for name, value := range data {
				if !name.IsKnown() {
					return ErrUnknownFieldName
				}
				if strings.TrimSpace(value) == "" {
					return ErrInvalidPersonalData
				}
				if len(value) > maxFieldValueLen {
					return ErrFieldValueTooLong
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
