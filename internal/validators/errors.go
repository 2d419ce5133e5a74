package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidMallID         = errors.New("mallId must match ^[a-z0-9-]{3,20}$")
	ErrEmptyMallName         = errors.New("mallName is required")
	ErrEmptyAllowedFields    = errors.New("allowedFields cannot be empty")
	ErrUnknownFieldName      = errors.New("unknown field name")
	ErrEmptyAllowedDomains   = errors.New("allowedDomains cannot be empty")
	ErrInvalidDomain         = errors.New("invalid domain")
	ErrEmptyExternalUserID   = errors.New("externalUserId is required")
	ErrInvalidSessionType    = errors.New("sessionType must be paper or qr")
	ErrEmptyUID              = errors.New("uid is required")
	ErrEmptyShopID           = errors.New("shopId is required")
	ErrInvalidConsentType    = errors.New("consentType must be once or always")
	ErrEmptyPurpose          = errors.New("purpose is required")
	ErrEmptyToken            = errors.New("token is required")
	ErrAmbiguousToken        = errors.New("exactly one of delegateJwt and partnerJwt is required")
	ErrEmptyPersonalData     = errors.New("personal data cannot be empty")
	ErrInvalidPersonalData   = errors.New("personal data values cannot be blank")
	ErrFieldValueTooLong     = errors.New("field value is too long")
	ErrInvalidContactAddress = errors.New("invalid contact email")
)
