package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")

	ErrTokenExpired   = fmt.Errorf("token %w", ErrExpired)
	ErrSessionExpired = fmt.Errorf("session %w", ErrExpired)

	ErrMalformedToken        = errors.New("malformed token")
	ErrExtensionLimitReached = errors.New("extension limit reached")
	ErrDelegationAlreadyUsed = fmt.Errorf("%w: delegate token already used", ErrForbidden)

	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrIntegrityMismatch = errors.New("integrity check failed")

	ErrTokenCreationFailed   = errors.New("token creation failed")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
