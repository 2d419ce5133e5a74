// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// credential headers. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the API key middleware when
	// the incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but is not of the form "Bearer <credential>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the "Authorization" header contains the
	// expected scheme but the credential itself is an empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")

	// ErrInvalidAdminToken is returned when the "X-Admin-Token" header is
	// missing or does not match the configured admin credential.
	ErrInvalidAdminToken = errors.New("invalid `X-Admin-Token` header")

	// ErrMallMismatch is returned when a request names a mall other than the
	// one its API key belongs to.
	ErrMallMismatch = errors.New("mall does not match api key")
)
