// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks broker requests before they reach the services.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//   - NormalizeDomain / ValidMallID: the canonical forms the mall registry
//     stores and compares against.
//
// Validators return field-level sentinel errors; the service layer wraps
// them into its own ErrInvalidInput before they reach a transport.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
