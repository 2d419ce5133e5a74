// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, hashing,
// random token generation, HTTP request/response JSON handling and
// HTTP client initialization.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// MallIDCtxKey is the key under which the API-key middleware stores the
// authenticated mall identifier.
//
// Example of writing a value to the context:
//
//	ctx := utils.WithMallID(ctx, "shop-a")
var MallIDCtxKey = contextKey("mallID")

// WithMallID returns a copy of ctx carrying mallID.
func WithMallID(ctx context.Context, mallID string) context.Context {
	return context.WithValue(ctx, MallIDCtxKey, mallID)
}

// GetMallIDFromContext retrieves the authenticated mall identifier from the
// context.
//
// Returns the mall ID and an ok flag:
//   - ok == true : value is found, is a string and is not empty
//   - ok == false: value is missing, empty or has an unexpected type
func GetMallIDFromContext(ctx context.Context) (string, bool) {
	mallID, ok := ctx.Value(MallIDCtxKey).(string)
	return mallID, ok && mallID != ""
}
