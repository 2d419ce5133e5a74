// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClass distinguishes the three JWT families the broker issues. Each
// class has its own signing algorithm, key and claim schema; verification
// always names the class it expects.
type TokenClass int

const (
	// MallSessionToken is issued to a mall for one of its users (HS256, system key).
	MallSessionToken TokenClass = iota + 1

	// DelegateToken lets a delivery partner open exactly one viewer session
	// (ES256, broker private key).
	DelegateToken

	// PartnerToken carries a nested delegate token to the partner (HS256,
	// environment-held partner key).
	PartnerToken
)

// String returns the class label used in logs, metrics and the audience claim.
func (c TokenClass) String() string {
	switch c {
	case MallSessionToken:
		return "mall-session"
	case DelegateToken:
		return "delegate"
	case PartnerToken:
		return "partner"
	default:
		return "unknown"
	}
}

var errMissingClaim = errors.New("required claim is missing")

// MallSessionClaims is the claim set of a [MallSessionToken].
type MallSessionClaims struct {
	UID         string      `json:"uid"`
	MallID      string      `json:"mallId"`
	SessionType SessionType `json:"sessionType"`
	jwt.RegisteredClaims
}

// Validate implements jwt.ClaimsValidator.
func (c MallSessionClaims) Validate() error {
	if c.UID == "" || c.MallID == "" || !c.SessionType.Valid() {
		return errMissingClaim
	}
	return nil
}

// DelegateClaims is the claim set of a [DelegateToken]. Subject carries the
// data owner's uid and ID the token identifier consumed on first use.
type DelegateClaims struct {
	ShopID  string   `json:"shopId"`
	MallID  string   `json:"mallId"`
	Fields  []string `json:"fields"`
	OneTime bool     `json:"one_time"`
	jwt.RegisteredClaims
}

// Validate implements jwt.ClaimsValidator.
func (c DelegateClaims) Validate() error {
	if c.ShopID == "" || c.MallID == "" || c.Subject == "" || c.ID == "" || len(c.Fields) == 0 {
		return errMissingClaim
	}
	return nil
}

// PartnerClaims is the claim set of a [PartnerToken].
type PartnerClaims struct {
	ShopID      string `json:"shopId"`
	MallID      string `json:"mallId"`
	Purpose     string `json:"purpose"`
	DelegateJWT string `json:"delegateJwt"`
	jwt.RegisteredClaims
}

// Validate implements jwt.ClaimsValidator.
func (c PartnerClaims) Validate() error {
	if c.ShopID == "" || c.MallID == "" || c.DelegateJWT == "" {
		return errMissingClaim
	}
	return nil
}

// Token is a signed JWT together with its lifetime.
type Token struct {
	Class        TokenClass
	SignedString string

	// ID is the jti claim; only delegate tokens carry one.
	ID string

	ExpiresAt time.Time
	ExpiresIn int64
}

// String returns the compact serialization.
func (t Token) String() string {
	return t.SignedString
}
