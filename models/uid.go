// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// UIDMapping links a mall's own user identifier to the broker's internal,
// stable identifier. It is created once and never mutated.
type UIDMapping struct {
	MallID         string    `json:"mallId"`
	ExternalUserID string    `json:"externalUserId"`
	InternalUID    string    `json:"internalUid"`
	CreatedAt      time.Time `json:"createdAt"`
	IsActive       bool      `json:"isActive"`
}
