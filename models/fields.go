// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"slices"
	"sort"
)

// FieldName identifies one disclosable attribute of a person's contact data.
type FieldName string

const (
	// FieldNameName is the recipient's full name.
	FieldNameName FieldName = "name"

	// FieldPhone is the recipient's phone number.
	FieldPhone FieldName = "phone"

	// FieldAddress is the recipient's postal address.
	FieldAddress FieldName = "address"
)

// KnownFields lists every field the vault knows how to store and disclose.
var KnownFields = []FieldName{FieldNameName, FieldPhone, FieldAddress}

// IsKnown reports whether f is one of [KnownFields].
func (f FieldName) IsKnown() bool {
	return slices.Contains(KnownFields, f)
}

// FieldSet is an ordered, duplicate-free list of field names.
type FieldSet []FieldName

// NewFieldSet builds a FieldSet from raw strings, dropping duplicates and
// sorting the result so equal sets compare equal.
func NewFieldSet(fields ...string) FieldSet {
	set := make(FieldSet, 0, len(fields))
	for _, f := range fields {
		name := FieldName(f)
		if !slices.Contains(set, name) {
			set = append(set, name)
		}
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set
}

// Contains reports whether f is a member of the set.
func (s FieldSet) Contains(f FieldName) bool {
	return slices.Contains(s, f)
}

// Intersect returns the members of s that are also members of other,
// preserving the order of s.
func (s FieldSet) Intersect(other FieldSet) FieldSet {
	result := make(FieldSet, 0, len(s))
	for _, f := range s {
		if other.Contains(f) && !result.Contains(f) {
			result = append(result, f)
		}
	}
	return result
}

// SubsetOf reports whether every member of s is also in other.
func (s FieldSet) SubsetOf(other FieldSet) bool {
	for _, f := range s {
		if !other.Contains(f) {
			return false
		}
	}
	return true
}

// Strings returns the set as plain strings, e.g. for JWT claims.
func (s FieldSet) Strings() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = string(f)
	}
	return out
}
