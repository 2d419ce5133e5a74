// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

const testHashKey = "test-secret-key"

func TestHashString_MatchesHMAC(t *testing.T) {
	data := "ssdm_live_0123456789abcdef"

	got := HashString(data, testHashKey)

	mac := hmac.New(sha256.New, []byte(testHashKey))
	mac.Write([]byte(data))
	want := hex.EncodeToString(mac.Sum(nil))

	if got != want {
		t.Errorf("HashString mismatch:\n  got:  %s\n  want: %s", got, want)
	}
}

func TestHashString_Deterministic(t *testing.T) {
	if HashString("key", testHashKey) != HashString("key", testHashKey) {
		t.Fatal("hash must be deterministic for the same input")
	}
}

func TestHashString_DependsOnKey(t *testing.T) {
	if HashString("key", "k1") == HashString("key", "k2") {
		t.Fatal("different hash keys must produce different digests")
	}
}

func TestHashString_DifferentInputs(t *testing.T) {
	if HashString("a", testHashKey) == HashString("b", testHashKey) {
		t.Fatal("different inputs must produce different digests")
	}
}

func TestEqualHash(t *testing.T) {
	h := HashString("key", testHashKey)

	if !EqualHash(h, h) {
		t.Error("expected equal digests to compare equal")
	}
	if EqualHash(h, HashString("other", testHashKey)) {
		t.Error("expected different digests to compare unequal")
	}
	if EqualHash(h, "") {
		t.Error("expected empty digest to compare unequal")
	}
}
