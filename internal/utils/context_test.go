// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestMallIDCtxKey(t *testing.T) {
	if MallIDCtxKey.String() != "mallID" {
		t.Errorf("expected 'mallID', got '%s'", MallIDCtxKey.String())
	}
}

func TestGetMallIDFromContext_Success(t *testing.T) {
	ctx := WithMallID(context.Background(), "shop-a")

	mallID, ok := GetMallIDFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if mallID != "shop-a" {
		t.Errorf("expected mallID=shop-a, got %s", mallID)
	}
}

func TestGetMallIDFromContext_Missing(t *testing.T) {
	mallID, ok := GetMallIDFromContext(context.Background())

	if ok {
		t.Fatal("expected ok=false, got true")
	}
	if mallID != "" {
		t.Errorf("expected empty mallID, got %s", mallID)
	}
}

func TestGetMallIDFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), MallIDCtxKey, 42)

	if _, ok := GetMallIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for wrong type, got true")
	}
}

func TestGetMallIDFromContext_Empty(t *testing.T) {
	ctx := WithMallID(context.Background(), "")

	if _, ok := GetMallIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for empty value, got true")
	}
}

func TestGetMallIDFromContext_DifferentKey(t *testing.T) {
	otherKey := contextKey("otherKey")
	ctx := context.WithValue(context.Background(), otherKey, "shop-a")

	if _, ok := GetMallIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for different key, got true")
	}
}
