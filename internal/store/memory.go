// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"strings"
	"sync"
)

// memoryStore is a process-local [KeyValueStore]. A single mutex makes every
// operation, including Update's callback, atomic.
type memoryStore struct {
	mu      sync.Mutex
	records map[string][]byte
}

// NewMemoryStore returns an empty in-memory [KeyValueStore]. Values are
// copied on the way in and out so callers cannot mutate stored bytes.
func NewMemoryStore() KeyValueStore {
	return &memoryStore{records: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(value), nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = bytes.Clone(value)
	return nil
}

func (s *memoryStore) SetIfAbsent(_ context.Context, key string, value []byte) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.records[key]; ok {
		return bytes.Clone(current), false, nil
	}
	s.records[key] = bytes.Clone(value)
	return bytes.Clone(value), true, nil
}

func (s *memoryStore) Update(_ context.Context, key string, fn UpdateFunc) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}

	next, err := fn(bytes.Clone(current))
	if err != nil {
		return nil, err
	}
	s.records[key] = bytes.Clone(next)
	return bytes.Clone(next), nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *memoryStore) DeleteIf(_ context.Context, key string, expected []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[key]
	if !ok || !bytes.Equal(current, expected) {
		return false, nil
	}
	delete(s.records, key)
	return true, nil
}

// Scan snapshots matching records first so fn may call back into the store.
func (s *memoryStore) Scan(ctx context.Context, prefix string, fn ScanFunc) error {
	s.mu.Lock()
	snapshot := make(map[string][]byte)
	for key, value := range s.records {
		if strings.HasPrefix(key, prefix) {
			snapshot[key] = bytes.Clone(value)
		}
	}
	s.mu.Unlock()

	for key, value := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryStore) Ping(context.Context) error { return nil }

func (s *memoryStore) Close() error { return nil }
