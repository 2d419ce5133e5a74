// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcWorker adapts a function to the Worker interface.
type funcWorker func(ctx context.Context) error

func (f funcWorker) Run(ctx context.Context) error {
	return f(ctx)
}

func TestWorkers_Run_AllWorkersAreStarted(t *testing.T) {
	var started atomic.Int32
	blocking := funcWorker(func(ctx context.Context) error {
		started.Add(1)
		<-ctx.Done()
		return nil
	})

	ws := &Workers{workers: []Worker{blocking, blocking, blocking}}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- ws.Run(ctx) }()

	require.Eventually(t, func() bool { return started.Load() == 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{}

	assert.NoError(t, ws.Run(context.Background()))
}

func TestWorkers_Run_FirstErrorStopsOthers(t *testing.T) {
	boom := errors.New("boom")
	failing := funcWorker(func(context.Context) error { return boom })
	blocking := funcWorker(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	ws := &Workers{workers: []Worker{blocking, failing}}

	err := ws.Run(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestNewWorkers_ZeroIntervalsDisableWorkers(t *testing.T) {
	ws := NewWorkers(&service.Services{}, nil, nil, config.Workers{}, nil, logger.Nop())

	assert.Empty(t, ws.workers)
}

func TestNewWorkers_EnabledWorkers(t *testing.T) {
	cfg := config.Workers{JanitorInterval: time.Minute, HealthProbeInterval: time.Second}

	ws := NewWorkers(&service.Services{}, nil, nil, cfg, nil, logger.Nop())

	require.Len(t, ws.workers, 2)
	assert.IsType(t, &Janitor{}, ws.workers[0])
	assert.IsType(t, &HealthProbe{}, ws.workers[1])
}
