package http

import (
	"testing"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svc, config.App{AdminToken: "a", PartnerOrigin: "https://p.example.com"}, nil, nil, log)

	require.NotNil(t, h)
	assert.Same(t, svc, h.services)
	assert.Same(t, log, h.logger)
	assert.Equal(t, "a", h.adminToken)
	assert.Equal(t, "https://p.example.com", h.partnerOrigin)
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	h1 := NewHandler(&service.Services{}, config.App{}, nil, nil, logger.Nop())
	h2 := NewHandler(&service.Services{}, config.App{}, nil, nil, logger.Nop())

	assert.NotSame(t, h1, h2)
}
