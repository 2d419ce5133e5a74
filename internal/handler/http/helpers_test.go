package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
	"github.com/MKhiriev/ssdm-gateway/internal/service"
	"github.com/MKhiriev/ssdm-gateway/internal/store"
	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	testAdminToken    = "admin-token"
	testPartnerOrigin = "https://partner.example.com"
)

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App: config.App{
			AdminToken:         testAdminToken,
			APIKeyHashKey:      "api-key-hash-key",
			TokenIssuer:        "ssdm-test",
			MallSessionSignKey: "mall-session-key-0123456789abcdef0123",
			PartnerSignKey:     "partner-sign-key-0123456789abcdef01234",
			VaultSalt:          "vault-salt",
			VaultIterations:    1000,
			ViewerBaseURL:      "https://view.example.com",
			PartnerOrigin:      testPartnerOrigin,
			Version:            "1.2.3",
		},
	}
}

// ─────────────────────────────────────────────
// Function-field service mocks
// ─────────────────────────────────────────────

// mockAppInfoService implements service.AppInfoService for testing.
type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

func (m *mockAppInfoService) GetBuildInfo(_ context.Context) models.AppBuildInfo {
	return models.NewAppBuildInfo(m.version, "", "")
}

// mockMallService implements service.MallService. Unset functions panic,
// which fails the test that unexpectedly reached them.
type mockMallService struct {
	service.MallService

	resolveAPIKeyFn  func(ctx context.Context, apiKey string) (models.Mall, error)
	validateDomainFn func(ctx context.Context, mallID, rawURL string) (bool, error)
}

func (m *mockMallService) ResolveAPIKey(ctx context.Context, apiKey string) (models.Mall, error) {
	return m.resolveAPIKeyFn(ctx, apiKey)
}

func (m *mockMallService) ValidateDomain(ctx context.Context, mallID, rawURL string) (bool, error) {
	return m.validateDomainFn(ctx, mallID, rawURL)
}

// ─────────────────────────────────────────────
// Full stack
// ─────────────────────────────────────────────

// testAPI is the router over real services on an in-memory store.
type testAPI struct {
	t        *testing.T
	server   *httptest.Server
	registry *prometheus.Registry
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := testConfig()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	services, err := service.NewServices(store.NewStorages(store.NewMemoryStore()), cfg, m, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)

	h := NewHandler(services, cfg.App, m, registry, logger.Nop())
	server := httptest.NewServer(h.Init())
	t.Cleanup(server.Close)

	return &testAPI{t: t, server: server, registry: registry}
}

// do sends body as JSON with the given headers and returns the response with
// its body read.
func (a *testAPI) do(method, path string, body any, headers map[string]string) (*http.Response, []byte) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(a.t, err)

	return resp, buf.Bytes()
}

func admin() map[string]string {
	return map[string]string{adminTokenHeader: testAdminToken}
}

func bearer(key string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + key}
}

// registerMall registers mallID through the admin API and returns its key.
func (a *testAPI) registerMall(mallID string, fields ...string) string {
	a.t.Helper()

	resp, body := a.do(http.MethodPost, "/malls", models.MallRegistration{
		MallName:       mallID,
		MallID:         mallID,
		AllowedFields:  fields,
		AllowedDomains: []string{mallID + ".example.com"},
	}, admin())
	require.Equal(a.t, http.StatusCreated, resp.StatusCode, string(body))

	var issued models.IssuedAPIKey
	require.NoError(a.t, json.Unmarshal(body, &issued))
	return issued.APIKey
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}
