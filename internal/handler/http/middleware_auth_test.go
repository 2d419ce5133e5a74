package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/service"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestHandler(malls service.MallService) *Handler {
	return NewHandler(&service.Services{MallService: malls}, config.App{AdminToken: testAdminToken}, nil, nil, logger.Nop())
}

// captureMall is a terminal handler recording the mall id it saw.
func captureMall(seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = utils.GetMallIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// ─────────────────────────────────────────────
// apiKeyAuth
// ─────────────────────────────────────────────

func TestAPIKeyAuth(t *testing.T) {
	malls := &mockMallService{
		resolveAPIKeyFn: func(_ context.Context, apiKey string) (models.Mall, error) {
			switch apiKey {
			case "ssdm_good":
				return models.Mall{MallID: "shop-a"}, nil
			case "ssdm_broken_store":
				return models.Mall{}, errors.New("connection refused")
			default:
				return models.Mall{}, service.ErrUnauthorized
			}
		},
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMall   string
	}{
		{name: "valid key", header: "Bearer ssdm_good", wantStatus: http.StatusOK, wantMall: "shop-a"},
		{name: "lowercase scheme", header: "bearer ssdm_good", wantStatus: http.StatusOK, wantMall: "shop-a"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic ssdm_good", wantStatus: http.StatusUnauthorized},
		{name: "no credential", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "unknown key", header: "Bearer ssdm_other", wantStatus: http.StatusUnauthorized},
		{name: "store failure", header: "Bearer ssdm_broken_store", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var seen string
			handler := newAuthTestHandler(malls).apiKeyAuth(captureMall(&seen))

			req := httptest.NewRequest(http.MethodPost, "/uids", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			// Act
			handler.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMall, seen)
		})
	}
}

// ─────────────────────────────────────────────
// adminAuth
// ─────────────────────────────────────────────

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{name: "matching token", configured: testAdminToken, header: testAdminToken, wantStatus: http.StatusOK},
		{name: "wrong token", configured: testAdminToken, header: "nope", wantStatus: http.StatusUnauthorized},
		{name: "missing header", configured: testAdminToken, header: "", wantStatus: http.StatusUnauthorized},
		{name: "unconfigured admin token locks the routes", configured: "", header: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&service.Services{}, config.App{AdminToken: tt.configured}, nil, nil, logger.Nop())
			handler := h.adminAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/malls", nil)
			if tt.header != "" {
				req.Header.Set(adminTokenHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

// ─────────────────────────────────────────────
// getTokenFromAuthHeader
// ─────────────────────────────────────────────

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "  Bearer   abc  ", want: "abc"},
		{header: "BEARER abc", want: "abc"},
		{header: "abc", wantErr: ErrInvalidAuthorizationHeader},
		{header: "Token abc", wantErr: ErrInvalidAuthorizationHeader},
		{header: "Bearer    ", wantErr: ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMallIDFromRequest_Unauthenticated(t *testing.T) {
	_, err := mallIDFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))

	require.ErrorIs(t, err, service.ErrUnauthorized)
}
