// Package http implements the HTTP transport layer of the broker.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, logging, tracing, compression and CORS
// concerns are all handled at this layer before requests are forwarded to
// the service layer.
package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/service"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
)

const adminTokenHeader = "X-Admin-Token"

// apiKeyAuth is an HTTP middleware that authenticates a mall by its API key.
//
// It extracts the bearer credential from the "Authorization" header, resolves
// it via [service.MallService.ResolveAPIKey] and, on success, stores the
// mall ID in the request context with [utils.WithMallID].
//
// Header problems are answered with 401 directly. Resolution errors go
// through the error mapper, so an unknown, expired or deactivated key is a
// 401 while a failing store is a 500.
func (h *Handler) apiKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		apiKey, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		mall, err := h.services.MallService.ResolveAPIKey(ctx, apiKey)
		if err != nil {
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithMallID(ctx, mall.MallID)))
	})
}

// adminAuth guards mall administration. The X-Admin-Token header must equal
// the configured admin token; an unset admin token locks the routes.
func (h *Handler) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(adminTokenHeader)
		if h.adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			logger.FromRequest(r).Warn().Err(ErrInvalidAdminToken).Send()
			http.Error(w, ErrInvalidAdminToken.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getTokenFromAuthHeader extracts the bearer credential from a raw
// "Authorization" header value of the form "Bearer <credential>". The scheme
// is matched case-insensitively.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimLeft(authHeader, " "), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// mallIDFromRequest returns the mall authenticated by apiKeyAuth.
func mallIDFromRequest(r *http.Request) (string, error) {
	mallID, ok := utils.GetMallIDFromContext(r.Context())
	if !ok {
		return "", service.ErrUnauthorized
	}
	return mallID, nil
}
