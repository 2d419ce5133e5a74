package service

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/crypto"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
	"github.com/MKhiriev/ssdm-gateway/internal/store"
	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// testClock is a settable clock shared by every service of a harness.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testAppConfig() config.App {
	return config.App{
		AdminToken:         "admin-token",
		APIKeyHashKey:      "api-key-hash-key",
		TokenIssuer:        "ssdm-test",
		MallSessionSignKey: "mall-session-key-0123456789abcdef0123",
		PartnerSignKey:     "partner-sign-key-0123456789abcdef01234",
		VaultSalt:          "vault-salt",
		VaultIterations:    1000,
		ViewerBaseURL:      "https://view.example.com/",
		Version:            "test",
	}
}

// harness wires the unwrapped services onto one in-memory store and one
// clock.
type harness struct {
	clock    *testClock
	storages *store.Storages

	malls       *mallService
	uids        *uidService
	consents    *consentService
	tokens      *tokenService
	delegations *delegationService
	sessions    *sessionService
	vault       *vaultService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := testAppConfig()
	log := logger.Nop()
	m := metrics.New(nil)
	clock := &testClock{t: t0}
	storages := store.NewStorages(store.NewMemoryStore())

	delegateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	h := &harness{clock: clock, storages: storages}

	h.malls = NewMallService(storages, cfg, log).(*mallService)
	h.malls.now = clock.Now

	h.uids = NewUIDService(storages, log).(*uidService)
	h.uids.now = clock.Now

	h.consents = NewConsentService(storages, log).(*consentService)
	h.consents.now = clock.Now

	h.tokens = newTokenService(cfg.TokenIssuer, []byte(cfg.MallSessionSignKey), []byte(cfg.PartnerSignKey), delegateKey, m, log)
	h.tokens.now = clock.Now

	h.delegations = NewDelegationService(h.malls, h.uids, h.consents, h.tokens, log).(*delegationService)

	h.sessions = NewSessionService(storages, h.malls, h.tokens, cfg, m, log).(*sessionService)
	h.sessions.now = clock.Now

	h.vault = NewVaultService(storages, crypto.NewKeyChain(cfg.VaultSalt, cfg.VaultIterations), m, log).(*vaultService)
	h.vault.now = clock.Now

	return h
}

// registerMall registers mallID with the given fields and returns the issued key.
func (h *harness) registerMall(t *testing.T, mallID string, fields ...string) models.IssuedAPIKey {
	t.Helper()

	issued, err := h.malls.Register(context.Background(), models.MallRegistration{
		MallName:       mallID,
		MallID:         mallID,
		AllowedFields:  fields,
		AllowedDomains: []string{"https://www." + mallID + ".example.com"},
	})
	require.NoError(t, err)
	return issued
}

// uid mints the uid of externalUserID at mallID.
func (h *harness) uid(t *testing.T, mallID, externalUserID string) string {
	t.Helper()

	mapping, _, err := h.uids.GetOrCreateUID(context.Background(), mallID, externalUserID)
	require.NoError(t, err)
	return mapping.InternalUID
}

// mallSessionToken issues a mall-session token for a fresh user of mallID.
func (h *harness) mallSessionToken(t *testing.T, mallID string, sessionType models.SessionType) (string, string) {
	t.Helper()

	uid := h.uid(t, mallID, "user-1")
	token, err := h.tokens.IssueMallSession(context.Background(), uid, mallID, sessionType)
	require.NoError(t, err)
	return token.SignedString, uid
}
