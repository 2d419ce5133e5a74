// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// ssdm-gateway server. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds secrets, token parameters and protocol settings.
	App App `envPrefix:"APP_"`

	// Storage selects and configures the keyed record store backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds intervals of the background workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control security,
// token lifecycle, disclosure and versioning.
type App struct {
	// AdminToken is the credential expected in the X-Admin-Token header of
	// mall administration requests.
	// Env: APP_ADMIN_TOKEN
	AdminToken string `env:"ADMIN_TOKEN"`

	// APIKeyHashKey is the HMAC-SHA256 key used to hash mall API keys before
	// they are stored or looked up.
	// Env: APP_API_KEY_HASH_KEY
	APIKeyHashKey string `env:"API_KEY_HASH_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// MallSessionSignKey is the shared system key signing mall-session
	// tokens (HS256).
	// Env: APP_MALL_SESSION_SIGN_KEY
	MallSessionSignKey string `env:"MALL_SESSION_SIGN_KEY"`

	// PartnerSignKey is the environment-held key signing partner tokens
	// (HS256).
	// Env: APP_PARTNER_SIGN_KEY
	PartnerSignKey string `env:"PARTNER_SIGN_KEY"`

	// DelegateKeyPath points to a PEM encoded P-256 private key used to sign
	// delegate tokens (ES256). When empty an ephemeral key is generated at
	// start-up.
	// Env: APP_DELEGATE_KEY_PATH
	DelegateKeyPath string `env:"DELEGATE_KEY_PATH"`

	// VaultSalt is the fixed application salt of the vault key derivation.
	// Env: APP_VAULT_SALT
	VaultSalt string `env:"VAULT_SALT"`

	// VaultIterations is the PBKDF2 iteration count.
	// Env: APP_VAULT_ITERATIONS
	VaultIterations int `env:"VAULT_ITERATIONS"`

	// ViewerBaseURL prefixes the viewer URL handed out with each session
	// (e.g. "https://view.example.com").
	// Env: APP_VIEWER_BASE_URL
	ViewerBaseURL string `env:"VIEWER_BASE_URL"`

	// PartnerOrigin is the single origin allowed by CORS on partner
	// endpoints.
	// Env: APP_PARTNER_ORIGIN
	PartnerOrigin string `env:"PARTNER_ORIGIN"`

	// LogLevel filters log output ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Version is the semantic version string of the running application.
	// Exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the keyed record store.
type Storage struct {
	// Backend is one of "memory", "redis", "postgres" or "sqlite".
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Redis holds the Redis connection settings.
	Redis Redis `envPrefix:"REDIS_"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health server.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL connection string or the SQLite file path.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Redis holds connection settings for the Redis backend.
type Redis struct {
	// URL is a redis:// connection URL.
	// Env: STORAGE_REDIS_URL
	URL string `env:"URL"`

	// PoolSize overrides the client pool size when positive.
	// Env: STORAGE_REDIS_POOL_SIZE
	PoolSize int `env:"POOL_SIZE"`

	// KeyPrefix namespaces every key written by the broker.
	// Env: STORAGE_REDIS_KEY_PREFIX
	KeyPrefix string `env:"KEY_PREFIX"`
}

// Workers holds configuration for background worker processes.
// A zero interval disables the corresponding worker.
type Workers struct {
	// JanitorInterval is how often expired rows are purged.
	// Env: WORKERS_JANITOR_INTERVAL
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL"`

	// HealthProbeInterval is how often the store is pinged to update the
	// gRPC health status.
	// Env: WORKERS_HEALTH_PROBE_INTERVAL
	HealthProbeInterval time.Duration `env:"HEALTH_PROBE_INTERVAL"`
}

// Storage backend names accepted in [Storage.Backend].
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// defaults are merged last so that every explicitly configured value wins.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:     "ssdm-gateway",
			VaultIterations: 100_000,
			LogLevel:        "info",
		},
		Storage: Storage{
			Backend: BackendMemory,
			Redis:   Redis{KeyPrefix: "ssdm:"},
		},
		Server: Server{
			RequestTimeout: 30 * time.Second,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
