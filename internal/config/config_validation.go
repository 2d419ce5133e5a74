// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// minSignKeyLen is the shortest HMAC signing key accepted (256 bits).
const minSignKeyLen = 32

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	switch {
	case cfg.App.AdminToken == "":
		return fmt.Errorf("%w: admin token is required", ErrInvalidAppConfigs)
	case cfg.App.APIKeyHashKey == "":
		return fmt.Errorf("%w: api key hash key is required", ErrInvalidAppConfigs)
	case len(cfg.App.MallSessionSignKey) < minSignKeyLen:
		return fmt.Errorf("%w: mall session sign key must be at least %d bytes", ErrInvalidAppConfigs, minSignKeyLen)
	case len(cfg.App.PartnerSignKey) < minSignKeyLen:
		return fmt.Errorf("%w: partner sign key must be at least %d bytes", ErrInvalidAppConfigs, minSignKeyLen)
	case cfg.App.MallSessionSignKey == cfg.App.PartnerSignKey:
		return fmt.Errorf("%w: mall session and partner sign keys must differ", ErrInvalidAppConfigs)
	case cfg.App.VaultSalt == "":
		return fmt.Errorf("%w: vault salt is required", ErrInvalidAppConfigs)
	case cfg.App.VaultIterations <= 0:
		return fmt.Errorf("%w: vault iterations must be positive", ErrInvalidAppConfigs)
	}

	switch cfg.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if cfg.Storage.Redis.URL == "" {
			return fmt.Errorf("%w: redis url is required", ErrInvalidStorageConfigs)
		}
	case BackendPostgres, BackendSQLite:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: database dsn is required", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, cfg.Storage.Backend)
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
