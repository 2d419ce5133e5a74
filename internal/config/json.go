// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with snake_case JSON keys
// and string durations.
type StructuredJSONConfig struct {
	App struct {
		AdminToken         string `json:"admin_token"`
		APIKeyHashKey      string `json:"api_key_hash_key"`
		TokenIssuer        string `json:"token_issuer"`
		MallSessionSignKey string `json:"mall_session_sign_key"`
		PartnerSignKey     string `json:"partner_sign_key"`
		DelegateKeyPath    string `json:"delegate_key_path"`
		VaultSalt          string `json:"vault_salt"`
		VaultIterations    int    `json:"vault_iterations"`
		ViewerBaseURL      string `json:"viewer_base_url"`
		PartnerOrigin      string `json:"partner_origin"`
		LogLevel           string `json:"log_level"`
		Version            string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		Backend string `json:"backend"`
		DB      struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		Redis struct {
			URL       string `json:"url"`
			PoolSize  int    `json:"pool_size"`
			KeyPrefix string `json:"key_prefix"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Workers struct {
		JanitorInterval     Duration `json:"janitor_interval"`
		HealthProbeInterval Duration `json:"health_probe_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	app := jsonCfg.App
	cfg := &StructuredConfig{
		App: App{
			AdminToken:         app.AdminToken,
			APIKeyHashKey:      app.APIKeyHashKey,
			TokenIssuer:        app.TokenIssuer,
			MallSessionSignKey: app.MallSessionSignKey,
			PartnerSignKey:     app.PartnerSignKey,
			DelegateKeyPath:    app.DelegateKeyPath,
			VaultSalt:          app.VaultSalt,
			VaultIterations:    app.VaultIterations,
			ViewerBaseURL:      app.ViewerBaseURL,
			PartnerOrigin:      app.PartnerOrigin,
			LogLevel:           app.LogLevel,
			Version:            app.Version,
		},
		Storage: Storage{
			Backend: jsonCfg.Storage.Backend,
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				URL:       jsonCfg.Storage.Redis.URL,
				PoolSize:  jsonCfg.Storage.Redis.PoolSize,
				KeyPrefix: jsonCfg.Storage.Redis.KeyPrefix,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers: Workers{
			JanitorInterval:     time.Duration(jsonCfg.Workers.JanitorInterval),
			HealthProbeInterval: time.Duration(jsonCfg.Workers.HealthProbeInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
