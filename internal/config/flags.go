// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args (without the program name).
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-backend storage backend (memory, redis, postgres, sqlite)
//	-d database DSN
//	-redis-url redis connection URL
//	-c/-config json file path with configs
//	-admin-token admin credential
//	-api-key-hash-key api key hash key
//	-delegate-key delegate signing key PEM path
//	-viewer-base-url viewer base URL
//	-partner-origin partner CORS origin
//	-log-level log level
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-janitor-interval janitor interval (e.g., "5m")
func ParseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	var backend, databaseDSN, redisURL string
	var jsonConfigPath string
	var adminToken, apiKeyHashKey, delegateKeyPath string
	var viewerBaseURL, partnerOrigin, logLevel string
	var requestTimeout, janitorInterval time.Duration

	fs := flag.NewFlagSet("ssdm-gateway", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&backend, "backend", "", "Storage backend: memory, redis, postgres, sqlite")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&redisURL, "redis-url", "", "Redis URL")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&adminToken, "admin-token", "", "Admin token")
	fs.StringVar(&apiKeyHashKey, "api-key-hash-key", "", "API key hash key")
	fs.StringVar(&delegateKeyPath, "delegate-key", "", "Delegate signing key PEM path")
	fs.StringVar(&viewerBaseURL, "viewer-base-url", "", "Viewer base URL")
	fs.StringVar(&partnerOrigin, "partner-origin", "", "Partner CORS origin")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&janitorInterval, "janitor-interval", 0, "Janitor interval (e.g., 5m)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			AdminToken:      adminToken,
			APIKeyHashKey:   apiKeyHashKey,
			DelegateKeyPath: delegateKeyPath,
			ViewerBaseURL:   viewerBaseURL,
			PartnerOrigin:   partnerOrigin,
			LogLevel:        logLevel,
		},
		Storage: Storage{
			Backend: backend,
			DB:      DB{DSN: databaseDSN},
			Redis:   Redis{URL: redisURL},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			JanitorInterval: janitorInterval,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
