package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
	"github.com/go-resty/resty/v2"
)

const adminTokenHeader = "X-Admin-Token"

// Config configures [NewHTTPBrokerClient].
type Config struct {
	// BaseURL is the broker address; a missing scheme defaults to http.
	BaseURL string

	APIKey     string
	AdminToken string

	// Timeout bounds every request; zero means no timeout.
	Timeout time.Duration
}

type httpBrokerClient struct {
	client *utils.HTTPClient

	mu         sync.RWMutex
	apiKey     string
	adminToken string

	logger *logger.Logger
}

// NewHTTPBrokerClient constructs the resty implementation of [BrokerClient].
// It returns an error if cfg.BaseURL is empty or is not a valid URL.
func NewHTTPBrokerClient(cfg Config, logger *logger.Logger) (BrokerClient, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid broker address: %w", err)
	}

	c := &httpBrokerClient{
		client: utils.NewHTTPClient(baseURL, cfg.Timeout),
		logger: logger,
	}
	c.SetAPIKey(cfg.APIKey)
	c.SetAdminToken(cfg.AdminToken)

	return c, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (c *httpBrokerClient) SetAPIKey(apiKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = strings.TrimSpace(apiKey)
}

func (c *httpBrokerClient) SetAdminToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adminToken = strings.TrimSpace(token)
}

func (c *httpBrokerClient) request(ctx context.Context) *resty.Request {
	return c.client.R().SetContext(ctx)
}

func (c *httpBrokerClient) adminRequest(ctx context.Context) *resty.Request {
	c.mu.RLock()
	defer c.mu.RUnlock()

	req := c.request(ctx)
	if c.adminToken != "" {
		req.SetHeader(adminTokenHeader, c.adminToken)
	}
	return req
}

func (c *httpBrokerClient) mallRequest(ctx context.Context) *resty.Request {
	c.mu.RLock()
	defer c.mu.RUnlock()

	req := c.request(ctx)
	if c.apiKey != "" {
		req.SetAuthToken(c.apiKey)
	}
	return req
}

// do sends req and maps its outcome. op names the call in wrapped errors.
func (c *httpBrokerClient) do(req *resty.Request, method, path, op string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Err(err).Str("func", "httpBrokerClient.do").Str("op", op).Msg("request failed")
		return fmt.Errorf("%s request: %w", op, err)
	}
	return mapHTTPError(resp)
}
