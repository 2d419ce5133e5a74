package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MKhiriev/ssdm-gateway/models"
)

// RegisterMall implements [BrokerClient] via POST /malls. The returned key is
// shown only once.
func (c *httpBrokerClient) RegisterMall(ctx context.Context, registration models.MallRegistration) (models.IssuedAPIKey, error) {
	var issued models.IssuedAPIKey
	req := c.adminRequest(ctx).SetBody(registration).SetResult(&issued)
	if err := c.do(req, http.MethodPost, "/malls", "register mall"); err != nil {
		return models.IssuedAPIKey{}, err
	}
	return issued, nil
}

func (c *httpBrokerClient) GetMall(ctx context.Context, mallID string) (models.Mall, error) {
	var mall models.Mall
	req := c.adminRequest(ctx).SetPathParam("mallId", mallID).SetResult(&mall)
	if err := c.do(req, http.MethodGet, "/malls/{mallId}", "get mall"); err != nil {
		return models.Mall{}, err
	}
	return mall, nil
}

// ReissueAPIKey implements [BrokerClient] via POST /malls/{mallId}/reissue.
// The previous key stops resolving.
func (c *httpBrokerClient) ReissueAPIKey(ctx context.Context, mallID string) (models.IssuedAPIKey, error) {
	var issued models.IssuedAPIKey
	req := c.adminRequest(ctx).SetPathParam("mallId", mallID).SetResult(&issued)
	if err := c.do(req, http.MethodPost, "/malls/{mallId}/reissue", "reissue api key"); err != nil {
		return models.IssuedAPIKey{}, err
	}
	return issued, nil
}

func (c *httpBrokerClient) DeactivateMall(ctx context.Context, mallID string) error {
	req := c.adminRequest(ctx).SetPathParam("mallId", mallID)
	return c.do(req, http.MethodPost, "/malls/{mallId}/deactivate", "deactivate mall")
}

func (c *httpBrokerClient) GetOrCreateUID(ctx context.Context, externalUserID string) (models.UIDResponse, error) {
	var uid models.UIDResponse
	req := c.mallRequest(ctx).SetBody(models.UIDRequest{ExternalUserID: externalUserID}).SetResult(&uid)
	if err := c.do(req, http.MethodPost, "/uids", "get or create uid"); err != nil {
		return models.UIDResponse{}, err
	}
	return uid, nil
}

// SealPersonalData implements [BrokerClient] via PUT /uids/{uid}/data,
// replacing whatever was sealed for uid before.
func (c *httpBrokerClient) SealPersonalData(ctx context.Context, uid string, data models.PersonalData) error {
	req := c.mallRequest(ctx).SetPathParam("uid", uid).SetBody(data)
	return c.do(req, http.MethodPut, "/uids/{uid}/data", "seal personal data")
}

func (c *httpBrokerClient) IssueMallSessionToken(ctx context.Context, request models.JWTRequest) (models.JWTResponse, error) {
	var token models.JWTResponse
	req := c.mallRequest(ctx).SetBody(request).SetResult(&token)
	if err := c.do(req, http.MethodPost, "/jwt", "issue mall session token"); err != nil {
		return models.JWTResponse{}, err
	}
	return token, nil
}

func (c *httpBrokerClient) SaveConsent(ctx context.Context, request models.ConsentRequest) (models.Consent, error) {
	var consent models.Consent
	req := c.mallRequest(ctx).SetBody(request).SetResult(&consent)
	if err := c.do(req, http.MethodPost, "/consent", "save consent"); err != nil {
		return models.Consent{}, err
	}
	return consent, nil
}

func (c *httpBrokerClient) CheckConsent(ctx context.Context, uid, shopID string) (models.ConsentState, error) {
	var state models.ConsentState
	req := c.mallRequest(ctx).SetQueryParamsFromValues(consentQuery(uid, shopID)).SetResult(&state)
	if err := c.do(req, http.MethodGet, "/consent", "check consent"); err != nil {
		return models.ConsentState{}, err
	}
	return state, nil
}

func (c *httpBrokerClient) RevokeConsent(ctx context.Context, uid, shopID string) error {
	req := c.mallRequest(ctx).SetQueryParamsFromValues(consentQuery(uid, shopID))
	return c.do(req, http.MethodDelete, "/consent", "revoke consent")
}

func consentQuery(uid, shopID string) url.Values {
	return url.Values{"uid": {uid}, "shopId": {shopID}}
}

// Delegate implements [BrokerClient] via POST /delegations. The partner JWT
// in the response is what a delivery partner redeems for a session.
func (c *httpBrokerClient) Delegate(ctx context.Context, request models.DelegationRequest) (models.DelegationResponse, error) {
	var delegation models.DelegationResponse
	req := c.mallRequest(ctx).SetBody(request).SetResult(&delegation)
	if err := c.do(req, http.MethodPost, "/delegations", "delegate"); err != nil {
		return models.DelegationResponse{}, err
	}
	return delegation, nil
}

func (c *httpBrokerClient) RequestSession(ctx context.Context, request models.SessionRequest) (models.SessionResponse, error) {
	var session models.SessionResponse
	req := c.request(ctx).SetBody(request).SetResult(&session)
	if err := c.do(req, http.MethodPost, "/sessions", "request session"); err != nil {
		return models.SessionResponse{}, err
	}
	return session, nil
}

func (c *httpBrokerClient) RequestDelegatedSession(ctx context.Context, request models.DelegatedSessionRequest) (models.SessionResponse, error) {
	var session models.SessionResponse
	req := c.request(ctx).SetBody(request).SetResult(&session)
	if err := c.do(req, http.MethodPost, "/sessions/delegated", "request delegated session"); err != nil {
		return models.SessionResponse{}, err
	}
	return session, nil
}

func (c *httpBrokerClient) SessionStatus(ctx context.Context, sessionID string) (models.SessionStatus, error) {
	var status models.SessionStatus
	req := c.request(ctx).SetPathParam("sessionId", sessionID).SetResult(&status)
	if err := c.do(req, http.MethodGet, "/sessions/{sessionId}", "session status"); err != nil {
		return models.SessionStatus{}, err
	}
	return status, nil
}

func (c *httpBrokerClient) RevokeSession(ctx context.Context, sessionID string) error {
	req := c.request(ctx).SetPathParam("sessionId", sessionID)
	return c.do(req, http.MethodDelete, "/sessions/{sessionId}", "revoke session")
}

func (c *httpBrokerClient) ExtendSession(ctx context.Context, sessionID string) (models.ExtendResponse, error) {
	var extended models.ExtendResponse
	req := c.request(ctx).SetPathParam("sessionId", sessionID).SetResult(&extended)
	if err := c.do(req, http.MethodPost, "/sessions/{sessionId}/extend", "extend session"); err != nil {
		return models.ExtendResponse{}, err
	}
	return extended, nil
}

func (c *httpBrokerClient) ReadSessionData(ctx context.Context, sessionID string) (models.DisclosureResponse, error) {
	var disclosure models.DisclosureResponse
	req := c.request(ctx).SetPathParam("sessionId", sessionID).SetResult(&disclosure)
	if err := c.do(req, http.MethodPost, "/sessions/{sessionId}/data", "read session data"); err != nil {
		return models.DisclosureResponse{}, err
	}
	return disclosure, nil
}

func (c *httpBrokerClient) DelegateKey(ctx context.Context) ([]byte, error) {
	resp, err := c.request(ctx).Get("/.well-known/delegate-key")
	if err != nil {
		return nil, fmt.Errorf("delegate key request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *httpBrokerClient) Version(ctx context.Context) (string, error) {
	resp, err := c.request(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return string(resp.Body()), nil
}
