package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFlow_MallSessionDisclosure walks a mall user's slip from registration
// to disclosure: the session only ever sees the intersection of the
// requested and the mall's allowed fields.
func TestFlow_MallSessionDisclosure(t *testing.T) {
	api := newTestAPI(t)
	key := api.registerMall("shop-a", "name", "phone")

	// uid
	resp, body := api.do(http.MethodPost, "/uids", models.UIDRequest{ExternalUserID: "ext-1"}, bearer(key))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	uid := decode[models.UIDResponse](t, body)
	assert.True(t, uid.IsNew)
	assert.True(t, strings.HasPrefix(uid.UID, "shop-a-"))

	resp, body = api.do(http.MethodPost, "/uids", models.UIDRequest{ExternalUserID: "ext-1"}, bearer(key))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uid.UID, decode[models.UIDResponse](t, body).UID)

	// personal data
	resp, body = api.do(http.MethodPut, "/uids/"+uid.UID+"/data", models.PersonalData{
		models.FieldNameName: "Kim Minsu",
		models.FieldPhone:    "010-1234-5678",
		models.FieldAddress:  "1 Sejong-daero",
	}, bearer(key))
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(body))

	// mall-session token
	resp, body = api.do(http.MethodPost, "/jwt", models.JWTRequest{ExternalUserID: "ext-1", SessionType: models.SessionQR}, bearer(key))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	token := decode[models.JWTResponse](t, body)
	assert.Equal(t, int64(43200), token.ExpiresIn)

	// session
	resp, body = api.do(http.MethodPost, "/sessions", models.SessionRequest{
		JWT:            token.JWT,
		RequiredFields: []string{"name", "phone", "address"},
	}, map[string]string{"Origin": testPartnerOrigin})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, testPartnerOrigin, resp.Header.Get("Access-Control-Allow-Origin"))

	session := decode[models.SessionResponse](t, body)
	assert.Equal(t, models.FieldSet{"name", "phone"}, session.AllowedFields)
	assert.Equal(t, "https://view.example.com/view/"+session.SessionID, session.ViewerURL)
	assert.Equal(t, models.Capabilities{CanView: true}, session.Capabilities)

	// disclosure
	resp, body = api.do(http.MethodPost, "/sessions/"+session.SessionID+"/data", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	disclosed := decode[models.DisclosureResponse](t, body)
	assert.Equal(t, models.PersonalData{
		models.FieldNameName: "Kim Minsu",
		models.FieldPhone:    "010-1234-5678",
	}, disclosed.UserData)

	// extensions: qr allows exactly three
	for i := 1; i <= 3; i++ {
		resp, body = api.do(http.MethodPost, "/sessions/"+session.SessionID+"/extend", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		ext := decode[models.ExtendResponse](t, body)
		assert.Equal(t, i, ext.ExtensionCount)
		assert.Equal(t, 3-i, ext.RemainingExtensions)
	}
	resp, _ = api.do(http.MethodPost, "/sessions/"+session.SessionID+"/extend", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// status
	resp, body = api.do(http.MethodGet, "/sessions/"+session.SessionID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[models.SessionStatus](t, body)
	assert.True(t, status.Active)
	assert.Equal(t, 3, status.Extensions)

	// revoke
	resp, _ = api.do(http.MethodDelete, "/sessions/"+session.SessionID, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = api.do(http.MethodPost, "/sessions/"+session.SessionID+"/data", nil, nil)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

// TestFlow_Delegation covers consent, delegate issuance and the single use
// of a delegate token carried inside a partner token.
func TestFlow_Delegation(t *testing.T) {
	api := newTestAPI(t)
	key := api.registerMall("shop-a", "name", "address")

	_, body := api.do(http.MethodPost, "/uids", models.UIDRequest{ExternalUserID: "ext-1"}, bearer(key))
	uid := decode[models.UIDResponse](t, body).UID

	request := models.DelegationRequest{UID: uid, ShopID: "courier-1", Fields: []string{"name", "address", "phone"}, Purpose: "delivery"}

	// no consent yet
	resp, _ := api.do(http.MethodPost, "/delegations", request, bearer(key))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// standing consent
	resp, body = api.do(http.MethodPost, "/consent", models.ConsentRequest{UID: uid, ShopID: "courier-1", ConsentType: models.ConsentAlways}, bearer(key))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(http.MethodGet, "/consent?uid="+uid+"&shopId=courier-1", nil, bearer(key))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[models.ConsentState](t, body).Active)

	resp, body = api.do(http.MethodPost, "/delegations", request, bearer(key))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	delegation := decode[models.DelegationResponse](t, body)
	assert.Equal(t, int64(900), delegation.ExpiresIn)

	// partner opens a session through the partner token
	sessionRequest := models.DelegatedSessionRequest{
		PartnerJWT:     delegation.JWT,
		RequiredFields: []string{"address", "phone"},
		SessionType:    models.SessionPaper,
	}
	resp, body = api.do(http.MethodPost, "/sessions/delegated", sessionRequest, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	session := decode[models.SessionResponse](t, body)
	assert.Equal(t, models.FieldSet{"address"}, session.AllowedFields)
	assert.True(t, session.Capabilities.CanPrint)

	// the same delegate cannot be used again, not even directly
	resp, _ = api.do(http.MethodPost, "/sessions/delegated", models.DelegatedSessionRequest{
		DelegateJWT:    delegation.DelegateJWT,
		RequiredFields: []string{"address"},
		SessionType:    models.SessionPaper,
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// no personal data was sealed for this uid
	resp, _ = api.do(http.MethodPost, "/sessions/"+session.SessionID+"/data", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// revoked consent blocks new delegations
	resp, _ = api.do(http.MethodDelete, "/consent?uid="+uid+"&shopId=courier-1", nil, bearer(key))
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = api.do(http.MethodPost, "/delegations", request, bearer(key))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestFlow_MallAdministration(t *testing.T) {
	api := newTestAPI(t)
	key := api.registerMall("shop-a", "name")

	t.Run("admin token required", func(t *testing.T) {
		resp, _ := api.do(http.MethodGet, "/malls/shop-a", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = api.do(http.MethodGet, "/malls/shop-a", nil, map[string]string{adminTokenHeader: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("lookup hides the key hash", func(t *testing.T) {
		resp, body := api.do(http.MethodGet, "/malls/shop-a", nil, admin())
		require.Equal(t, http.StatusOK, resp.StatusCode)
		mall := decode[models.Mall](t, body)
		assert.Equal(t, "shop-a", mall.MallID)
		assert.Empty(t, mall.APIKeyHash)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		resp, _ := api.do(http.MethodPost, "/malls", models.MallRegistration{
			MallName: "again", MallID: "shop-a", AllowedFields: []string{"name"}, AllowedDomains: []string{"x.example.com"},
		}, admin())
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("invalid registration", func(t *testing.T) {
		resp, body := api.do(http.MethodPost, "/malls", models.MallRegistration{
			MallName: "bad", MallID: "B", AllowedFields: []string{"name"}, AllowedDomains: []string{"x.example.com"},
		}, admin())
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), "invalid input")
	})

	t.Run("reissue invalidates the old key", func(t *testing.T) {
		resp, body := api.do(http.MethodPost, "/malls/shop-a/reissue", nil, admin())
		require.Equal(t, http.StatusOK, resp.StatusCode)
		fresh := decode[models.IssuedAPIKey](t, body).APIKey

		resp, _ = api.do(http.MethodPost, "/uids", models.UIDRequest{ExternalUserID: "e"}, bearer(key))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = api.do(http.MethodPost, "/uids", models.UIDRequest{ExternalUserID: "e"}, bearer(fresh))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		key = fresh
	})

	t.Run("deactivation stops the key", func(t *testing.T) {
		resp, _ := api.do(http.MethodPost, "/malls/shop-a/deactivate", nil, admin())
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = api.do(http.MethodPost, "/uids", models.UIDRequest{ExternalUserID: "e"}, bearer(key))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown mall", func(t *testing.T) {
		resp, _ := api.do(http.MethodPost, "/malls/ghost/reissue", nil, admin())
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestFlow_Rejections(t *testing.T) {
	api := newTestAPI(t)
	keyA := api.registerMall("shop-a", "name")
	keyB := api.registerMall("shop-b", "name")
	keyPrefix := api.registerMall("shop", "name")

	_, body := api.do(http.MethodPost, "/uids", models.UIDRequest{ExternalUserID: "ext-1"}, bearer(keyA))
	uidA := decode[models.UIDResponse](t, body).UID

	t.Run("sealing another mall's uid", func(t *testing.T) {
		resp, _ := api.do(http.MethodPut, "/uids/"+uidA+"/data", models.PersonalData{models.FieldNameName: "x"}, bearer(keyB))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("sealing a uid of a mall whose id extends the caller's", func(t *testing.T) {
		resp, _ := api.do(http.MethodPut, "/uids/"+uidA+"/data", models.PersonalData{models.FieldNameName: "x"}, bearer(keyPrefix))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("consent for an explicit foreign mall", func(t *testing.T) {
		resp, _ := api.do(http.MethodGet, "/consent?uid="+uidA+"&shopId=s&mallId=shop-a", nil, bearer(keyB))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("malformed session token", func(t *testing.T) {
		resp, _ := api.do(http.MethodPost, "/sessions", models.SessionRequest{JWT: "garbage", RequiredFields: []string{"name"}}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown session", func(t *testing.T) {
		resp, _ := api.do(http.MethodGet, "/sessions/does-not-exist", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown body fields", func(t *testing.T) {
		resp, _ := api.do(http.MethodPost, "/uids", map[string]string{"externalUserId": "e", "extra": "x"}, bearer(keyA))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing api key", func(t *testing.T) {
		resp, _ := api.do(http.MethodPost, "/jwt", models.JWTRequest{ExternalUserID: "e", SessionType: models.SessionQR}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestFlow_OperationalRoutes(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(http.MethodGet, "/api/version", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1.2.3", string(body))

	resp, body = api.do(http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, body = api.do(http.MethodGet, "/.well-known/delegate-key", nil, map[string]string{"Origin": "https://verifier.example.org"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "BEGIN PUBLIC KEY")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, body = api.do(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ssdm_http_request_duration_seconds")
}
