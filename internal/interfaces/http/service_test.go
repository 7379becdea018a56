package httpinterface_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"
	"github.com/zeta-network/zetad/internal/core/application"
	"github.com/zeta-network/zetad/internal/core/domain"
	"github.com/zeta-network/zetad/internal/core/ports"
	webhookpubsub "github.com/zeta-network/zetad/internal/infrastructure/pubsub/webhook"
	"github.com/zeta-network/zetad/internal/infrastructure/selection"
	dbinmemory "github.com/zeta-network/zetad/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/zeta-network/zetad/internal/interfaces/http"
)

const authSecret = "testsecret"

func TestUnauthenticatedRequests(t *testing.T) {
	server := newTestServer(t)

	// The health check is open.
	res, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Everything under /v1 requires a bearer token.
	res, err = http.Get(server.URL + "/v1/policy/params")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/v1/policy/params", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Tokens signed with another secret are rejected.
	req, _ = http.NewRequest(http.MethodGet, server.URL+"/v1/policy/params", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrongsecret", "admin"))
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestOrderFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)

	status, body := call(t, server, "admin", http.MethodGet, "/v1/policy/params", nil)
	require.Equal(t, http.StatusOK, status)
	var params domain.PolicyParams
	require.NoError(t, json.Unmarshal(body, &params))
	require.Equal(t, uint16(500), params.TreasuryBps)

	status, _ = call(t, server, "admin", http.MethodPost, "/v1/registry/whitelist",
		map[string]interface{}{"agent": "agent"})
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, server, "agent", http.MethodPost, "/v1/vault/bond/deposit",
		map[string]interface{}{"amount": 10000})
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, server, "user", http.MethodPost, "/v1/orders/",
		map[string]interface{}{
			"Token":       "zusd",
			"MaxTotal":    100000,
			"OriginId":    "WH-1",
			"DestRegion":  "EU-WEST",
			"CommodityId": "SKU-42",
			"Qty":         10,
			"Expiry":      time.Now().Unix() + 3600,
		})
	require.Equal(t, http.StatusCreated, status)
	var order application.OrderInfo
	require.NoError(t, json.Unmarshal(body, &order))
	require.Equal(t, uint64(1), order.Id)
	require.Equal(t, "created", order.Status)

	saltHex := randstr.Hex(domain.SaltLen)
	salt, err := domain.ParseSalt(saltHex)
	require.NoError(t, err)
	hash := domain.ComputeQuoteCommitment(order.Id, 80000, 500, 500, 48, salt)

	status, _ = call(t, server, "agent", http.MethodPost, "/v1/orders/1/commit",
		map[string]interface{}{"commit_hash": hash, "ttl": time.Now().Unix() + 600})
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, server, "agent", http.MethodPost, "/v1/orders/1/reveal",
		map[string]interface{}{
			"fee_total": 80000, "holdback_bps": 500, "microbond_bps": 500,
			"eta_hours": 48, "salt": saltHex,
		})
	require.Equal(t, http.StatusOK, status)

	// Anyone may crank the selection once a reveal exists.
	status, body = call(t, server, "user", http.MethodPost, "/v1/orders/1/select", nil)
	require.Equal(t, http.StatusOK, status)
	var selected map[string]string
	require.NoError(t, json.Unmarshal(body, &selected))
	require.Equal(t, "agent", selected["agent"])

	status, _ = call(t, server, "agent", http.MethodPost, "/v1/orders/1/ack", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, server, "user", http.MethodPost, "/v1/orders/1/fund",
		map[string]interface{}{"amount": 80000})
	require.Equal(t, http.StatusOK, status)

	// Completion stays operator gated: the agent cannot pay itself out.
	status, _ = call(t, server, "agent", http.MethodPost, "/v1/orders/1/complete", nil)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, server, "admin", http.MethodPost, "/v1/orders/1/complete", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, server, "user", http.MethodGet, "/v1/vault/escrow/1", nil)
	require.Equal(t, http.StatusOK, status)
	var escrow application.EscrowInfo
	require.NoError(t, json.Unmarshal(body, &escrow))
	require.Equal(t, uint64(4000), escrow.Holdback)
	require.True(t, escrow.PaidMain)

	// The holdback is still escrowed within the claim window.
	status, _ = call(t, server, "user", http.MethodPost, "/v1/vault/release/1", nil)
	require.Equal(t, http.StatusConflict, status)

	status, body = call(t, server, "user", http.MethodGet, "/v1/vault/payouts/1", nil)
	require.Equal(t, http.StatusOK, status)
	var payouts []domain.Payout
	require.NoError(t, json.Unmarshal(body, &payouts))
	require.Len(t, payouts, 2)

	// Prometheus collectors are exposed unauthenticated.
	res, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	server := newTestServer(t)

	status, _ := call(t, server, "user", http.MethodGet, "/v1/orders/99", nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, server, "user", http.MethodGet, "/v1/vault/escrow/99", nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, server, "user", http.MethodPost, "/v1/policy/pause", nil)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, server, "user", http.MethodGet, "/v1/orders/notanumber", nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestSubscriptionsOverHTTP(t *testing.T) {
	server := newTestServer(t)

	status, body := call(t, server, "admin", http.MethodPost, "/v1/subscriptions/",
		map[string]interface{}{
			"topic":    "ORDER_CREATED",
			"endpoint": "http://localhost:18080/hook",
			"secret":   "whsecret",
		})
	require.Equal(t, http.StatusCreated, status)
	var created map[string]string
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created["id"])

	status, body = call(t, server, "admin", http.MethodGet, "/v1/subscriptions/ORDER_CREATED", nil)
	require.Equal(t, http.StatusOK, status)
	var subs []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &subs))
	require.Len(t, subs, 1)

	status, _ = call(
		t, server, "admin", http.MethodDelete,
		"/v1/subscriptions/ORDER_CREATED/"+created["id"], nil,
	)
	require.Equal(t, http.StatusOK, status)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	repoManager := dbinmemory.NewRepoManager()
	clock := ports.NewWallClock()

	policySvc, err := application.NewPolicyService(repoManager, "admin", domain.PolicyParams{
		Treasury:            "treasury",
		SettlementAsset:     "zusd",
		TreasuryBps:         500,
		DefaultHoldbackBps:  500,
		DefaultMicrobondBps: 500,
		MaxHoldbackBps:      2000,
		MaxMicrobondBps:     2000,
		FaultRefundBps:      10000,
		WeightPriceBps:      6000,
		WeightEtaBps:        2500,
		WeightRiskBps:       1500,
		ClaimWindowSec:      259200,
		AcceptAckWindowSec:  86400,
	})
	require.NoError(t, err)

	pubsubSvc, err := webhookpubsub.NewWebhookPubSubService("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { pubsubSvc.Close() })

	vaultSvc := application.NewVaultService(repoManager, pubsubSvc, clock)
	registrySvc := application.NewRegistryService(repoManager, vaultSvc, pubsubSvc, clock)
	orderSvc := application.NewOrderBookService(
		repoManager, pubsubSvc, clock, selection.NewWeightedStrategy(),
	)
	disputeSvc := application.NewDisputeService(repoManager, pubsubSvc, clock)

	svc := httpinterface.NewService(
		policySvc, registrySvc, orderSvc, vaultSvc, disputeSvc, pubsubSvc, authSecret,
	)

	server := httptest.NewServer(svc.Router())
	t.Cleanup(server.Close)
	return server
}

func call(
	t *testing.T, server *httptest.Server,
	caller, method, route string, body interface{},
) (int, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+route, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, authSecret, caller))

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	out := new(bytes.Buffer)
	_, err = out.ReadFrom(res.Body)
	require.NoError(t, err)
	return res.StatusCode, out.Bytes()
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
