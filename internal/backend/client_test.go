package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// envelope wraps a value the way the tRPC backend does.
func envelope(v interface{}) []byte {
	buf, _ := json.Marshal(map[string]interface{}{
		"result": map[string]interface{}{
			"data": map[string]interface{}{"json": v},
		},
	})
	return buf
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestCheckClaimPassesParametersUnmodified(t *testing.T) {
	var gotProc string
	var gotInput map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotProc = r.URL.Path
		raw, err := url.QueryUnescape(r.URL.Query().Get("input"))
		if err != nil {
			t.Fatalf("unescape input: %v", err)
		}
		var wrapper struct {
			JSON map[string]interface{} `json:"json"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapper); err != nil {
			t.Fatalf("decode input: %v", err)
		}
		gotInput = wrapper.JSON
		w.Write(envelope(true))
	})

	ok, err := client.CheckClaim(context.Background(), ClaimQuery{
		ContractID: "nc-1",
		Address:    "abc123",
		Methods:    []string{"add_liquidity"},
		MinAmount:  10000,
		Since:      1700000000,
	})
	if err != nil {
		t.Fatalf("check claim: %v", err)
	}
	if !ok {
		t.Fatalf("expected claimed verdict")
	}
	if gotProc != "/api/trpc/getRewards.checkClaim" {
		t.Fatalf("unexpected procedure path %q", gotProc)
	}
	if gotInput["minimum_amount"].(float64) != 10000 {
		t.Fatalf("minimum amount altered: %v", gotInput["minimum_amount"])
	}
	if gotInput["since"].(float64) != 1700000000 {
		t.Fatalf("window anchor altered: %v", gotInput["since"])
	}
	methods, _ := gotInput["methods"].([]interface{})
	if len(methods) != 1 || methods[0] != "add_liquidity" {
		t.Fatalf("method list altered: %v", gotInput["methods"])
	}
}

func TestCheckTokenCreatedBy(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope("token-uuid-7"))
	})
	uuid, err := client.CheckTokenCreatedBy(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("check created by: %v", err)
	}
	if uuid != "token-uuid-7" {
		t.Fatalf("unexpected uuid %q", uuid)
	}
}

func TestGetBestBlock(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/trpc/getNetwork.getBestBlock" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write(envelope(map[string]interface{}{"number": 12345, "timestamp": 1700003600}))
	})
	block, err := client.GetBestBlock(context.Background())
	if err != nil {
		t.Fatalf("best block: %v", err)
	}
	if block.Number != 12345 || block.Timestamp != 1700003600 {
		t.Fatalf("unexpected block %+v", block)
	}
}

func TestAllPools(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope([]map[string]interface{}{
			{"id": "p1", "name": "HTR-USDT", "liquidityUSD": 1000.5, "apr": 0.12},
			{"id": "p2", "name": "HTR-DZR", "volumeUSD": 42.0},
		}))
	})
	pools, err := client.AllPools(context.Background())
	if err != nil {
		t.Fatalf("all pools: %v", err)
	}
	if len(pools) != 2 {
		t.Fatalf("expected 2 pools, got %d", len(pools))
	}
	if pools[0].Name != "HTR-USDT" || pools[0].LiquidityUSD != 1000.5 {
		t.Fatalf("unexpected pool %+v", pools[0])
	}
}

func TestQueryErrorSurfacesBackendMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"json":{"message":"no such procedure"}}}`))
	})
	if _, err := client.HTRPrice(context.Background()); err == nil {
		t.Fatalf("expected error from 400 response")
	}
}

func TestQueryMalformedEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":true}`))
	})
	if _, err := client.CheckFaucet(context.Background(), "abc"); err == nil {
		t.Fatalf("expected envelope error")
	}
}
