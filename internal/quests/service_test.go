package quests

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/dozer-finance/reward-service/internal/backend"
	"github.com/dozer-finance/reward-service/internal/domain/pool"
	"github.com/dozer-finance/reward-service/internal/errors"
	"github.com/dozer-finance/reward-service/internal/storage/memory"
)

// fakeBackend records calls and returns scripted results.
type fakeBackend struct {
	claimResult   bool
	claimQueries  []backend.ClaimQuery
	friendsResult bool
	friendsCalls  int
	betCreated    bool
	anotherToken  bool
	zealyAddress  bool
	createdToken  string
	faucet        bool
	bestBlock     backend.BestBlock
	calls         int
}

func (f *fakeBackend) CheckClaim(_ context.Context, q backend.ClaimQuery) (bool, error) {
	f.calls++
	f.claimQueries = append(f.claimQueries, q)
	return f.claimResult, nil
}

func (f *fakeBackend) CheckClaimFriends(_ context.Context, _ string, _ []string, _ int) (bool, error) {
	f.calls++
	f.friendsCalls++
	return f.friendsResult, nil
}

func (f *fakeBackend) CheckBetCreatedBy(_ context.Context, _ string) (bool, error) {
	f.calls++
	return f.betCreated, nil
}

func (f *fakeBackend) CheckAnotherCustomToken(_ context.Context, _ string) (bool, error) {
	f.calls++
	return f.anotherToken, nil
}

func (f *fakeBackend) CheckZealyUserAddress(_ context.Context, _ string) (bool, error) {
	f.calls++
	return f.zealyAddress, nil
}

func (f *fakeBackend) CheckTokenCreatedBy(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.createdToken, nil
}

func (f *fakeBackend) CheckFaucet(_ context.Context, _ string) (bool, error) {
	f.calls++
	return f.faucet, nil
}

func (f *fakeBackend) GetBestBlock(_ context.Context) (backend.BestBlock, error) {
	f.calls++
	return f.bestBlock, nil
}

func newService(be Backend, store *memory.Store) *Service {
	return New(DefaultRules(), be, store, nil)
}

func seedHTRUSDT(store *memory.Store) {
	store.AddPool(pool.Pool{ID: "p1", Name: "HTR-USDT", ContractID: "nc-htr-usdt", Token0UUID: "00", Token1UUID: "usdt-uuid"})
}

func validAddress() string {
	payload := make([]byte, 21)
	payload[0] = 0x28
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return base58.Encode(append(payload, second[:4]...))
}

func TestVerifyAddLiquidityPassesThresholdAndWindow(t *testing.T) {
	be := &fakeBackend{claimResult: true, bestBlock: backend.BestBlock{Number: 100, Timestamp: 1_700_086_400}}
	store := memory.New()
	seedHTRUSDT(store)
	svc := newService(be, store)

	rule, ok := svc.Rule("add-liquidity")
	if !ok {
		t.Fatalf("rule missing")
	}

	verdict, err := svc.Verify(context.Background(), rule, Request{Address: "abc123"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verdict.Claimed || verdict.Message != ClaimedMessage {
		t.Fatalf("unexpected verdict %+v", verdict)
	}

	if len(be.claimQueries) != 1 {
		t.Fatalf("expected 1 claim query, got %d", len(be.claimQueries))
	}
	q := be.claimQueries[0]
	if q.ContractID != "nc-htr-usdt" {
		t.Fatalf("wrong contract %q", q.ContractID)
	}
	if q.MinAmount != 10000 {
		t.Fatalf("threshold modified: %d", q.MinAmount)
	}
	// 24h window anchored at the best block timestamp.
	if want := int64(1_700_086_400 - 24*3600); q.Since != want {
		t.Fatalf("window anchor %d, want %d", q.Since, want)
	}
	if len(q.Methods) != 1 || q.Methods[0] != "add_liquidity" {
		t.Fatalf("method list %v", q.Methods)
	}
}

func TestVerifyOwnTokenLiquidityTokenNotFound(t *testing.T) {
	be := &fakeBackend{createdToken: ""}
	svc := newService(be, memory.New())

	rule, _ := svc.Rule("own-token-liquidity")
	_, err := svc.Verify(context.Background(), rule, Request{Address: "abc123"})
	svcErr := errors.GetServiceError(err)
	if svcErr == nil || svcErr.Message != "User created token not found !" {
		t.Fatalf("expected token-not-found error, got %v", err)
	}
	if len(be.claimQueries) != 0 {
		t.Fatalf("claim check must not run after failed resolution")
	}
}

func TestVerifyOwnTokenSwapPoolNotFound(t *testing.T) {
	be := &fakeBackend{createdToken: "tok-uuid"}
	svc := newService(be, memory.New()) // no pools seeded

	rule, _ := svc.Rule("own-token-swap")
	_, err := svc.Verify(context.Background(), rule, Request{Address: "abc123"})
	svcErr := errors.GetServiceError(err)
	if svcErr == nil || svcErr.Message != "Pool not found !" {
		t.Fatalf("expected pool-not-found error, got %v", err)
	}
	if len(be.claimQueries) != 0 {
		t.Fatalf("claim check must not run on unresolved pool")
	}
}

func TestVerifyOwnTokenSwapResolvesSecondaryAsset(t *testing.T) {
	be := &fakeBackend{createdToken: "dzr-uuid", claimResult: true, bestBlock: backend.BestBlock{Timestamp: 1_700_000_000}}
	store := memory.New()
	store.AddPool(pool.Pool{ID: "p2", Name: "HTR-DZR", ContractID: "nc-htr-dzr", Token0UUID: "00", Token1UUID: "dzr-uuid"})
	svc := newService(be, store)

	rule, _ := svc.Rule("own-token-swap")
	verdict, err := svc.Verify(context.Background(), rule, Request{Address: "abc123"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verdict.Claimed {
		t.Fatalf("expected claimed verdict")
	}
	q := be.claimQueries[0]
	if q.ContractID != "nc-htr-dzr" {
		t.Fatalf("wrong contract %q", q.ContractID)
	}
	if len(q.Methods) != 2 {
		t.Fatalf("expected both swap methods, got %v", q.Methods)
	}
}

func TestVerifyOfficialBetUsesPathContract(t *testing.T) {
	be := &fakeBackend{claimResult: true}
	svc := newService(be, memory.New())

	rule, _ := svc.Rule("official-bet")
	verdict, err := svc.Verify(context.Background(), rule, Request{Address: "abc123", ContractID: "nc-bet-1"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verdict.Claimed {
		t.Fatalf("expected claimed")
	}
	q := be.claimQueries[0]
	if q.ContractID != "nc-bet-1" || q.MinAmount != 0 || q.Since != 0 {
		t.Fatalf("unexpected query %+v", q)
	}
	if len(q.Methods) != 1 || q.Methods[0] != "make_bet" {
		t.Fatalf("method list %v", q.Methods)
	}

	// Missing path contract is a precondition failure.
	if _, err := svc.Verify(context.Background(), rule, Request{Address: "abc123"}); errors.GetServiceError(err) == nil {
		t.Fatalf("expected precondition error without ncid")
	}
}

func TestVerifyReferralRequiresFriendCount(t *testing.T) {
	be := &fakeBackend{friendsResult: true}
	store := memory.New()
	seedHTRUSDT(store)
	svc := newService(be, store)

	rule, _ := svc.Rule("liquidity-referral")
	if _, err := svc.Verify(context.Background(), rule, Request{Address: "abc123"}); errors.GetServiceError(err) == nil {
		t.Fatalf("expected error without n_of_friends")
	}

	verdict, err := svc.Verify(context.Background(), rule, Request{Address: "abc123", Friends: 3})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verdict.Claimed || be.friendsCalls != 1 {
		t.Fatalf("unexpected verdict %+v calls=%d", verdict, be.friendsCalls)
	}
}

func TestVerifyFaucetInverted(t *testing.T) {
	store := memory.New()

	// checkFaucet false -> counts as claimed.
	be := &fakeBackend{faucet: false}
	svc := newService(be, store)
	rule, _ := svc.Rule("faucet")
	verdict, err := svc.Verify(context.Background(), rule, Request{Address: "abc123"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verdict.Claimed || verdict.Message != ClaimedMessage {
		t.Fatalf("expected claimed for checkFaucet=false, got %+v", verdict)
	}

	// checkFaucet true -> rejected.
	be = &fakeBackend{faucet: true}
	svc = newService(be, store)
	verdict, err = svc.Verify(context.Background(), rule, Request{Address: "abc123"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verdict.Claimed {
		t.Fatalf("expected rejection for checkFaucet=true")
	}
}

func TestVerifyZealyAddressValidatesFormat(t *testing.T) {
	be := &fakeBackend{zealyAddress: true}
	svc := newService(be, memory.New())
	rule, _ := svc.Rule("zealy-address")

	if _, err := svc.Verify(context.Background(), rule, Request{Address: "not-an-address"}); errors.GetServiceError(err) == nil {
		t.Fatalf("expected invalid address error")
	}
	if be.calls != 0 {
		t.Fatalf("backend must not be called for malformed address")
	}

	verdict, err := svc.Verify(context.Background(), rule, Request{Address: validAddress()})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verdict.Claimed {
		t.Fatalf("expected claimed for registered address")
	}
}

func TestVerifyExistenceChecks(t *testing.T) {
	cases := []struct {
		slug    string
		backend *fakeBackend
		claimed bool
	}{
		{"create-bet", &fakeBackend{betCreated: true}, true},
		{"create-bet", &fakeBackend{betCreated: false}, false},
		{"create-token", &fakeBackend{createdToken: "tok"}, true},
		{"create-token", &fakeBackend{createdToken: ""}, false},
		{"custom-token-swap", &fakeBackend{anotherToken: true}, true},
		{"custom-token-swap", &fakeBackend{anotherToken: false}, false},
	}
	for _, tc := range cases {
		svc := newService(tc.backend, memory.New())
		rule, _ := svc.Rule(tc.slug)
		verdict, err := svc.Verify(context.Background(), rule, Request{Address: "abc123"})
		if err != nil {
			t.Fatalf("%s: verify: %v", tc.slug, err)
		}
		if verdict.Claimed != tc.claimed {
			t.Fatalf("%s: claimed=%v, want %v", tc.slug, verdict.Claimed, tc.claimed)
		}
		if !tc.claimed && verdict.Message == ClaimedMessage {
			t.Fatalf("%s: rejection must carry a failure message", tc.slug)
		}
	}
}

func TestVerifyNegativeVerdictCarriesRuleMessage(t *testing.T) {
	be := &fakeBackend{claimResult: false, bestBlock: backend.BestBlock{Timestamp: 1_700_000_000}}
	store := memory.New()
	seedHTRUSDT(store)
	svc := newService(be, store)

	rule, _ := svc.Rule("add-liquidity")
	verdict, err := svc.Verify(context.Background(), rule, Request{Address: "abc123"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verdict.Claimed || verdict.Message != rule.FailureMessage {
		t.Fatalf("unexpected verdict %+v", verdict)
	}
}
