// Package quest defines the closed set of eligibility rules evaluated by the
// claim verification service.
package quest

import "time"

// Resolution selects how a rule locates the nano-contract to check.
type Resolution string

const (
	// ResolveNone skips contract resolution; the check is address-scoped.
	ResolveNone Resolution = "none"
	// ResolveFixedPool looks up a pool by its configured name.
	ResolveFixedPool Resolution = "fixed_pool"
	// ResolveOwnTokenPool resolves the caller's created token first, then
	// the pool holding that token as its secondary asset.
	ResolveOwnTokenPool Resolution = "own_token_pool"
	// ResolvePathContract takes the contract id from the request path.
	ResolvePathContract Resolution = "path_contract"
)

// Check selects the backend procedure evaluating eligibility.
type Check string

const (
	// CheckClaim asks getRewards.checkClaim with the rule's method list.
	CheckClaim Check = "claim"
	// CheckFriends asks getRewards.checkClaimFriends with a friend-count
	// threshold from the request.
	CheckFriends Check = "friends"
	// CheckBetCreated asks getRewards.checkBetCreatedBy.
	CheckBetCreated Check = "bet_created"
	// CheckAnotherToken asks getRewards.checkAnotherCustomToken.
	CheckAnotherToken Check = "another_token"
	// CheckZealyAddress validates the address format locally and asks
	// getRewards.checkZealyUserAddress.
	CheckZealyAddress Check = "zealy_address"
	// CheckTokenCreated asks getTokens.checkCreatedBy for existence.
	CheckTokenCreated Check = "token_created"
	// CheckFaucetUsed asks getFaucet.checkFaucet; a false result means the
	// quest counts as claimed.
	CheckFaucetUsed Check = "faucet_used"
)

// Rule describes one quest type. A single generic handler evaluates any Rule;
// there is no per-quest handler body.
type Rule struct {
	Slug       string
	Resolution Resolution
	Check      Check

	// Methods is the nano-contract method allow-list passed to checkClaim
	// or checkClaimFriends.
	Methods []string

	// PoolName names the pool for ResolveFixedPool. A "{pool}" route
	// parameter overrides it when present.
	PoolName string

	// MinAmount is the minimum qualifying action amount, passed through to
	// the backend unmodified. Zero means no minimum.
	MinAmount int64

	// Window anchors the qualifying period at the latest block timestamp
	// minus Window. Zero means no window constraint.
	Window time.Duration

	// FailureMessage explains a negative verdict to the quest platform.
	FailureMessage string
}

// Verdict is the outcome of evaluating a rule for one request.
type Verdict struct {
	Claimed bool
	Message string
}
