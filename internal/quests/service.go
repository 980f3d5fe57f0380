// Package quests implements reward-claim verification: one generic evaluator
// driven by the closed rule set instead of one handler body per quest.
package quests

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/dozer-finance/reward-service/internal/backend"
	"github.com/dozer-finance/reward-service/internal/domain/quest"
	"github.com/dozer-finance/reward-service/internal/errors"
	"github.com/dozer-finance/reward-service/internal/identity"
	"github.com/dozer-finance/reward-service/internal/logging"
	"github.com/dozer-finance/reward-service/internal/storage"
)

// ClaimedMessage is the verdict body for a completed quest.
const ClaimedMessage = "Claimed!"

// Backend is the subset of backend procedures the evaluator delegates to.
type Backend interface {
	CheckClaim(ctx context.Context, q backend.ClaimQuery) (bool, error)
	CheckClaimFriends(ctx context.Context, address string, methods []string, friends int) (bool, error)
	CheckBetCreatedBy(ctx context.Context, address string) (bool, error)
	CheckAnotherCustomToken(ctx context.Context, address string) (bool, error)
	CheckZealyUserAddress(ctx context.Context, address string) (bool, error)
	CheckTokenCreatedBy(ctx context.Context, address string) (string, error)
	CheckFaucet(ctx context.Context, address string) (bool, error)
	GetBestBlock(ctx context.Context) (backend.BestBlock, error)
}

// Request carries one claim evaluation: the normalized identity plus the
// quest-specific parameters extracted from the route and query.
type Request struct {
	// Address is the wallet address after identity normalization.
	Address string
	// PoolName overrides the rule's fixed pool when the route carries one.
	PoolName string
	// ContractID is the nano-contract id from the path for
	// contract-scoped quests.
	ContractID string
	// Friends is the referral threshold from the n_of_friends query
	// parameter. Zero means absent.
	Friends int
}

// Service evaluates quest rules against backend and store state.
type Service struct {
	rules   map[string]quest.Rule
	backend Backend
	pools   storage.PoolStore
	log     *logging.Logger
}

// New constructs the claim verification service.
func New(rules []quest.Rule, be Backend, pools storage.PoolStore, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewDefault("quests")
	}
	bySlug := make(map[string]quest.Rule, len(rules))
	for _, r := range rules {
		bySlug[r.Slug] = r
	}
	return &Service{rules: bySlug, backend: be, pools: pools, log: log}
}

// Rule returns the rule registered under slug.
func (s *Service) Rule(slug string) (quest.Rule, bool) {
	r, ok := s.rules[slug]
	return r, ok
}

// Verify evaluates the rule for one request. Precondition failures return a
// *errors.ServiceError carrying the quest-specific message; downstream faults
// return plain errors for the handler's recover boundary.
func (s *Service) Verify(ctx context.Context, rule quest.Rule, req Request) (quest.Verdict, error) {
	if req.Address == "" {
		return quest.Verdict{}, errors.BadRequest("User address not found !")
	}

	contractID, err := s.resolveContract(ctx, rule, req)
	if err != nil {
		return quest.Verdict{}, err
	}

	claimed, err := s.check(ctx, rule, req, contractID)
	if err != nil {
		return quest.Verdict{}, err
	}

	s.log.WithContext(ctx).
		WithField("quest", rule.Slug).
		WithField("claimed", claimed).
		Info("claim verified")

	if !claimed {
		return quest.Verdict{Claimed: false, Message: rule.FailureMessage}, nil
	}
	return quest.Verdict{Claimed: true, Message: ClaimedMessage}, nil
}

// resolveContract locates the nano-contract per the rule's strategy.
func (s *Service) resolveContract(ctx context.Context, rule quest.Rule, req Request) (string, error) {
	switch rule.Resolution {
	case quest.ResolveNone:
		return "", nil

	case quest.ResolveFixedPool:
		name := rule.PoolName
		if req.PoolName != "" {
			name = req.PoolName
		}
		p, err := s.pools.FirstPoolByName(ctx, name)
		if stderrors.Is(err, storage.ErrNotFound) {
			return "", errors.NotFound("Pool not found !")
		}
		if err != nil {
			return "", fmt.Errorf("resolve pool %q: %w", name, err)
		}
		return p.ContractID, nil

	case quest.ResolveOwnTokenPool:
		tokenUUID, err := s.backend.CheckTokenCreatedBy(ctx, req.Address)
		if err != nil {
			return "", fmt.Errorf("resolve created token: %w", err)
		}
		if tokenUUID == "" {
			return "", errors.NotFound("User created token not found !")
		}
		// The backend is authoritative for token existence; the local row
		// only enriches the log line when the registry has synced it.
		if tok, err := s.pools.FirstTokenByUUID(ctx, tokenUUID); err == nil {
			s.log.WithContext(ctx).
				WithField("token", tok.Symbol).
				Debug("resolved creator token")
		}
		p, err := s.pools.FirstPoolByTokenUUID(ctx, tokenUUID)
		if stderrors.Is(err, storage.ErrNotFound) {
			return "", errors.NotFound("Pool not found !")
		}
		if err != nil {
			return "", fmt.Errorf("resolve token pool: %w", err)
		}
		return p.ContractID, nil

	case quest.ResolvePathContract:
		if req.ContractID == "" {
			return "", errors.BadRequest("Contract id not found !")
		}
		return req.ContractID, nil

	default:
		return "", fmt.Errorf("unknown resolution strategy %q", rule.Resolution)
	}
}

// check runs the rule's eligibility procedure against the backend.
func (s *Service) check(ctx context.Context, rule quest.Rule, req Request, contractID string) (bool, error) {
	switch rule.Check {
	case quest.CheckClaim:
		var since int64
		if rule.Window > 0 {
			block, err := s.backend.GetBestBlock(ctx)
			if err != nil {
				return false, fmt.Errorf("query best block: %w", err)
			}
			since = block.Timestamp - int64(rule.Window.Seconds())
		}
		return s.backend.CheckClaim(ctx, backend.ClaimQuery{
			ContractID: contractID,
			Address:    req.Address,
			Methods:    rule.Methods,
			MinAmount:  rule.MinAmount,
			Since:      since,
		})

	case quest.CheckFriends:
		if req.Friends <= 0 {
			return false, errors.BadRequest("n_of_friends is required !")
		}
		return s.backend.CheckClaimFriends(ctx, req.Address, rule.Methods, req.Friends)

	case quest.CheckBetCreated:
		return s.backend.CheckBetCreatedBy(ctx, req.Address)

	case quest.CheckAnotherToken:
		return s.backend.CheckAnotherCustomToken(ctx, req.Address)

	case quest.CheckZealyAddress:
		if err := identity.ValidateAddress(req.Address); err != nil {
			return false, errors.BadRequest("Invalid address !")
		}
		return s.backend.CheckZealyUserAddress(ctx, req.Address)

	case quest.CheckTokenCreated:
		tokenUUID, err := s.backend.CheckTokenCreatedBy(ctx, req.Address)
		if err != nil {
			return false, err
		}
		return tokenUUID != "", nil

	case quest.CheckFaucetUsed:
		available, err := s.backend.CheckFaucet(ctx, req.Address)
		if err != nil {
			return false, err
		}
		return !available, nil

	default:
		return false, fmt.Errorf("unknown check kind %q", rule.Check)
	}
}
