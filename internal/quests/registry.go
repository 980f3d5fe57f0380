package quests

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dozer-finance/reward-service/internal/domain/quest"
)

// Default quest thresholds. Overridable per rule via the YAML config.
const (
	defaultMinAmount = 10000
	defaultWindow    = 24 * time.Hour
	defaultPoolName  = "HTR-USDT"
)

var swapMethods = []string{"swap_exact_tokens_for_tokens", "swap_tokens_for_exact_tokens"}

// DefaultRules returns the built-in quest matrix.
func DefaultRules() []quest.Rule {
	return []quest.Rule{
		{
			Slug:           "add-liquidity",
			Resolution:     quest.ResolveFixedPool,
			Check:          quest.CheckClaim,
			Methods:        []string{"add_liquidity"},
			PoolName:       defaultPoolName,
			MinAmount:      defaultMinAmount,
			Window:         defaultWindow,
			FailureMessage: "Add liquidity task not completed or minimum amount not met !",
		},
		{
			Slug:           "own-token-liquidity",
			Resolution:     quest.ResolveOwnTokenPool,
			Check:          quest.CheckClaim,
			Methods:        []string{"add_liquidity"},
			MinAmount:      defaultMinAmount,
			Window:         defaultWindow,
			FailureMessage: "Add liquidity task not completed or minimum amount not met !",
		},
		{
			Slug:           "liquidity-referral",
			Resolution:     quest.ResolveFixedPool,
			Check:          quest.CheckFriends,
			Methods:        []string{"add_liquidity"},
			PoolName:       defaultPoolName,
			FailureMessage: "Not enough friends added liquidity !",
		},
		{
			Slug:           "create-bet",
			Resolution:     quest.ResolveNone,
			Check:          quest.CheckBetCreated,
			FailureMessage: "Bet contract not found !",
		},
		{
			Slug:           "bet-invite",
			Resolution:     quest.ResolveNone,
			Check:          quest.CheckFriends,
			Methods:        []string{"bet"},
			FailureMessage: "Not enough friends placed bets !",
		},
		{
			Slug:           "official-bet",
			Resolution:     quest.ResolvePathContract,
			Check:          quest.CheckClaim,
			Methods:        []string{"make_bet"},
			FailureMessage: "Bet participation not found !",
		},
		{
			Slug:           "zealy-address",
			Resolution:     quest.ResolveNone,
			Check:          quest.CheckZealyAddress,
			FailureMessage: "Wallet address not registered !",
		},
		{
			Slug:           "create-token",
			Resolution:     quest.ResolveNone,
			Check:          quest.CheckTokenCreated,
			FailureMessage: "User created token not found !",
		},
		{
			Slug:           "faucet",
			Resolution:     quest.ResolveNone,
			Check:          quest.CheckFaucetUsed,
			FailureMessage: "Faucet not used !",
		},
		{
			Slug:           "custom-token-swap",
			Resolution:     quest.ResolveNone,
			Check:          quest.CheckAnotherToken,
			FailureMessage: "Swap on another custom token not found !",
		},
		{
			Slug:           "own-token-swap",
			Resolution:     quest.ResolveOwnTokenPool,
			Check:          quest.CheckClaim,
			Methods:        swapMethods,
			MinAmount:      defaultMinAmount,
			Window:         defaultWindow,
			FailureMessage: "Swap task not completed or minimum amount not met !",
		},
		{
			Slug:           "swap",
			Resolution:     quest.ResolveFixedPool,
			Check:          quest.CheckClaim,
			Methods:        swapMethods,
			PoolName:       defaultPoolName,
			FailureMessage: "Swap task not completed !",
		},
	}
}

// ruleOverride is the YAML shape for tuning a built-in rule.
type ruleOverride struct {
	PoolName       string   `yaml:"pool_name"`
	Methods        []string `yaml:"methods"`
	MinAmount      *int64   `yaml:"minimum_amount"`
	WindowHours    *int     `yaml:"window_hours"`
	FailureMessage string   `yaml:"failure_message"`
}

type rulesConfig struct {
	Quests map[string]ruleOverride `yaml:"quests"`
}

// LoadRules returns the built-in matrix with overrides applied from the YAML
// file at path. An empty path returns the defaults.
func LoadRules(path string) ([]quest.Rule, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quests config: %w", err)
	}

	var cfg rulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse quests config: %w", err)
	}

	bySlug := make(map[string]int, len(rules))
	for i, r := range rules {
		bySlug[r.Slug] = i
	}

	for slug, ov := range cfg.Quests {
		i, ok := bySlug[slug]
		if !ok {
			return nil, fmt.Errorf("quests config: unknown quest %q", slug)
		}
		if ov.PoolName != "" {
			rules[i].PoolName = ov.PoolName
		}
		if len(ov.Methods) > 0 {
			rules[i].Methods = ov.Methods
		}
		if ov.MinAmount != nil {
			rules[i].MinAmount = *ov.MinAmount
		}
		if ov.WindowHours != nil {
			rules[i].Window = time.Duration(*ov.WindowHours) * time.Hour
		}
		if ov.FailureMessage != "" {
			rules[i].FailureMessage = ov.FailureMessage
		}
	}
	return rules, nil
}
