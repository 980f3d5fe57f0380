// Package backend wraps the Dozer tRPC backend consumed by the reward
// service. Every blockchain-state and business-rule evaluation is delegated
// through this client; the service itself never talks to a Hathor node.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const maxResponseBytes = 8 << 20

// Client calls backend query procedures over HTTP. Procedures are GET
// requests of the form /api/trpc/<proc>?input={"json":<payload>} and return
// an envelope whose useful value sits at result.data.json.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a backend client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend base URL required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// query executes one procedure call and returns the unwrapped result value.
func (c *Client) query(ctx context.Context, procedure string, input interface{}) (gjson.Result, error) {
	endpoint := c.baseURL + "/api/trpc/" + procedure
	if input != nil {
		payload, err := json.Marshal(map[string]interface{}{"json": input})
		if err != nil {
			return gjson.Result{}, fmt.Errorf("marshal input: %w", err)
		}
		endpoint += "?input=" + url.QueryEscape(string(payload))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: execute request: %w", procedure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: read response: %w", procedure, err)
	}

	if resp.StatusCode >= 400 {
		msg := gjson.GetBytes(body, "error.json.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return gjson.Result{}, fmt.Errorf("%s: status %d: %s", procedure, resp.StatusCode, msg)
	}

	result := gjson.GetBytes(body, "result.data.json")
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("%s: malformed response envelope", procedure)
	}
	return result, nil
}

// ClaimQuery carries the parameters of getRewards.checkClaim. Thresholds and
// window anchors pass through to the backend unmodified.
type ClaimQuery struct {
	ContractID string   `json:"contract_id"`
	Address    string   `json:"address"`
	Methods    []string `json:"methods"`
	MinAmount  int64    `json:"minimum_amount"`
	Since      int64    `json:"since,omitempty"` // unix seconds; zero means unbounded
}

// CheckClaim reports whether the address performed a qualifying action on the
// contract.
func (c *Client) CheckClaim(ctx context.Context, q ClaimQuery) (bool, error) {
	result, err := c.query(ctx, "getRewards.checkClaim", q)
	if err != nil {
		return false, err
	}
	return result.Bool(), nil
}

// CheckClaimFriends reports whether the address referred at least friends
// qualifying participants through the listed methods.
func (c *Client) CheckClaimFriends(ctx context.Context, address string, methods []string, friends int) (bool, error) {
	result, err := c.query(ctx, "getRewards.checkClaimFriends", map[string]interface{}{
		"address": address,
		"methods": methods,
		"friends": friends,
	})
	if err != nil {
		return false, err
	}
	return result.Bool(), nil
}

// CheckBetCreatedBy reports whether the address deployed a custom bet
// contract.
func (c *Client) CheckBetCreatedBy(ctx context.Context, address string) (bool, error) {
	result, err := c.query(ctx, "getRewards.checkBetCreatedBy", map[string]string{"address": address})
	if err != nil {
		return false, err
	}
	return result.Bool(), nil
}

// CheckAnotherCustomToken reports whether the address swapped a third-party
// custom token.
func (c *Client) CheckAnotherCustomToken(ctx context.Context, address string) (bool, error) {
	result, err := c.query(ctx, "getRewards.checkAnotherCustomToken", map[string]string{"address": address})
	if err != nil {
		return false, err
	}
	return result.Bool(), nil
}

// CheckZealyUserAddress reports whether the address is registered on the
// quest platform.
func (c *Client) CheckZealyUserAddress(ctx context.Context, address string) (bool, error) {
	result, err := c.query(ctx, "getRewards.checkZealyUserAddress", map[string]string{"address": address})
	if err != nil {
		return false, err
	}
	return result.Bool(), nil
}

// CheckTokenCreatedBy returns the UUID of the token created by the address,
// or the empty string when none exists.
func (c *Client) CheckTokenCreatedBy(ctx context.Context, address string) (string, error) {
	result, err := c.query(ctx, "getTokens.checkCreatedBy", map[string]string{"address": address})
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// CheckFaucet reports the faucet availability flag for the address.
func (c *Client) CheckFaucet(ctx context.Context, address string) (bool, error) {
	result, err := c.query(ctx, "getFaucet.checkFaucet", map[string]string{"address": address})
	if err != nil {
		return false, err
	}
	return result.Bool(), nil
}

// GetBestBlock returns the network's latest block.
func (c *Client) GetBestBlock(ctx context.Context) (BestBlock, error) {
	result, err := c.query(ctx, "getNetwork.getBestBlock", nil)
	if err != nil {
		return BestBlock{}, err
	}

	var block BestBlock
	if err := json.Unmarshal([]byte(result.Raw), &block); err != nil {
		return BestBlock{}, fmt.Errorf("getNetwork.getBestBlock: decode: %w", err)
	}
	return block, nil
}

// AllPools returns the current state of every pool.
func (c *Client) AllPools(ctx context.Context) ([]Pool, error) {
	result, err := c.query(ctx, "getPools.all", nil)
	if err != nil {
		return nil, err
	}

	var pools []Pool
	if err := json.Unmarshal([]byte(result.Raw), &pools); err != nil {
		return nil, fmt.Errorf("getPools.all: decode: %w", err)
	}
	return pools, nil
}

// HTRPrice returns the current HTR price in USD.
func (c *Client) HTRPrice(ctx context.Context) (float64, error) {
	result, err := c.query(ctx, "getPrices.htr", nil)
	if err != nil {
		return 0, err
	}
	return result.Float(), nil
}
