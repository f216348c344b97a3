// Package wallet implements the client for the external wallet service
// that owns signing identities, smart accounts, faucet funding, and user
// operation submission. The service performs the actual on-chain work,
// this client just drives its REST API.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Set of error variables for wallet service access.
var (
	ErrTimeout = errors.New("operation wait timed out")
)

// Set of terminal user operation statuses. Anything else is in flight.
const (
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Account represents an account minted by the wallet service.
type Account struct {
	Address string `json:"address"`
}

// Call represents a single contract call inside a user operation. All
// calls this application submits are zero value.
type Call struct {
	To    common.Address `json:"to"`
	Data  string         `json:"data"`
	Value string         `json:"value"`
}

// OpResult represents the terminal state of a submitted user operation.
// TransactionHash is only meaningful when Status is complete.
type OpResult struct {
	Status          string `json:"status"`
	TransactionHash string `json:"transactionHash"`
}

// Config represents the configuration required to construct a client. The
// three secrets come from the wallet service dashboard and are carried on
// every request.
type Config struct {
	URL          string
	APIKeyID     string
	APIKeySecret string
	WalletSecret string
	PollInterval time.Duration
	Client       *http.Client
}

// Client provides access to the wallet service API. Construct one at
// startup and share it, every method is safe for concurrent use.
type Client struct {
	url          string
	apiKeyID     string
	apiKeySecret string
	walletSecret string
	pollInterval time.Duration
	http         *http.Client
}

// New constructs a client for the wallet service at the configured URL.
func New(cfg Config) *Client {
	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = 2 * time.Second
	}

	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		url:          cfg.URL,
		apiKeyID:     cfg.APIKeyID,
		apiKeySecret: cfg.APIKeySecret,
		walletSecret: cfg.WalletSecret,
		pollInterval: pollInterval,
		http:         httpClient,
	}
}

// CreateAccount mints a new signing identity account.
func (c *Client) CreateAccount(ctx context.Context) (Account, error) {
	var account Account
	if err := c.send(ctx, http.MethodPost, "/v2/evm/accounts", nil, &account); err != nil {
		return Account{}, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

// CreateSmartAccount mints a smart account delegated to the specified
// owner identity.
func (c *Client) CreateSmartAccount(ctx context.Context, owner string) (Account, error) {
	in := struct {
		Owner string `json:"owner"`
	}{
		Owner: owner,
	}

	var account Account
	if err := c.send(ctx, http.MethodPost, "/v2/evm/smart-accounts", in, &account); err != nil {
		return Account{}, fmt.Errorf("create smart account: %w", err)
	}

	return account, nil
}

// RequestFaucet asks the faucet for test funds for the specified account
// and returns the hash of the pending funding transaction.
func (c *Client) RequestFaucet(ctx context.Context, address string, network string, token string) (common.Hash, error) {
	in := struct {
		Address string `json:"address"`
		Network string `json:"network"`
		Token   string `json:"token"`
	}{
		Address: address,
		Network: network,
		Token:   token,
	}

	var out struct {
		TransactionHash common.Hash `json:"transactionHash"`
	}
	if err := c.send(ctx, http.MethodPost, "/v2/evm/faucet", in, &out); err != nil {
		return common.Hash{}, fmt.Errorf("request faucet: %w", err)
	}

	return out.TransactionHash, nil
}

// SendUserOperation submits the specified calls through the smart account
// and returns a handle for the pending operation.
func (c *Client) SendUserOperation(ctx context.Context, smartAccount string, network string, calls []Call) (string, error) {
	in := struct {
		Network string `json:"network"`
		Calls   []Call `json:"calls"`
	}{
		Network: network,
		Calls:   calls,
	}

	url := fmt.Sprintf("/v2/evm/smart-accounts/%s/user-operations", smartAccount)

	var out struct {
		UserOpHash string `json:"userOpHash"`
	}
	if err := c.send(ctx, http.MethodPost, url, in, &out); err != nil {
		return "", fmt.Errorf("send user operation: %w", err)
	}

	return out.UserOpHash, nil
}

// WaitUserOperation blocks until the specified user operation reaches a
// terminal status or the context expires. A submitted operation cannot be
// cancelled, it runs to completion or failure on the network regardless.
func (c *Client) WaitUserOperation(ctx context.Context, smartAccount string, userOpHash string) (OpResult, error) {
	url := fmt.Sprintf("/v2/evm/smart-accounts/%s/user-operations/%s", smartAccount, userOpHash)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var result OpResult
		if err := c.send(ctx, http.MethodGet, url, nil, &result); err != nil {
			if ctx.Err() != nil {
				return OpResult{}, fmt.Errorf("user operation %s: %w", userOpHash, ErrTimeout)
			}
			return OpResult{}, fmt.Errorf("wait user operation: %w", err)
		}

		if result.Status == StatusComplete || result.Status == StatusFailed {
			return result, nil
		}

		select {
		case <-ctx.Done():
			return OpResult{}, fmt.Errorf("user operation %s: %w", userOpHash, ErrTimeout)
		case <-ticker.C:
		}
	}
}

// send marshals the input value, performs the HTTP request with the
// service credentials attached, and decodes the response into the output
// value when one is provided.
func (c *Client) send(ctx context.Context, method string, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key-Id", c.apiKeyID)
	req.Header.Set("X-Api-Key-Secret", c.apiKeySecret)
	req.Header.Set("X-Wallet-Secret", c.walletSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if err != nil {
			return fmt.Errorf("wallet service status %d", resp.StatusCode)
		}
		return fmt.Errorf("wallet service status %d: %s", resp.StatusCode, string(msg))
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
