// Package account implements the provisioning workflow that mints the
// account pair used to submit a single on-chain action. Account pairs are
// never reused, every action gets a fresh one.
package account

import (
	"context"
	"fmt"

	"github.com/ammadhh/blockdate/foundation/wallet"
	"github.com/ethereum/go-ethereum/common"
)

// Provider represents the wallet service behavior the provisioner needs.
// The wallet.Client type implements this interface.
type Provider interface {
	CreateAccount(ctx context.Context) (wallet.Account, error)
	CreateSmartAccount(ctx context.Context, owner string) (wallet.Account, error)
	RequestFaucet(ctx context.Context, address string, network string, token string) (common.Hash, error)
}

// Waiter represents the behavior needed to wait for the funding
// transaction to confirm. The registry.Registry type implements this
// interface.
type Waiter interface {
	WaitConfirmed(ctx context.Context, txHash common.Hash) error
}

// EvHandler defines a function that is called when provisioning
// events occur.
type EvHandler func(v string, args ...any)

// Pair represents a provisioned identity account and the smart account
// delegated to it.
type Pair struct {
	UserAccount  string
	SmartAccount string
}

// Config represents the configuration required to construct a core.
type Config struct {
	Provider  Provider
	Waiter    Waiter
	Network   string
	Token     string
	EvHandler EvHandler
}

// Core implements the account provisioning workflow.
type Core struct {
	provider  Provider
	waiter    Waiter
	network   string
	token     string
	evHandler EvHandler
}

// New constructs a core for provisioning account pairs.
func New(cfg Config) *Core {
	ev := func(v string, args ...any) {}
	if cfg.EvHandler != nil {
		ev = cfg.EvHandler
	}

	return &Core{
		provider:  cfg.Provider,
		waiter:    cfg.Waiter,
		network:   cfg.Network,
		token:     cfg.Token,
		evHandler: ev,
	}
}

// Provision mints a fresh identity account and a smart account delegated
// to it, then funds the smart account through the faucet and waits for the
// funding transaction to confirm. The steps are strictly sequential and
// the first failure aborts the whole provisioning. Nothing is retried and
// no partial state is reused.
func (c *Core) Provision(ctx context.Context) (Pair, error) {
	userAccount, err := c.provider.CreateAccount(ctx)
	if err != nil {
		return Pair{}, fmt.Errorf("creating user account: %w", err)
	}
	c.evHandler("account: provision: user account[%s]", userAccount.Address)

	smartAccount, err := c.provider.CreateSmartAccount(ctx, userAccount.Address)
	if err != nil {
		return Pair{}, fmt.Errorf("creating smart account: %w", err)
	}
	c.evHandler("account: provision: smart account[%s]", smartAccount.Address)

	fundingTx, err := c.provider.RequestFaucet(ctx, smartAccount.Address, c.network, c.token)
	if err != nil {
		return Pair{}, fmt.Errorf("requesting faucet funds: %w", err)
	}
	c.evHandler("account: provision: faucet tx[%s]", fundingTx)

	if err := c.waiter.WaitConfirmed(ctx, fundingTx); err != nil {
		return Pair{}, fmt.Errorf("waiting for faucet confirmation: %w", err)
	}
	c.evHandler("account: provision: funded: smart account[%s]", smartAccount.Address)

	pair := Pair{
		UserAccount:  userAccount.Address,
		SmartAccount: smartAccount.Address,
	}

	return pair, nil
}
