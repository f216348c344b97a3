// Package profile implements the write actions against the on-chain
// profile registry: registering new profiles and liking existing ones.
// Each action provisions its own account pair, encodes the contract call,
// submits it as a user operation, and waits for the operation to resolve.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ammadhh/blockdate/business/core/account"
	"github.com/ammadhh/blockdate/business/sys/validate"
	"github.com/ammadhh/blockdate/foundation/registry"
	"github.com/ammadhh/blockdate/foundation/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrOperationFailed is returned when a submitted user operation resolved
// to a terminal status other than complete. The wallet service reports no
// further detail.
var ErrOperationFailed = errors.New("operation failed")

// Provisioner represents the behavior needed to mint the account pair for
// an action. The account.Core type implements this interface.
type Provisioner interface {
	Provision(ctx context.Context) (account.Pair, error)
}

// Submitter represents the wallet service behavior needed to submit user
// operations. The wallet.Client type implements this interface.
type Submitter interface {
	SendUserOperation(ctx context.Context, smartAccount string, network string, calls []wallet.Call) (string, error)
	WaitUserOperation(ctx context.Context, smartAccount string, userOpHash string) (wallet.OpResult, error)
}

// Ledger represents the registry behavior needed to encode calls and read
// the profile count. The registry.Registry type implements this interface.
type Ledger interface {
	ContractID() common.Address
	Count(ctx context.Context) (int, error)
	PackCreateProfile(name string, age int, bio string, interests string, imageURL string) ([]byte, error)
	PackLikeProfile(profileID int) ([]byte, error)
}

// EvHandler defines a function that is called when write action
// events occur.
type EvHandler func(v string, args ...any)

// Config represents the configuration required to construct a core.
type Config struct {
	Provisioner Provisioner
	Submitter   Submitter
	Ledger      Ledger
	Network     string
	EvHandler   EvHandler
}

// Core implements the write action workflow.
type Core struct {
	provisioner Provisioner
	submitter   Submitter
	ledger      Ledger
	network     string
	evHandler   EvHandler
}

// New constructs a core for executing write actions.
func New(cfg Config) *Core {
	ev := func(v string, args ...any) {}
	if cfg.EvHandler != nil {
		ev = cfg.EvHandler
	}

	return &Core{
		provisioner: cfg.Provisioner,
		submitter:   cfg.Submitter,
		ledger:      cfg.Ledger,
		network:     cfg.Network,
		evHandler:   ev,
	}
}

// Create registers a new profile on the registry. On success the new
// profile's id is derived from the registry count read right after the
// operation completes.
func (c *Core) Create(ctx context.Context, np NewProfile) (ActionResult, error) {
	if err := validate.Check(np); err != nil {
		return ActionResult{}, err
	}

	if np.ImageURL == "" {
		np.ImageURL = registry.DefaultImageURL
	}

	pair, err := c.provisioner.Provision(ctx)
	if err != nil {
		return ActionResult{}, fmt.Errorf("provisioning accounts: %w", err)
	}

	data, err := c.ledger.PackCreateProfile(np.Name, np.Age, np.Bio, np.Interests, np.ImageURL)
	if err != nil {
		return ActionResult{}, fmt.Errorf("packing createProfile call: %w", err)
	}

	result, err := c.submit(ctx, pair, data)
	if err != nil {
		return ActionResult{}, err
	}

	// The registry assigns ids as a strictly increasing count, so the
	// count right after the operation completes is the new profile's id.
	// Two creates racing between completion and this read can observe the
	// same count. The registry cannot return the id from the write itself.
	count, err := c.ledger.Count(ctx)
	if err != nil {
		return ActionResult{}, fmt.Errorf("reading profile count: %w", err)
	}

	c.evHandler("profile: create: complete: id[%d] name[%s] tx[%s]", count, np.Name, result.TransactionHash)

	ar := ActionResult{
		TransactionHash: result.TransactionHash,
		ProfileID:       count,
		Accounts:        pair,
		Record: Record{
			Hash:      result.TransactionHash,
			Type:      TypeCreate,
			ProfileID: count,
			Timestamp: time.Now().UnixMilli(),
		},
	}

	return ar, nil
}

// Like submits a like for the specified profile.
func (c *Core) Like(ctx context.Context, profileID int) (ActionResult, error) {
	if err := validate.Check(likeAction{ProfileID: profileID}); err != nil {
		return ActionResult{}, err
	}

	pair, err := c.provisioner.Provision(ctx)
	if err != nil {
		return ActionResult{}, fmt.Errorf("provisioning accounts: %w", err)
	}

	data, err := c.ledger.PackLikeProfile(profileID)
	if err != nil {
		return ActionResult{}, fmt.Errorf("packing likeProfile call: %w", err)
	}

	result, err := c.submit(ctx, pair, data)
	if err != nil {
		return ActionResult{}, err
	}

	c.evHandler("profile: like: complete: id[%d] tx[%s]", profileID, result.TransactionHash)

	ar := ActionResult{
		TransactionHash: result.TransactionHash,
		Accounts:        pair,
		Record: Record{
			Hash:      result.TransactionHash,
			Type:      TypeLike,
			ProfileID: profileID,
			Timestamp: time.Now().UnixMilli(),
		},
	}

	return ar, nil
}

// submit sends the encoded call as a zero value user operation through
// the smart account and blocks until the operation resolves. Only a
// complete status counts as success.
func (c *Core) submit(ctx context.Context, pair account.Pair, data []byte) (wallet.OpResult, error) {
	calls := []wallet.Call{
		{
			To:    c.ledger.ContractID(),
			Data:  hexutil.Encode(data),
			Value: "0",
		},
	}

	userOpHash, err := c.submitter.SendUserOperation(ctx, pair.SmartAccount, c.network, calls)
	if err != nil {
		return wallet.OpResult{}, fmt.Errorf("sending user operation: %w", err)
	}

	result, err := c.submitter.WaitUserOperation(ctx, pair.SmartAccount, userOpHash)
	if err != nil {
		return wallet.OpResult{}, fmt.Errorf("waiting for user operation: %w", err)
	}

	if result.Status != wallet.StatusComplete {
		return wallet.OpResult{}, fmt.Errorf("user operation status %q: %w", result.Status, ErrOperationFailed)
	}

	return result, nil
}
