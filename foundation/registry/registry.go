// Package registry provides read access and call data encoding for the
// on-chain profile registry contract.
package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Set of error variables for registry access.
var (
	ErrNotFound = errors.New("profile not found")
	ErrTimeout  = errors.New("confirmation wait timed out")
)

// Caller represents the behavior required to execute read calls against
// the chain. The ethclient.Client type implements this interface.
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ReceiptReader represents the behavior required to look up transaction
// receipts. The ethclient.Client type implements this interface.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// EvHandler defines a function that is called when registry events occur.
type EvHandler func(v string, args ...any)

// Config represents the configuration required to construct a registry.
type Config struct {
	Caller       Caller
	Receipts     ReceiptReader
	ContractID   common.Address
	PollInterval time.Duration
	EvHandler    EvHandler
}

// Registry manages read access to the profile registry contract and the
// encoding of write calls against it.
type Registry struct {
	caller       Caller
	receipts     ReceiptReader
	contractID   common.Address
	abi          abi.ABI
	pollInterval time.Duration
	evHandler    EvHandler
}

// New constructs a registry for the contract at the configured address.
func New(cfg Config) (*Registry, error) {
	contractABI, err := abi.JSON(strings.NewReader(BlockDateABI))
	if err != nil {
		return nil, fmt.Errorf("parsing contract abi: %w", err)
	}

	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = 2 * time.Second
	}

	ev := func(v string, args ...any) {}
	if cfg.EvHandler != nil {
		ev = cfg.EvHandler
	}

	r := Registry{
		caller:       cfg.Caller,
		receipts:     cfg.Receipts,
		contractID:   cfg.ContractID,
		abi:          contractABI,
		pollInterval: pollInterval,
		evHandler:    ev,
	}

	return &r, nil
}

// ContractID returns the address of the registry contract.
func (r *Registry) ContractID() common.Address {
	return r.contractID
}

// Count returns the total number of profiles currently registered.
func (r *Registry) Count(ctx context.Context) (int, error) {
	data, err := r.abi.Pack("profileCount")
	if err != nil {
		return 0, fmt.Errorf("packing profileCount call: %w", err)
	}

	result, err := r.call(ctx, data)
	if err != nil {
		return 0, fmt.Errorf("reading profile count: %w", err)
	}

	out, err := r.abi.Unpack("profileCount", result)
	if err != nil {
		return 0, fmt.Errorf("unpacking profile count: %w", err)
	}

	count, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("profile count has unexpected type %T", out[0])
	}

	return int(count.Int64()), nil
}

// ProfileByID reads the profile with the specified id from the registry.
// Ids are 1 based and assigned in creation order. A read against an id the
// contract doesn't know reverts, so any failure is reported as not found.
func (r *Registry) ProfileByID(ctx context.Context, profileID int) (Profile, error) {
	if profileID < 1 {
		return Profile{}, fmt.Errorf("profile id %d: %w", profileID, ErrNotFound)
	}

	data, err := r.abi.Pack("getProfile", big.NewInt(int64(profileID)))
	if err != nil {
		return Profile{}, fmt.Errorf("packing getProfile call: %w", err)
	}

	result, err := r.call(ctx, data)
	if err != nil {
		return Profile{}, fmt.Errorf("profile id %d: %s: %w", profileID, err, ErrNotFound)
	}

	out, err := r.abi.Unpack("getProfile", result)
	if err != nil {
		return Profile{}, fmt.Errorf("unpacking profile %d: %w", profileID, err)
	}

	p := Profile{
		ID:        profileID,
		Name:      out[0].(string),
		Age:       int(out[1].(*big.Int).Int64()),
		Bio:       out[2].(string),
		Interests: out[3].(string),
		ImageURL:  out[4].(string),
		LikeCount: int(out[5].(*big.Int).Int64()),
	}

	if p.ImageURL == "" {
		p.ImageURL = DefaultImageURL
	}

	return p, nil
}

// AllProfiles reads every registered profile in ascending id order. A
// profile that fails to read is skipped so one bad record doesn't take
// down the whole listing.
func (r *Registry) AllProfiles(ctx context.Context) ([]Profile, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	var profiles []Profile
	for id := 1; id <= count; id++ {
		p, err := r.ProfileByID(ctx, id)
		if err != nil {
			r.evHandler("registry: allprofiles: profile[%d]: ERROR: %s", id, err)
			continue
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

// WaitConfirmed blocks until the specified transaction has been mined into
// a block or the context expires.
func (r *Registry) WaitConfirmed(ctx context.Context, txHash common.Hash) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := r.receipts.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil && receipt != nil:
			r.evHandler("registry: waitconfirmed: tx[%s] block[%d]", txHash, receipt.BlockNumber)
			return nil

		case err != nil && !errors.Is(err, ethereum.NotFound):
			return fmt.Errorf("receipt for tx %s: %w", txHash, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("tx %s: %w", txHash, ErrTimeout)
		case <-ticker.C:
		}
	}
}

// PackCreateProfile encodes a createProfile call with the specified
// arguments. Argument order and types are fixed by the contract.
func (r *Registry) PackCreateProfile(name string, age int, bio string, interests string, imageURL string) ([]byte, error) {
	return r.abi.Pack("createProfile", name, big.NewInt(int64(age)), bio, interests, imageURL)
}

// PackLikeProfile encodes a likeProfile call for the specified profile id.
func (r *Registry) PackLikeProfile(profileID int) ([]byte, error) {
	return r.abi.Pack("likeProfile", big.NewInt(int64(profileID)))
}

// call executes a read only call against the registry contract.
func (r *Registry) call(ctx context.Context, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{
		To:   &r.contractID,
		Data: data,
	}

	return r.caller.CallContract(ctx, msg, nil)
}
