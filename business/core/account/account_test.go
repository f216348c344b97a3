package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ammadhh/blockdate/business/core/account"
	"github.com/ammadhh/blockdate/foundation/wallet"
	"github.com/ethereum/go-ethereum/common"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

// provider records the order of wallet service calls and can be told to
// fail at a given step.
type provider struct {
	calls      []string
	failFaucet bool
}

func (p *provider) CreateAccount(ctx context.Context) (wallet.Account, error) {
	p.calls = append(p.calls, "account")
	return wallet.Account{Address: "0xuser"}, nil
}

func (p *provider) CreateSmartAccount(ctx context.Context, owner string) (wallet.Account, error) {
	p.calls = append(p.calls, "smart:"+owner)
	return wallet.Account{Address: "0xsmart"}, nil
}

func (p *provider) RequestFaucet(ctx context.Context, address string, network string, token string) (common.Hash, error) {
	p.calls = append(p.calls, "faucet:"+address)
	if p.failFaucet {
		return common.Hash{}, errors.New("faucet empty")
	}
	return common.HexToHash("0xfund"), nil
}

type waiter struct {
	waited bool
}

func (w *waiter) WaitConfirmed(ctx context.Context, txHash common.Hash) error {
	w.waited = true
	return nil
}

// =============================================================================

func Test_Provision(t *testing.T) {
	t.Log("Given the need to provision a fresh account pair for an action.")
	{
		t.Logf("\tTest 0:\tWhen every provisioning step succeeds.")
		{
			p := provider{}
			w := waiter{}
			core := account.New(account.Config{
				Provider: &p,
				Waiter:   &w,
				Network:  "base-sepolia",
				Token:    "eth",
			})

			pair, err := core.Provision(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to provision: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to provision.", success)

			if pair.UserAccount != "0xuser" || pair.SmartAccount != "0xsmart" {
				t.Fatalf("\t%s\tTest 0:\tShould get back both addresses, got %+v.", failed, pair)
			}
			t.Logf("\t%s\tTest 0:\tShould get back both addresses.", success)

			exp := []string{"account", "smart:0xuser", "faucet:0xsmart"}
			if len(p.calls) != len(exp) {
				t.Fatalf("\t%s\tTest 0:\tShould make %d wallet calls, got %v.", failed, len(exp), p.calls)
			}
			for i := range exp {
				if p.calls[i] != exp[i] {
					t.Fatalf("\t%s\tTest 0:\tShould run the steps in order %v, got %v.", failed, exp, p.calls)
				}
			}
			if !w.waited {
				t.Fatalf("\t%s\tTest 0:\tShould wait for the funding confirmation.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould run the steps strictly in order.", success)
		}

		t.Logf("\tTest 1:\tWhen the faucet request fails.")
		{
			p := provider{failFaucet: true}
			w := waiter{}
			core := account.New(account.Config{Provider: &p, Waiter: &w})

			if _, err := core.Provision(context.Background()); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould fail the whole provisioning.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould fail the whole provisioning.", success)

			if w.waited {
				t.Fatalf("\t%s\tTest 1:\tShould not wait for confirmation after a failed faucet.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould not wait for confirmation after a failed faucet.", success)
		}
	}
}
