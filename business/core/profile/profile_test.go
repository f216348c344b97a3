package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ammadhh/blockdate/business/core/account"
	"github.com/ammadhh/blockdate/business/core/profile"
	"github.com/ammadhh/blockdate/business/sys/validate"
	"github.com/ammadhh/blockdate/foundation/registry"
	"github.com/ammadhh/blockdate/foundation/wallet"
	"github.com/ethereum/go-ethereum/common"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

type provisioner struct {
	calls int
}

func (p *provisioner) Provision(ctx context.Context) (account.Pair, error) {
	p.calls++
	return account.Pair{UserAccount: "0xuser", SmartAccount: "0xsmart"}, nil
}

type submitter struct {
	status    string
	sends     int
	lastCalls []wallet.Call
}

func (s *submitter) SendUserOperation(ctx context.Context, smartAccount string, network string, calls []wallet.Call) (string, error) {
	s.sends++
	s.lastCalls = calls
	return "0xophash", nil
}

func (s *submitter) WaitUserOperation(ctx context.Context, smartAccount string, userOpHash string) (wallet.OpResult, error) {
	if s.status != wallet.StatusComplete {
		return wallet.OpResult{Status: s.status}, nil
	}
	return wallet.OpResult{Status: wallet.StatusComplete, TransactionHash: "0xfinaltx"}, nil
}

// ledger wraps a real registry for call packing but reports a canned
// count without touching a chain.
type ledger struct {
	*registry.Registry
	count int
}

func (l *ledger) Count(ctx context.Context) (int, error) {
	return l.count, nil
}

func newCore(t *testing.T, sub *submitter, prov *provisioner, count int) *profile.Core {
	t.Helper()

	reg, err := registry.New(registry.Config{
		ContractID: common.HexToAddress(registry.ContractAddress),
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a registry: %v", failed, err)
	}

	return profile.New(profile.Config{
		Provisioner: prov,
		Submitter:   sub,
		Ledger:      &ledger{Registry: reg, count: count},
		Network:     registry.Network,
	})
}

// =============================================================================

func Test_CreateProfile(t *testing.T) {
	t.Log("Given the need to register a new profile on the chain.")
	{
		t.Logf("\tTest 0:\tWhen creating a valid profile.")
		{
			prov := provisioner{}
			sub := submitter{status: wallet.StatusComplete}
			core := newCore(t, &sub, &prov, 6)

			np := profile.NewProfile{
				Name:      "Alice",
				Age:       25,
				Bio:       "Hi",
				Interests: "Chess,Hiking",
			}

			result, err := core.Create(context.Background(), np)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the profile: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to create the profile.", success)

			if result.ProfileID != 6 {
				t.Fatalf("\t%s\tTest 0:\tShould derive the id from the post-operation count, got %d.", failed, result.ProfileID)
			}
			t.Logf("\t%s\tTest 0:\tShould derive the id from the post-operation count.", success)

			if result.TransactionHash == "" {
				t.Fatalf("\t%s\tTest 0:\tShould get back a transaction hash.", failed)
			}
			if result.Accounts.SmartAccount != "0xsmart" {
				t.Fatalf("\t%s\tTest 0:\tShould carry the provisioned accounts, got %+v.", failed, result.Accounts)
			}
			if result.Record.Type != profile.TypeCreate || result.Record.ProfileID != 6 {
				t.Fatalf("\t%s\tTest 0:\tShould build a create record, got %+v.", failed, result.Record)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the hash, accounts and record.", success)

			if prov.calls != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould provision exactly one account pair, got %d.", failed, prov.calls)
			}
			t.Logf("\t%s\tTest 0:\tShould provision exactly one account pair.", success)

			if len(sub.lastCalls) != 1 || sub.lastCalls[0].Value != "0" {
				t.Fatalf("\t%s\tTest 0:\tShould submit a single zero value call, got %+v.", failed, sub.lastCalls)
			}
			t.Logf("\t%s\tTest 0:\tShould submit a single zero value call.", success)
		}
	}
}

func Test_CreateValidation(t *testing.T) {
	tt := []struct {
		name  string
		np    profile.NewProfile
		valid bool
	}{
		{"age 17", profile.NewProfile{Name: "A", Age: 17, Bio: "b", Interests: "c"}, false},
		{"age 18", profile.NewProfile{Name: "A", Age: 18, Bio: "b", Interests: "c"}, true},
		{"age 120", profile.NewProfile{Name: "A", Age: 120, Bio: "b", Interests: "c"}, true},
		{"age 121", profile.NewProfile{Name: "A", Age: 121, Bio: "b", Interests: "c"}, false},
		{"missing name", profile.NewProfile{Age: 25, Bio: "b", Interests: "c"}, false},
		{"missing bio", profile.NewProfile{Name: "A", Age: 25, Interests: "c"}, false},
		{"missing interests", profile.NewProfile{Name: "A", Age: 25, Bio: "b"}, false},
	}

	t.Log("Given the need to validate profile fields before any network call.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				prov := provisioner{}
				sub := submitter{status: wallet.StatusComplete}
				core := newCore(t, &sub, &prov, 1)

				_, err := core.Create(context.Background(), tst.np)

				if tst.valid {
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould accept %s: %v", failed, testID, tst.name, err)
					}
					t.Logf("\t%s\tTest %d:\tShould accept %s.", success, testID, tst.name)
					return
				}

				if !validate.IsFieldErrors(err) {
					t.Fatalf("\t%s\tTest %d:\tShould reject %s with field errors, got %v.", failed, testID, tst.name, err)
				}
				t.Logf("\t%s\tTest %d:\tShould reject %s with field errors.", success, testID, tst.name)

				if prov.calls != 0 || sub.sends != 0 {
					t.Fatalf("\t%s\tTest %d:\tShould not touch the network on invalid input.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould not touch the network on invalid input.", success, testID)
			}
			t.Run(tst.name, f)
		}
	}
}

func Test_LikeProfile(t *testing.T) {
	t.Log("Given the need to like a profile on the chain.")
	{
		t.Logf("\tTest 0:\tWhen the like operation completes.")
		{
			prov := provisioner{}
			sub := submitter{status: wallet.StatusComplete}
			core := newCore(t, &sub, &prov, 5)

			result, err := core.Like(context.Background(), 5)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to like the profile: %v", failed, err)
			}
			if result.Record.Type != profile.TypeLike || result.Record.ProfileID != 5 {
				t.Fatalf("\t%s\tTest 0:\tShould build a like record, got %+v.", failed, result.Record)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to like the profile.", success)
		}

		t.Logf("\tTest 1:\tWhen the like operation fails on the network.")
		{
			prov := provisioner{}
			sub := submitter{status: wallet.StatusFailed}
			core := newCore(t, &sub, &prov, 5)

			_, err := core.Like(context.Background(), 5)
			if !errors.Is(err, profile.ErrOperationFailed) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrOperationFailed, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrOperationFailed.", success)
		}

		t.Logf("\tTest 2:\tWhen the profile id is invalid.")
		{
			prov := provisioner{}
			sub := submitter{status: wallet.StatusComplete}
			core := newCore(t, &sub, &prov, 5)

			_, err := core.Like(context.Background(), 0)
			if !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tTest 2:\tShould reject id 0 with field errors, got %v.", failed, err)
			}
			if prov.calls != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould not provision accounts for an invalid id.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject id 0 before any network call.", success)
		}
	}
}

func Test_ImageURLPlaceholder(t *testing.T) {
	t.Log("Given the need to default a missing image to the placeholder.")
	{
		prov := provisioner{}
		sub := submitter{status: wallet.StatusComplete}
		core := newCore(t, &sub, &prov, 1)

		np := profile.NewProfile{
			Name:      "Alice",
			Age:       25,
			Bio:       "Hi",
			Interests: "Chess,Hiking",
		}

		if _, err := core.Create(context.Background(), np); err != nil {
			t.Fatalf("\t%s\tShould be able to create the profile: %v", failed, err)
		}

		// The encoded call data must carry the placeholder path. ABI
		// encoded strings appear in the data verbatim.
		data := sub.lastCalls[0].Data
		if !containsHex(data, registry.DefaultImageURL) {
			t.Fatalf("\t%s\tShould encode the placeholder image path into the call.", failed)
		}
		t.Logf("\t%s\tShould encode the placeholder image path into the call.", success)
	}
}

// containsHex reports whether the 0x-prefixed call data contains the
// specified string in its ABI encoded payload.
func containsHex(hexData string, s string) bool {
	want := ""
	for _, b := range []byte(s) {
		want += hexByte(b)
	}

	for i := 0; i+len(want) <= len(hexData); i++ {
		if hexData[i:i+len(want)] == want {
			return true
		}
	}
	return false
}

func hexByte(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0xf]})
}
