package wallet_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ammadhh/blockdate/foundation/wallet"
	"github.com/ethereum/go-ethereum/common"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

// service simulates the wallet REST service. Operations become complete
// after a configurable number of status polls.
type service struct {
	t          *testing.T
	pollsLeft  int
	finalState string
	statusGets int
}

func (s *service) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v2/evm/accounts", func(w http.ResponseWriter, r *http.Request) {
		s.checkAuth(r)
		json.NewEncoder(w).Encode(wallet.Account{Address: "0x1111111111111111111111111111111111111111"})
	})

	mux.HandleFunc("POST /v2/evm/smart-accounts", func(w http.ResponseWriter, r *http.Request) {
		s.checkAuth(r)

		var in struct {
			Owner string `json:"owner"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		if in.Owner == "" {
			http.Error(w, "missing owner", http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(wallet.Account{Address: "0x2222222222222222222222222222222222222222"})
	})

	mux.HandleFunc("POST /v2/evm/faucet", func(w http.ResponseWriter, r *http.Request) {
		s.checkAuth(r)

		out := struct {
			TransactionHash common.Hash `json:"transactionHash"`
		}{
			TransactionHash: common.HexToHash("0xabc1"),
		}
		json.NewEncoder(w).Encode(out)
	})

	mux.HandleFunc("POST /v2/evm/smart-accounts/{account}/user-operations", func(w http.ResponseWriter, r *http.Request) {
		s.checkAuth(r)

		out := struct {
			UserOpHash string `json:"userOpHash"`
		}{
			UserOpHash: "0xophash",
		}
		json.NewEncoder(w).Encode(out)
	})

	mux.HandleFunc("GET /v2/evm/smart-accounts/{account}/user-operations/{op}", func(w http.ResponseWriter, r *http.Request) {
		s.checkAuth(r)
		s.statusGets++

		result := wallet.OpResult{Status: "pending"}
		if s.pollsLeft == 0 {
			result = wallet.OpResult{Status: s.finalState, TransactionHash: "0xfinaltx"}
		} else {
			s.pollsLeft--
		}
		json.NewEncoder(w).Encode(result)
	})

	return mux
}

func (s *service) checkAuth(r *http.Request) {
	if r.Header.Get("X-Api-Key-Id") != "key-id" || r.Header.Get("X-Api-Key-Secret") != "key-secret" {
		s.t.Errorf("\t%s\tShould carry the api credentials on %s %s.", failed, r.Method, r.URL.Path)
	}
}

func newClient(svc *service) (*wallet.Client, *httptest.Server) {
	srv := httptest.NewServer(svc.handler())

	client := wallet.New(wallet.Config{
		URL:          srv.URL,
		APIKeyID:     "key-id",
		APIKeySecret: "key-secret",
		WalletSecret: "wallet-secret",
		PollInterval: time.Millisecond,
	})

	return client, srv
}

// =============================================================================

func Test_AccountCreation(t *testing.T) {
	t.Log("Given the need to mint accounts through the wallet service.")
	{
		svc := service{t: t}
		client, srv := newClient(&svc)
		defer srv.Close()

		account, err := client.CreateAccount(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create an account: %v", failed, err)
		}
		if account.Address == "" {
			t.Fatalf("\t%s\tShould get back an account address.", failed)
		}
		t.Logf("\t%s\tShould be able to create an account.", success)

		smart, err := client.CreateSmartAccount(context.Background(), account.Address)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create a smart account: %v", failed, err)
		}
		if smart.Address == account.Address {
			t.Fatalf("\t%s\tShould get a distinct smart account address.", failed)
		}
		t.Logf("\t%s\tShould be able to create a smart account.", success)

		txHash, err := client.RequestFaucet(context.Background(), smart.Address, "base-sepolia", "eth")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to request faucet funds: %v", failed, err)
		}
		if txHash == (common.Hash{}) {
			t.Fatalf("\t%s\tShould get back a funding transaction hash.", failed)
		}
		t.Logf("\t%s\tShould be able to request faucet funds.", success)
	}
}

func Test_UserOperationLifecycle(t *testing.T) {
	t.Log("Given the need to submit a user operation and wait for it to resolve.")
	{
		t.Logf("\tTest 0:\tWhen the operation completes after three polls.")
		{
			svc := service{t: t, pollsLeft: 3, finalState: wallet.StatusComplete}
			client, srv := newClient(&svc)
			defer srv.Close()

			calls := []wallet.Call{{Data: "0xdeadbeef", Value: "0"}}
			opHash, err := client.SendUserOperation(context.Background(), "0x2222", "base-sepolia", calls)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the operation: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to submit the operation.", success)

			result, err := client.WaitUserOperation(context.Background(), "0x2222", opHash)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to wait for the operation: %v", failed, err)
			}
			if result.Status != wallet.StatusComplete {
				t.Fatalf("\t%s\tTest 0:\tShould end with a complete status, got %q.", failed, result.Status)
			}
			if result.TransactionHash == "" {
				t.Fatalf("\t%s\tTest 0:\tShould get back a transaction hash.", failed)
			}
			if svc.statusGets < 4 {
				t.Fatalf("\t%s\tTest 0:\tShould have polled at least 4 times, got %d.", failed, svc.statusGets)
			}
			t.Logf("\t%s\tTest 0:\tShould end with a complete status after polling.", success)
		}

		t.Logf("\tTest 1:\tWhen the operation fails on the network.")
		{
			svc := service{t: t, pollsLeft: 0, finalState: wallet.StatusFailed}
			client, srv := newClient(&svc)
			defer srv.Close()

			result, err := client.WaitUserOperation(context.Background(), "0x2222", "0xophash")
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould not get a transport error: %v", failed, err)
			}
			if result.Status != wallet.StatusFailed {
				t.Fatalf("\t%s\tTest 1:\tShould surface the failed status, got %q.", failed, result.Status)
			}
			t.Logf("\t%s\tTest 1:\tShould surface the failed status.", success)
		}

		t.Logf("\tTest 2:\tWhen the operation never resolves before the deadline.")
		{
			svc := service{t: t, pollsLeft: 1_000_000, finalState: wallet.StatusComplete}
			client, srv := newClient(&svc)
			defer srv.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()

			if _, err := client.WaitUserOperation(ctx, "0x2222", "0xophash"); !errors.Is(err, wallet.ErrTimeout) {
				t.Fatalf("\t%s\tTest 2:\tShould get ErrTimeout, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get ErrTimeout.", success)
		}
	}
}

func Test_ServiceErrors(t *testing.T) {
	t.Log("Given the need to surface wallet service failures.")
	{
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no funds left", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := wallet.New(wallet.Config{URL: srv.URL, PollInterval: time.Millisecond})

		_, err := client.RequestFaucet(context.Background(), "0x2222", "base-sepolia", "eth")
		if err == nil {
			t.Fatalf("\t%s\tShould get an error from a failing faucet.", failed)
		}
		t.Logf("\t%s\tShould get an error from a failing faucet: %v", success, err)
	}
}
