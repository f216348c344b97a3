package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ammadhh/blockdate/foundation/localstore"
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Provision a funded account pair.",
	Run:   accountsRun,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func accountsRun(cmd *cobra.Command, args []string) {
	var resp actionResponse
	if err := send(http.MethodPost, fmt.Sprintf("%s/v1/create-accounts", url), struct{}{}, &resp); err != nil {
		log.Fatal(err)
	}

	if !resp.Success {
		log.Fatalf("create accounts failed: %s", resp.Error)
	}

	store, err := getStore()
	if err != nil {
		log.Fatal(err)
	}

	accounts := localstore.Accounts{
		UserAccount:  resp.UserAccount.Address,
		SmartAccount: resp.SmartAccount.Address,
	}
	if err := store.SaveAccounts(accounts); err != nil {
		log.Fatal(err)
	}

	fmt.Println("user account: ", resp.UserAccount.Address)
	fmt.Println("smart account:", resp.SmartAccount.Address)
}
