// Package cmd contains the BlockDate client app. It talks to the
// BlockDate service and keeps the display cache (liked profiles and
// transaction hashes) in a local store file, the same role the browser
// client's local storage plays.
package cmd

import (
	"os"

	"github.com/ammadhh/blockdate/foundation/localstore"
	"github.com/spf13/cobra"
)

var (
	url       string
	storePath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the BlockDate service.")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "zdate/state.json", "Path to the local state file.")
}

var rootCmd = &cobra.Command{
	Use:   "blockdate",
	Short: "BlockDate client",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getStore() (*localstore.Store, error) {
	return localstore.Open(storePath)
}
