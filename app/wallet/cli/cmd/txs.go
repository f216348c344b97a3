package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
)

var txsCmd = &cobra.Command{
	Use:   "txs",
	Short: "Print the local transaction log.",
	Run:   txsRun,
}

func init() {
	rootCmd.AddCommand(txsCmd)
}

func txsRun(cmd *cobra.Command, args []string) {
	store, err := getStore()
	if err != nil {
		log.Fatal(err)
	}

	for _, record := range store.Records() {
		ts := time.UnixMilli(record.Timestamp).Format(time.RFC3339)
		fmt.Printf("%s  %-6s  profile[%d]  %s\n", ts, record.Type, record.ProfileID, record.Hash)
	}
}
