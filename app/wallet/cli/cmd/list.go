package cmd

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/ammadhh/blockdate/foundation/registry"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered profiles.",
	Run:   listRun,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listRun(cmd *cobra.Command, args []string) {
	var profiles []registry.Profile
	if err := send(http.MethodGet, fmt.Sprintf("%s/v1/profiles", url), nil, &profiles); err != nil {
		log.Fatal(err)
	}

	store, err := getStore()
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range profiles {

		// Attach the creation hash from the local cache when this client
		// created the profile.
		if hash, ok := store.ProfileTx(p.ID); ok {
			p.TransactionHash = hash
		}

		liked := ""
		if store.Liked(p.ID) {
			liked = " ♥"
		}

		fmt.Printf("[%d] %s, %d%s\n", p.ID, p.Name, p.Age, liked)
		fmt.Printf("    %s\n", p.Bio)
		fmt.Printf("    interests: %s\n", strings.Join(p.InterestList(), ", "))
		fmt.Printf("    likes: %d\n", p.LikeCount)
		if p.TransactionHash != "" {
			fmt.Printf("    created in tx %s\n", p.TransactionHash)
		}
	}
}
