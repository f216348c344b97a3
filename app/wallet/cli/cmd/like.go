package cmd

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

var likeCmd = &cobra.Command{
	Use:   "like [profile id]",
	Short: "Like a profile.",
	Args:  cobra.ExactArgs(1),
	Run:   likeRun,
}

func init() {
	rootCmd.AddCommand(likeCmd)
}

func likeRun(cmd *cobra.Command, args []string) {
	profileID, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatalf("invalid profile id %q", args[0])
	}

	store, err := getStore()
	if err != nil {
		log.Fatal(err)
	}

	// Re-liking a profile is gated here, before anything is submitted.
	if store.Liked(profileID) {
		fmt.Println("already liked profile", profileID)
		return
	}

	in := struct {
		ProfileID int `json:"profileId"`
	}{
		ProfileID: profileID,
	}

	var resp actionResponse
	if err := send(http.MethodPost, fmt.Sprintf("%s/v1/like-profile", url), in, &resp); err != nil {
		log.Fatal(err)
	}

	if !resp.Success {
		log.Fatalf("like failed: %s", resp.Error)
	}

	if _, err := store.Like(profileID); err != nil {
		log.Fatal(err)
	}
	if err := store.AddLikeTx(profileID, resp.TransactionHash); err != nil {
		log.Fatal(err)
	}
	if err := store.AddRecord(resp.TransactionInfo); err != nil {
		log.Fatal(err)
	}

	fmt.Println("liked profile", profileID)
	fmt.Println("tx hash:", resp.TransactionHash)
}
