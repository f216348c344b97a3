package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	name      string
	age       int
	bio       string
	interests string
	imageURL  string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new profile on the chain.",
	Run:   createRun,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Profile name.")
	createCmd.Flags().IntVarP(&age, "age", "a", 0, "Profile age, 18 to 120.")
	createCmd.Flags().StringVarP(&bio, "bio", "b", "", "Profile bio.")
	createCmd.Flags().StringVarP(&interests, "interests", "i", "", "Comma separated interests.")
	createCmd.Flags().StringVarP(&imageURL, "image", "m", "", "Profile image url.")
}

func createRun(cmd *cobra.Command, args []string) {
	in := struct {
		Name      string `json:"name"`
		Age       int    `json:"age"`
		Bio       string `json:"bio"`
		Interests string `json:"interests"`
		ImageURL  string `json:"imageUrl"`
	}{
		Name:      name,
		Age:       age,
		Bio:       bio,
		Interests: interests,
		ImageURL:  imageURL,
	}

	var resp actionResponse
	if err := send(http.MethodPost, fmt.Sprintf("%s/v1/create-profile", url), in, &resp); err != nil {
		log.Fatal(err)
	}

	if !resp.Success {
		log.Fatalf("create profile failed: %s", resp.Error)
	}

	store, err := getStore()
	if err != nil {
		log.Fatal(err)
	}

	// The registry can't report a creation hash later, this cache is the
	// only place it survives.
	if err := store.SetProfileTx(resp.ProfileID, resp.TransactionHash); err != nil {
		log.Fatal(err)
	}
	if err := store.AddRecord(resp.TransactionInfo); err != nil {
		log.Fatal(err)
	}

	fmt.Println("profile id:", resp.ProfileID)
	fmt.Println("tx hash:   ", resp.TransactionHash)
}
