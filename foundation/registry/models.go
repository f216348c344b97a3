package registry

import "strings"

// Profile represents a single record read from the registry contract. The
// TransactionHash field is never populated from the chain, the registry has
// no knowledge of it. Clients attach it from their own cache for display.
type Profile struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Age             int    `json:"age"`
	Bio             string `json:"bio"`
	Interests       string `json:"interests"`
	ImageURL        string `json:"imageUrl"`
	LikeCount       int    `json:"likeCount"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

// InterestList splits the comma separated interests field into its
// individual trimmed values.
func (p Profile) InterestList() []string {
	var list []string
	for _, interest := range strings.Split(p.Interests, ",") {
		if interest = strings.TrimSpace(interest); interest != "" {
			list = append(list, interest)
		}
	}
	return list
}
