package profile

import "github.com/ammadhh/blockdate/business/core/account"

// Action types recorded in the transaction log.
const (
	TypeCreate = "create"
	TypeLike   = "like"
)

// NewProfile contains the information needed to register a new profile.
// Validation happens server side regardless of what the UI checked.
type NewProfile struct {
	Name      string `json:"name" validate:"required"`
	Age       int    `json:"age" validate:"required,gte=18,lte=120"`
	Bio       string `json:"bio" validate:"required"`
	Interests string `json:"interests" validate:"required"`
	ImageURL  string `json:"imageUrl"`
}

// likeAction carries the input for a like so it can be validated the same
// way a new profile is.
type likeAction struct {
	ProfileID int `json:"profileId" validate:"required,gte=1"`
}

// Record represents the transaction information handed back to the client
// for its display cache.
type Record struct {
	Hash      string `json:"hash"`
	Type      string `json:"type"`
	ProfileID int    `json:"profileId"`
	Timestamp int64  `json:"timestamp"`
}

// ActionResult represents the outcome of a successful write action.
type ActionResult struct {
	TransactionHash string
	ProfileID       int
	Accounts        account.Pair
	Record          Record
}
