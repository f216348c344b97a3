// Package localstore maintains the client side display cache for the
// BlockDate CLI. It remembers which profiles this client liked, the
// transaction hashes behind creates and likes, and the last provisioned
// account pair. It is a display cache only, the chain stays the source
// of truth for everything except the hashes it cannot report.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Record represents one entry in the append only transaction log.
type Record struct {
	Hash      string `json:"hash"`
	Type      string `json:"type"`
	ProfileID int    `json:"profileId"`
	Timestamp int64  `json:"timestamp"`
}

// Accounts represents the last account pair provisioned for this client.
type Accounts struct {
	UserAccount  string `json:"userAccount"`
	SmartAccount string `json:"smartAccount"`
}

// state is the document serialized to disk. The keys mirror the names the
// browser client stores under.
type state struct {
	LikedProfiles map[int]bool     `json:"blockdate_liked_profiles"`
	ProfileTxs    map[int]string   `json:"blockdate_profile_txs"`
	LikeTxs       map[int][]string `json:"blockdate_like_txs"`
	Transactions  []Record         `json:"blockdate_transactions"`
	Accounts      *Accounts        `json:"blockdate_accounts,omitempty"`
}

// Store manages the cache file. Every mutation is written through to disk
// before it returns.
type Store struct {
	path string
	mu   sync.Mutex
	st   state
}

// Open loads the cache from the specified file, creating the enclosing
// directory when it doesn't exist yet.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	s := Store{
		path: path,
		st: state{
			LikedProfiles: make(map[int]bool),
			ProfileTxs:    make(map[int]string),
			LikeTxs:       make(map[int][]string),
		},
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &s, nil
		}
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&s.st); err != nil {
		return nil, fmt.Errorf("decoding store: %w", err)
	}

	return &s, nil
}

// Like marks the specified profile as liked by this client. It reports
// false without changing anything when the profile was already liked, so
// callers can gate duplicate like submissions.
func (s *Store) Like(profileID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.LikedProfiles[profileID] {
		return false, nil
	}

	s.st.LikedProfiles[profileID] = true
	if err := s.save(); err != nil {
		delete(s.st.LikedProfiles, profileID)
		return false, err
	}

	return true, nil
}

// Liked reports whether this client already liked the specified profile.
func (s *Store) Liked(profileID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.st.LikedProfiles[profileID]
}

// SetProfileTx records the creation transaction hash for a profile.
func (s *Store) SetProfileTx(profileID int, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.ProfileTxs[profileID] = hash
	return s.save()
}

// ProfileTx returns the creation transaction hash recorded for a profile.
func (s *Store) ProfileTx(profileID int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, exists := s.st.ProfileTxs[profileID]
	return hash, exists
}

// AddLikeTx appends a like transaction hash under the specified profile.
func (s *Store) AddLikeTx(profileID int, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.LikeTxs[profileID] = append(s.st.LikeTxs[profileID], hash)
	return s.save()
}

// LikeTxs returns the like transaction hashes recorded for a profile.
func (s *Store) LikeTxs(profileID int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	hashes := make([]string, len(s.st.LikeTxs[profileID]))
	copy(hashes, s.st.LikeTxs[profileID])
	return hashes
}

// AddRecord appends an entry to the transaction log.
func (s *Store) AddRecord(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Transactions = append(s.st.Transactions, record)
	return s.save()
}

// Records returns a copy of the transaction log in append order.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]Record, len(s.st.Transactions))
	copy(records, s.st.Transactions)
	return records
}

// SaveAccounts records the last provisioned account pair.
func (s *Store) SaveAccounts(accounts Accounts) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Accounts = &accounts
	return s.save()
}

// Accounts returns the last provisioned account pair if one was saved.
func (s *Store) Accounts() (Accounts, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.Accounts == nil {
		return Accounts{}, false
	}
	return *s.st.Accounts, true
}

// save writes the cache to disk in a human readable format. Callers must
// hold the mutex.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.st, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}
