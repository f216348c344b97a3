package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ammadhh/blockdate/foundation/localstore"
)

// accountInfo mirrors the account address shape the service returns.
type accountInfo struct {
	Address string `json:"address"`
}

// actionResponse covers the responses for every write endpoint. The
// service only populates the fields relevant to the action.
type actionResponse struct {
	Success         bool              `json:"success"`
	Error           string            `json:"error"`
	TransactionHash string            `json:"transactionHash"`
	ProfileID       int               `json:"profileId"`
	UserAccount     accountInfo       `json:"userAccount"`
	SmartAccount    accountInfo       `json:"smartAccount"`
	TransactionInfo localstore.Record `json:"transactionInfo"`
}

// send performs the HTTP request against the BlockDate service and
// decodes the response into the provided value.
func send(method string, url string, in any, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
