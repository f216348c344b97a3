package profilegrp

import "github.com/ammadhh/blockdate/business/core/profile"

// accountInfo carries an account address in the response.
type accountInfo struct {
	Address string `json:"address"`
}

// likeRequest is the payload for a like action.
type likeRequest struct {
	ProfileID int `json:"profileId"`
}

// createResponse is returned for a successful profile creation.
type createResponse struct {
	Success         bool           `json:"success"`
	TransactionHash string         `json:"transactionHash"`
	ProfileID       int            `json:"profileId"`
	UserAccount     accountInfo    `json:"userAccount"`
	SmartAccount    accountInfo    `json:"smartAccount"`
	TransactionInfo profile.Record `json:"transactionInfo"`
}

// likeResponse is returned for a successful like action.
type likeResponse struct {
	Success         bool           `json:"success"`
	TransactionHash string         `json:"transactionHash"`
	TransactionInfo profile.Record `json:"transactionInfo"`
}

// accountsResponse is returned for a successful standalone provisioning.
type accountsResponse struct {
	Success      bool        `json:"success"`
	UserAccount  accountInfo `json:"userAccount"`
	SmartAccount accountInfo `json:"smartAccount"`
}
