// Package api provides a client for the safe network HTTP API.
//
// The client handles:
// - Bearer token signing for every request, bound to the exact body sent
// - PIN proof construction for TIP-protected actions
// - Request/response marshaling and API error decoding
//
// # Usage
//
// Create a client using NewClient with a configuration and a key provider:
//
//	client, err := api.NewClient(cfg, httpClient, &keys.FileKeyProvider{Path: "keystore.json"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Call VerifyTIP to check the spend key against the server:
//
//	user, err := client.VerifyTIP(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
package api

import (
	"encoding/json"
	"fmt"
)

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *APIError       `json:"error,omitempty"`
}

// APIError is an error returned by the server, either in the response
// envelope or as a 5xx status
type APIError struct {
	Status      int    `json:"status"`
	Code        int    `json:"code"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status: %d, code: %d): %s", e.Status, e.Code, e.Description)
}

// User is the account view returned by /safe/me, /pin/verify and /safe/users
type User struct {
	UserID         string      `json:"user_id"`
	SessionID      string      `json:"session_id,omitempty"`
	IdentityNumber string      `json:"identity_number,omitempty"`
	FullName       string      `json:"full_name,omitempty"`
	AvatarURL      string      `json:"avatar_url,omitempty"`
	HasSafe        bool        `json:"has_safe"`
	TIPKeyBase64   string      `json:"tip_key_base64,omitempty"`
	AppID          string      `json:"app_id,omitempty"`
	Biography      string      `json:"biography,omitempty"`
	IsVerified     bool        `json:"is_verified"`
	IsDeactivated  bool        `json:"is_deactivated"`
	CreatedAt      string      `json:"created_at,omitempty"`
	Membership     *Membership `json:"membership,omitempty"`
}

// Membership is the subscription plan of a user
type Membership struct {
	Plan      string `json:"plan,omitempty"`
	ExpiredAt string `json:"expired_at,omitempty"`
}

// Address is a withdrawal address
type Address struct {
	AddressID   string `json:"address_id"`
	AssetID     string `json:"asset_id,omitempty"`
	Label       string `json:"label,omitempty"`
	Destination string `json:"destination,omitempty"`
	Tag         string `json:"tag,omitempty"`
	Fee         string `json:"fee,omitempty"`
	Dust        string `json:"dust,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// AddressInput describes an address to create
type AddressInput struct {
	AssetID     string `json:"asset_id"`
	Label       string `json:"label"`
	Destination string `json:"destination"`
	Tag         string `json:"tag"`
}

// WithdrawalInput describes a withdrawal to an existing address
type WithdrawalInput struct {
	AddressID string
	Amount    string
	Fee       string
	TraceID   string
	Memo      string
}

// Withdrawal is the server view of a created withdrawal
type Withdrawal struct {
	WithdrawalID string `json:"withdrawal_id,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
	AssetID      string `json:"asset_id,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Fee          string `json:"fee,omitempty"`
	Destination  string `json:"destination,omitempty"`
	Tag          string `json:"tag,omitempty"`
	SnapshotID   string `json:"snapshot_id,omitempty"`
	State        string `json:"state,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type verifyTIPRequest struct {
	PinBase64 string `json:"pin_base64"`
	Timestamp int64  `json:"timestamp"`
}

type registerRequest struct {
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
	PinBase64 string `json:"pin_base64"`
}

type createAddressRequest struct {
	AddressInput
	PinBase64 string `json:"pin_base64"`
}

type deleteAddressRequest struct {
	PinBase64 string `json:"pin_base64"`
}

type withdrawalRequest struct {
	AddressID string `json:"address_id"`
	Amount    string `json:"amount"`
	TraceID   string `json:"trace_id"`
	Memo      string `json:"memo,omitempty"`
	PinBase64 string `json:"pin_base64"`
}
