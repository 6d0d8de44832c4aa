// Package safe holds the credential bundle of a safe user and the
// spend-key helpers built on it.
package safe

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/mixinsafe/safeclient/crypto"
)

// Field names used in errors and in the keystore file.
const (
	FieldUserID            = "app_id"
	FieldSessionID         = "session_id"
	FieldSessionPrivateKey = "session_private_key"
	FieldServerPublicKey   = "server_public_key"
	FieldSpendPrivateKey   = "spend_private_key"
)

// SafeUser is the credential bundle every signed call needs.
type SafeUser struct {
	UserID            string `json:"app_id"`
	SessionID         string `json:"session_id"`
	SessionPrivateKey string `json:"session_private_key"`
	ServerPublicKey   string `json:"server_public_key"`
	SpendPrivateKey   string `json:"spend_private_key"`
	// IsSpendPrivateSum marks an aggregated spend key. It is carried
	// through to the signer unchanged and does not alter signing.
	IsSpendPrivateSum bool `json:"-"`
}

// NewSafeUser creates a SafeUser with a plain (non-aggregated) spend key.
func NewSafeUser(userID, sessionID, sessionPrivateKey, serverPublicKey, spendPrivateKey string) *SafeUser {
	return &SafeUser{
		UserID:            userID,
		SessionID:         sessionID,
		SessionPrivateKey: sessionPrivateKey,
		ServerPublicKey:   serverPublicKey,
		SpendPrivateKey:   spendPrivateKey,
	}
}

// Validate checks that every field is present and all key material parses.
func (u *SafeUser) Validate() error {
	if u.UserID == "" {
		return crypto.NewError(crypto.InputError, FieldUserID, nil)
	}
	if u.SessionID == "" {
		return crypto.NewError(crypto.InputError, FieldSessionID, nil)
	}
	if _, err := crypto.DecodeSeed(u.SessionPrivateKey, FieldSessionPrivateKey); err != nil {
		return err
	}
	if _, err := crypto.ParsePublicKey(u.ServerPublicKey, FieldServerPublicKey); err != nil {
		return err
	}
	if _, err := crypto.DecodeSeed(u.SpendPrivateKey, FieldSpendPrivateKey); err != nil {
		return err
	}
	return nil
}

// SpendPublicKeyHex returns the hex public key derived from the spend seed.
func (u *SafeUser) SpendPublicKeyHex() (string, error) {
	return crypto.PublicKeyHex(u.SpendPrivateKey, FieldSpendPrivateKey)
}

// SessionPublicKeyHex returns the hex public key derived from the session seed.
func (u *SafeUser) SessionPublicKeyHex() (string, error) {
	return crypto.PublicKeyHex(u.SessionPrivateKey, FieldSessionPrivateKey)
}

// SignUserID signs SHA-256(user id) with the spend key and returns the
// base64url (no padding) signature used when registering a safe user.
func (u *SafeUser) SignUserID() (string, error) {
	key, err := crypto.ParseSeed(u.SpendPrivateKey, FieldSpendPrivateKey)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256([]byte(u.UserID))
	return base64.RawURLEncoding.EncodeToString(crypto.SignEd25519(key, digest[:])), nil
}

// String omits key material so a SafeUser is safe to print.
func (u *SafeUser) String() string {
	return fmt.Sprintf("SafeUser{UserID: %s, SessionID: %s}", u.UserID, u.SessionID)
}
