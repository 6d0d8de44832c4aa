// Package auth signs the bearer tokens that authenticate API calls.
//
// A token is a compact JWT signed with EdDSA by the session key:
//
//	base64url({"alg":"EdDSA"}) . base64url(claims) . base64url(signature)
//
// The sig claim binds the token to one HTTP request: it is
// hex(SHA-256(method || uri || body)) over the exact bytes sent, with the
// query string included in uri. Every call gets a fresh token and a fresh
// jti.
//
// # Usage
//
//	token, err := auth.SignAuthenticationToken("POST", "/addresses", body, user)
//	if err != nil {
//		return err
//	}
//	req.Header.Set("Authorization", "Bearer "+token)
package auth

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mixinsafe/safeclient/crypto"
	"github.com/mixinsafe/safeclient/safe"
)

// ScopeFull is the scope of user session tokens.
const ScopeFull = "FULL"

// TokenLifetime is the fixed validity window of a token (24*30*3 hours).
const TokenLifetime = 90 * 24 * time.Hour

var errBeforeEpoch = errors.New("system time is before the unix epoch")

// Claims is the claim set of a bearer token. User tokens carry uid and
// sid; OAuth tokens carry iss and aid instead.
type Claims struct {
	UserID          string `json:"uid,omitempty"`
	SessionID       string `json:"sid,omitempty"`
	AuthorizationID string `json:"aid,omitempty"`
	Signature       string `json:"sig"`
	Scope           string `json:"scp"`
	jwt.RegisteredClaims
}

// Signer builds bearer tokens. The zero value uses the system clock and
// random UUIDv4 request ids. A Signer is safe for concurrent use.
type Signer struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// NewRequestID generates a jti when the caller supplies none.
	NewRequestID func() string
}

var defaultSigner Signer

// RequestDigest returns hex(SHA-256(method || uri || body)).
func RequestDigest(method, uri string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(uri))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// SignAuthenticationToken signs a FULL scope user token with a random request id.
func SignAuthenticationToken(method, uri string, body []byte, user *safe.SafeUser) (string, error) {
	return defaultSigner.SignToken(method, uri, body, user, "")
}

// SignAuthenticationTokenWithoutBody signs a token for a bodyless request.
func SignAuthenticationTokenWithoutBody(method, uri string, user *safe.SafeUser) (string, error) {
	return defaultSigner.SignToken(method, uri, nil, user, "")
}

// SignAuthenticationTokenWithRequestID signs a token with a caller supplied
// request id. The same id should be sent as X-Request-Id.
func SignAuthenticationTokenWithRequestID(method, uri string, body []byte, requestID string, user *safe.SafeUser) (string, error) {
	return defaultSigner.SignToken(method, uri, body, user, requestID)
}

// SignOAuthAccessToken signs an app token for an OAuth authorization.
func SignOAuthAccessToken(appID, authorizationID, privateKey, method, uri string, body []byte, scope, requestID string) (string, error) {
	return defaultSigner.SignOAuthToken(appID, authorizationID, privateKey, method, uri, body, scope, requestID)
}

// SignToken signs a user session token. An empty requestID is replaced
// by a generated one.
func (s *Signer) SignToken(method, uri string, body []byte, user *safe.SafeUser, requestID string) (string, error) {
	if user == nil {
		return "", crypto.NewError(crypto.InputError, "user", nil)
	}
	if user.UserID == "" {
		return "", crypto.NewError(crypto.InputError, safe.FieldUserID, nil)
	}
	if user.SessionID == "" {
		return "", crypto.NewError(crypto.InputError, safe.FieldSessionID, nil)
	}

	claims, err := s.claims(method, uri, body, ScopeFull, requestID)
	if err != nil {
		return "", err
	}
	claims.UserID = user.UserID
	claims.SessionID = user.SessionID

	return sign(claims, user.SessionPrivateKey, safe.FieldSessionPrivateKey)
}

// SignOAuthToken signs a token on behalf of an app for an OAuth
// authorization. privateKey is the hex Ed25519 key issued with the
// authorization.
func (s *Signer) SignOAuthToken(appID, authorizationID, privateKey, method, uri string, body []byte, scope, requestID string) (string, error) {
	if appID == "" {
		return "", crypto.NewError(crypto.InputError, "app_id", nil)
	}
	if authorizationID == "" {
		return "", crypto.NewError(crypto.InputError, "authorization_id", nil)
	}

	claims, err := s.claims(method, uri, body, scope, requestID)
	if err != nil {
		return "", err
	}
	claims.Issuer = appID
	claims.AuthorizationID = authorizationID

	return sign(claims, privateKey, "private_key")
}

func (s *Signer) claims(method, uri string, body []byte, scope, requestID string) (*Claims, error) {
	now := s.now()
	if now.Unix() < 0 {
		return nil, crypto.NewError(crypto.ClockError, "", errBeforeEpoch)
	}
	if requestID == "" {
		requestID = s.requestID()
	}

	return &Claims{
		Signature: RequestDigest(method, uri, body),
		Scope:     scope,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
			ID:        requestID,
		},
	}, nil
}

func sign(claims *Claims, privateKeyHex, field string) (string, error) {
	key, err := crypto.ParseSeed(privateKeyHex, field)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	delete(token.Header, "typ")

	signed, err := token.SignedString(key)
	if err != nil {
		return "", crypto.NewError(crypto.SerializationError, "claims", err)
	}
	return signed, nil
}

func (s *Signer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Signer) requestID() string {
	if s.NewRequestID == nil {
		return uuid.NewString()
	}
	return s.NewRequestID()
}

// ParseToken verifies a token against the session public key and returns
// its claims. Expired tokens are rejected.
func ParseToken(tokenString string, publicKey ed25519.PublicKey) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// DecodeClaims returns the claims of a token without verifying it.
func DecodeClaims(tokenString string) (*Claims, error) {
	_, claims, err := DecodeToken(tokenString)
	return claims, err
}

// DecodeToken returns the header and claims of a token without verifying it.
func DecodeToken(tokenString string) (map[string]interface{}, *Claims, error) {
	claims := &Claims{}
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, nil, crypto.NewError(crypto.InputError, "token", err)
	}
	return token.Header, claims, nil
}
