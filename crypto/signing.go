// Package crypto provides the cryptographic primitives behind PIN proofs
// and bearer tokens.
//
// This package provides:
//   - Ed25519 seed and public key parsing from hex credentials
//   - Ed25519 signing and verification
//   - Ed25519 to X25519 key conversion and the shared key exchange
//   - AES-256-CBC with PKCS#7 padding
//   - A typed error taxonomy (Kind, Error)
//
// # Signing
//
// Sign data with a hex-encoded seed:
//
//	signature, err := crypto.SignHex(spendPrivateKey, "spend_private_key", digest)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Key exchange
//
// Derive the AES key shared with the server:
//
//	key, err := crypto.SharedKey(sessionSeed, serverPublicKey)
//	if err != nil {
//		log.Fatal(err)
//	}
package crypto

import (
	"crypto/ed25519"
	"encoding/hex"
)

// SignEd25519 signs data with an Ed25519 private key (RFC 8032, no prehash).
func SignEd25519(privateKey ed25519.PrivateKey, data []byte) []byte {
	return ed25519.Sign(privateKey, data)
}

// SignHex parses a hex seed and returns the hex-encoded signature over data.
// field is used in error messages.
func SignHex(privateKeyHex, field string, data []byte) (string, error) {
	privateKey, err := ParseSeed(privateKeyHex, field)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(SignEd25519(privateKey, data)), nil
}

// VerifyEd25519 verifies an Ed25519 signature. Wrong lengths report false.
func VerifyEd25519(publicKey []byte, data []byte, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), data, signature)
}
