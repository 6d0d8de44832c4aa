package crypto

import (
	"crypto/ed25519"
	"encoding/hex"
)

// DecodeSeed decodes a hex private key into a 32-byte Ed25519 seed.
//
// A 64-byte key is a seed followed by its public key; only the seed is
// kept; the public half is never trusted and is re-derived on use.
func DecodeSeed(privateKeyHex, field string) ([]byte, error) {
	raw, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, NewError(InvalidKeyEncoding, field, err)
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return raw, nil
	case ed25519.PrivateKeySize:
		return raw[:ed25519.SeedSize], nil
	default:
		return nil, keyLengthError(field, len(raw))
	}
}

// ParseSeed decodes a hex private key and expands it into an Ed25519 private key.
func ParseSeed(privateKeyHex, field string) (ed25519.PrivateKey, error) {
	seed, err := DecodeSeed(privateKeyHex, field)
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// ParsePublicKey decodes a hex Ed25519 public key. It checks the length only;
// point validity is checked by PublicKeyToCurve25519.
func ParsePublicKey(publicKeyHex, field string) ([]byte, error) {
	if publicKeyHex == "" {
		return nil, NewError(InputError, field, errMissing)
	}
	raw, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, NewError(InvalidKeyEncoding, field, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, keyLengthError(field, len(raw))
	}
	return raw, nil
}

// PublicKeyHex returns the hex public key for a hex private key.
func PublicKeyHex(privateKeyHex, field string) (string, error) {
	privateKey, err := ParseSeed(privateKeyHex, field)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(privateKey.Public().(ed25519.PublicKey)), nil
}
