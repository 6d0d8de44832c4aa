package crypto

import (
	"crypto/ed25519"
	"crypto/sha512"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/curve25519"
)

// PrivateKeyToCurve25519 maps an Ed25519 seed to the X25519 scalar of the
// same key pair: the clamped low half of SHA-512(seed).
func PrivateKeyToCurve25519(seed []byte) []byte {
	digest := sha512.Sum512(seed)
	out := make([]byte, curve25519.ScalarSize)
	copy(out, digest[:curve25519.ScalarSize])
	out[0] &= 248
	out[31] &= 127
	out[31] |= 64
	return out
}

// PublicKeyToCurve25519 converts a compressed Edwards point to its
// Montgomery u-coordinate.
func PublicKeyToCurve25519(publicKey []byte) ([]byte, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, keyLengthError("public_key", len(publicKey))
	}
	point, err := new(edwards25519.Point).SetBytes(publicKey)
	if err != nil {
		return nil, NewError(InvalidPoint, "public_key", err)
	}
	return point.BytesMontgomery(), nil
}

// SharedKey runs X25519 between the converted Ed25519 seed and the
// converted Ed25519 public key of the counterpart. The 32-byte result is
// used directly as an AES-256 key.
func SharedKey(seed, publicKey []byte) ([]byte, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, keyLengthError("private_key", len(seed))
	}
	curvePublic, err := PublicKeyToCurve25519(publicKey)
	if err != nil {
		return nil, err
	}
	curvePrivate := PrivateKeyToCurve25519(seed)
	shared, err := curve25519.X25519(curvePrivate, curvePublic)
	clear(curvePrivate)
	if err != nil {
		return nil, NewError(InvalidPoint, "public_key", err)
	}
	return shared, nil
}
