package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"
)

func testServerKey() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(bytes.Repeat([]byte{1}, ed25519.SeedSize))
}

func TestPrivateKeyToCurve25519(t *testing.T) {
	seed, err := DecodeSeed(testSeedHex, "test")
	require.NoError(t, err)

	scalar := PrivateKeyToCurve25519(seed)
	require.Len(t, scalar, 32)

	digest := sha512.Sum512(seed)
	assert.Equal(t, digest[0]&248, scalar[0])
	assert.Equal(t, digest[1:31], scalar[1:31])
	assert.Zero(t, scalar[0]&7, "low three bits must be cleared")
	assert.Zero(t, scalar[31]&128, "top bit must be cleared")
	assert.Equal(t, byte(64), scalar[31]&64, "second-highest bit must be set")
}

func TestPublicKeyToCurve25519(t *testing.T) {
	t.Run("matches the converted private key", func(t *testing.T) {
		key := getTestKey(t)
		u, err := PublicKeyToCurve25519(key.Public().(ed25519.PublicKey))
		require.NoError(t, err)

		expected, err := curve25519.X25519(PrivateKeyToCurve25519(key.Seed()), curve25519.Basepoint)
		require.NoError(t, err)
		assert.Equal(t, expected, u)
	})

	t.Run("point not on curve", func(t *testing.T) {
		invalid := make([]byte, 32)
		invalid[0] = 2
		_, err := PublicKeyToCurve25519(invalid)
		require.Error(t, err)
		assert.True(t, errors.Is(err, InvalidPoint))
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := PublicKeyToCurve25519(make([]byte, 33))
		assert.True(t, errors.Is(err, InvalidKeyLength))
	})
}

func TestSharedKey(t *testing.T) {
	session := getTestKey(t)
	server := testServerKey()

	t.Run("symmetric", func(t *testing.T) {
		clientSide, err := SharedKey(session.Seed(), server.Public().(ed25519.PublicKey))
		require.NoError(t, err)
		serverSide, err := SharedKey(server.Seed(), session.Public().(ed25519.PublicKey))
		require.NoError(t, err)

		assert.Len(t, clientSide, 32)
		assert.Equal(t, clientSide, serverSide)
	})

	t.Run("different peers differ", func(t *testing.T) {
		other := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{2}, ed25519.SeedSize))
		a, err := SharedKey(session.Seed(), server.Public().(ed25519.PublicKey))
		require.NoError(t, err)
		b, err := SharedKey(session.Seed(), other.Public().(ed25519.PublicKey))
		require.NoError(t, err)
		assert.NotEqual(t, hex.EncodeToString(a), hex.EncodeToString(b))
	})

	t.Run("identity point rejected", func(t *testing.T) {
		identity := make([]byte, 32)
		identity[0] = 1
		_, err := SharedKey(session.Seed(), identity)
		require.Error(t, err)
		assert.True(t, errors.Is(err, InvalidPoint))
	})

	t.Run("invalid seed length", func(t *testing.T) {
		_, err := SharedKey(session.Seed()[:31], server.Public().(ed25519.PublicKey))
		assert.True(t, errors.Is(err, InvalidKeyLength))
	})
}
