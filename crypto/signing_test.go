package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed seed 00..1f for deterministic tests (NOT FOR PRODUCTION USE)
const testSeedHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func getTestKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	key, err := ParseSeed(testSeedHex, "test")
	require.NoError(t, err)
	return key
}

func TestSignHex(t *testing.T) {
	digest := sha256.Sum256([]byte("TIP:VERIFY:00000000000000000000000000000001"))

	t.Run("successful signing", func(t *testing.T) {
		sigHex, err := SignHex(testSeedHex, "spend_private_key", digest[:])
		require.NoError(t, err)

		sig, err := hex.DecodeString(sigHex)
		require.NoError(t, err)
		require.Len(t, sig, ed25519.SignatureSize)

		pub := getTestKey(t).Public().(ed25519.PublicKey)
		assert.True(t, VerifyEd25519(pub, digest[:], sig))
	})

	t.Run("deterministic", func(t *testing.T) {
		first, err := SignHex(testSeedHex, "spend_private_key", digest[:])
		require.NoError(t, err)
		second, err := SignHex(testSeedHex, "spend_private_key", digest[:])
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("64-byte key equals its seed prefix", func(t *testing.T) {
		full := hex.EncodeToString(getTestKey(t))
		require.Len(t, full, 128)

		fromSeed, err := SignHex(testSeedHex, "spend_private_key", digest[:])
		require.NoError(t, err)
		fromFull, err := SignHex(full, "spend_private_key", digest[:])
		require.NoError(t, err)
		assert.Equal(t, fromSeed, fromFull)
	})

	t.Run("64-byte key with a bogus public half", func(t *testing.T) {
		bogus := testSeedHex + strings.Repeat("ff", 32)
		fromSeed, err := SignHex(testSeedHex, "spend_private_key", digest[:])
		require.NoError(t, err)
		fromBogus, err := SignHex(bogus, "spend_private_key", digest[:])
		require.NoError(t, err)
		assert.Equal(t, fromSeed, fromBogus)
	})

	t.Run("empty data succeeds", func(t *testing.T) {
		sig, err := SignHex(testSeedHex, "spend_private_key", []byte{})
		assert.NoError(t, err)
		assert.NotEmpty(t, sig)
	})
}

func TestSignHexInvalidKeys(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		kind   Kind
		length int
	}{
		{"31 bytes", strings.Repeat("01", 31), InvalidKeyLength, 31},
		{"33 bytes", strings.Repeat("01", 33), InvalidKeyLength, 33},
		{"63 bytes", strings.Repeat("01", 63), InvalidKeyLength, 63},
		{"empty", "", InvalidKeyLength, 0},
		{"not hex", "zz" + testSeedHex[2:], InvalidKeyEncoding, 0},
		{"odd length", testSeedHex[1:], InvalidKeyEncoding, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := SignHex(tt.key, "spend_private_key", []byte("data"))
			require.Error(t, err)
			assert.Empty(t, sig)
			assert.True(t, errors.Is(err, tt.kind))

			var cerr *Error
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, "spend_private_key", cerr.Field)
			if tt.kind == InvalidKeyLength {
				assert.Equal(t, tt.length, cerr.Length)
				assert.Contains(t, err.Error(), "spend_private_key")
			}
		})
	}
}

func TestVerifyEd25519(t *testing.T) {
	key := getTestKey(t)
	pub := key.Public().(ed25519.PublicKey)
	data := []byte("test data")
	sig := SignEd25519(key, data)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, VerifyEd25519(pub, data, sig))
	})

	t.Run("wrong data", func(t *testing.T) {
		assert.False(t, VerifyEd25519(pub, []byte("wrong"), sig))
	})

	t.Run("wrong key", func(t *testing.T) {
		other := ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize))
		assert.False(t, VerifyEd25519(other.Public().(ed25519.PublicKey), data, sig))
	})

	t.Run("wrong lengths", func(t *testing.T) {
		assert.False(t, VerifyEd25519(pub[:31], data, sig))
		assert.False(t, VerifyEd25519(pub, data, sig[:63]))
	})
}

func TestPublicKeyHex(t *testing.T) {
	pubHex, err := PublicKeyHex(testSeedHex, "spend_private_key")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(getTestKey(t).Public().(ed25519.PublicKey)), pubHex)
}

func TestParsePublicKey(t *testing.T) {
	pubHex, err := PublicKeyHex(testSeedHex, "test")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		pub, err := ParsePublicKey(pubHex, "server_public_key")
		require.NoError(t, err)
		assert.Len(t, pub, 32)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := ParsePublicKey("", "server_public_key")
		assert.True(t, errors.Is(err, InputError))
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := ParsePublicKey(pubHex+"00", "server_public_key")
		assert.True(t, errors.Is(err, InvalidKeyLength))
	})

	t.Run("bad hex", func(t *testing.T) {
		_, err := ParsePublicKey("server-public-key", "server_public_key")
		assert.True(t, errors.Is(err, InvalidKeyEncoding))
	})
}

func TestErrorKinds(t *testing.T) {
	err := NewError(ClockError, "", nil)
	assert.True(t, errors.Is(err, ClockError))
	assert.False(t, errors.Is(err, InputError))
	assert.Equal(t, "clock error", err.Error())

	cause := errors.New("boom")
	wrapped := NewError(SerializationError, "claims", cause)
	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, "claims: serialization error: boom", wrapped.Error())
}
