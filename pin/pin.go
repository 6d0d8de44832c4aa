// Package pin encrypts TIP signatures into the replay-bound PIN proof
// ("pin_base64") sent with sensitive API calls.
//
// The plaintext is signature || u64le(unix seconds) || u64le(iterator). It
// is encrypted with AES-256-CBC under the X25519 key shared between the
// session key and the server key, and encoded as base64url without
// padding: base64url(IV || ciphertext).
//
// The iterator must not repeat for the same server key. Callers typically
// pass a nanosecond timestamp or a per-account counter.
package pin

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mixinsafe/safeclient/crypto"
	"github.com/mixinsafe/safeclient/safe"
)

const trailerSize = 16

var errBeforeEpoch = errors.New("system time is before the unix epoch")

// Encryptor produces PIN proofs. The zero value uses the system clock and
// crypto/rand. An Encryptor is safe for concurrent use.
type Encryptor struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// Rand is the IV source. Defaults to crypto/rand.Reader.
	Rand io.Reader
}

var defaultEncryptor Encryptor

// Encrypt encrypts a hex TIP signature with the system clock and crypto/rand.
func Encrypt(signatureHex string, iterator uint64, user *safe.SafeUser) (string, error) {
	return defaultEncryptor.Encrypt(signatureHex, iterator, user)
}

// Encrypt builds and encrypts the PIN payload. An empty signatureHex yields
// an empty proof and no error: some actions carry no PIN.
func (e *Encryptor) Encrypt(signatureHex string, iterator uint64, user *safe.SafeUser) (string, error) {
	if signatureHex == "" {
		return "", nil
	}
	key, err := SharedKey(user)
	if err != nil {
		return "", err
	}
	defer clear(key)

	signature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return "", crypto.NewError(crypto.InvalidKeyEncoding, "pin", err)
	}

	now, err := unixSeconds(e.now())
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, 0, len(signature)+trailerSize)
	plaintext = append(plaintext, signature...)
	plaintext = binary.LittleEndian.AppendUint64(plaintext, now)
	plaintext = binary.LittleEndian.AppendUint64(plaintext, iterator)
	defer clear(plaintext)

	payload, err := crypto.EncryptCBC(key, plaintext, e.random())
	if err != nil {
		return "", fmt.Errorf("failed to encrypt pin: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// SharedKey derives the AES key shared between the user's session key and
// the server public key.
func SharedKey(user *safe.SafeUser) ([]byte, error) {
	if user == nil {
		return nil, crypto.NewError(crypto.InputError, "user", nil)
	}
	seed, err := crypto.DecodeSeed(user.SessionPrivateKey, safe.FieldSessionPrivateKey)
	if err != nil {
		return nil, err
	}
	serverPublicKey, err := crypto.ParsePublicKey(user.ServerPublicKey, safe.FieldServerPublicKey)
	if err != nil {
		return nil, err
	}
	key, err := crypto.SharedKey(seed, serverPublicKey)
	if err != nil {
		var cerr *crypto.Error
		if errors.As(err, &cerr) {
			cerr.Field = safe.FieldServerPublicKey
		}
		return nil, err
	}
	return key, nil
}

func (e *Encryptor) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Encryptor) random() io.Reader {
	if e.Rand == nil {
		return rand.Reader
	}
	return e.Rand
}

func unixSeconds(t time.Time) (uint64, error) {
	secs := t.Unix()
	if secs < 0 {
		return 0, crypto.NewError(crypto.ClockError, "", errBeforeEpoch)
	}
	return uint64(secs), nil
}

// Payload is a decrypted PIN proof.
type Payload struct {
	Signature []byte
	Timestamp uint64
	Iterator  uint64
}

// Time returns the embedded timestamp.
func (p *Payload) Time() time.Time {
	return time.Unix(int64(p.Timestamp), 0)
}

// Decrypt opens a PIN proof with the shared key. It is the inverse of
// Encrypt and is what the server side does with pin_base64.
func Decrypt(encoded string, key []byte) (*Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, crypto.NewError(crypto.InputError, "pin_base64", err)
	}
	plaintext, err := crypto.DecryptCBC(key, raw)
	if err != nil {
		return nil, err
	}
	if len(plaintext) < trailerSize {
		return nil, crypto.NewError(crypto.InputError, "pin_base64", fmt.Errorf("payload too short: %d bytes", len(plaintext)))
	}

	n := len(plaintext) - trailerSize
	return &Payload{
		Signature: plaintext[:n],
		Timestamp: binary.LittleEndian.Uint64(plaintext[n : n+8]),
		Iterator:  binary.LittleEndian.Uint64(plaintext[n+8:]),
	}, nil
}
