// Package keys provides SafeUser credential loading.
//
// This package implements the api.KeyProvider interface for loading the
// keystore of a safe user from a file, from a path named by an environment
// variable, or from memory.
//
// # Keystore Format
//
// A keystore is a JSON object:
//
//	{
//	  "app_id": "<user id>",
//	  "session_id": "<session id>",
//	  "session_private_key": "<hex ed25519 seed>",
//	  "server_public_key": "<hex ed25519 public key>",
//	  "spend_private_key": "<hex ed25519 seed>"
//	}
//
// # Loading Keys
//
//	provider := &keys.FileKeyProvider{Path: "keystore.json"}
//	user, err := provider.GetSafeUser(context.Background())
//	if err != nil {
//		log.Fatal(err)
//	}
package keys

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mixinsafe/safeclient/safe"
)

// DefaultKeystoreEnv names the variable holding the keystore path.
const DefaultKeystoreEnv = "TEST_KEYSTORE_PATH"

// FileKeyProvider implements api.KeyProvider by reading a keystore file
type FileKeyProvider struct {
	Path string
	// SpendPrivateSum marks the spend key as aggregated.
	SpendPrivateSum bool
}

// GetSafeUser loads the keystore from Path
func (f *FileKeyProvider) GetSafeUser(ctx context.Context) (*safe.SafeUser, error) {
	user, err := LoadSafeUserFromFile(f.Path)
	if err != nil {
		return nil, err
	}
	user.IsSpendPrivateSum = f.SpendPrivateSum
	return user, nil
}

// EnvKeyProvider implements api.KeyProvider by reading the keystore file
// named by an environment variable
type EnvKeyProvider struct {
	// Env is the variable name. Defaults to TEST_KEYSTORE_PATH.
	Env string
}

// GetSafeUser loads the keystore from the path in Env
func (e *EnvKeyProvider) GetSafeUser(ctx context.Context) (*safe.SafeUser, error) {
	return LoadSafeUserFromEnv(e.Env)
}

// MemoryKeyProvider provides a SafeUser held in memory
type MemoryKeyProvider struct {
	user *safe.SafeUser
}

// NewMemoryKeyProvider creates a new memory-based key provider
func NewMemoryKeyProvider(user *safe.SafeUser) *MemoryKeyProvider {
	return &MemoryKeyProvider{user: user}
}

// GetSafeUser validates and returns a copy of the held SafeUser
func (m *MemoryKeyProvider) GetSafeUser(ctx context.Context) (*safe.SafeUser, error) {
	if m.user == nil {
		return nil, fmt.Errorf("no safe user configured")
	}
	if err := m.user.Validate(); err != nil {
		return nil, fmt.Errorf("invalid safe user: %w", err)
	}
	user := *m.user
	return &user, nil
}

// LoadSafeUserFromFile loads and validates a keystore file
func LoadSafeUserFromFile(path string) (*safe.SafeUser, error) {
	if path == "" {
		return nil, fmt.Errorf("keystore path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}
	return ParseSafeUser(data)
}

// LoadSafeUserFromEnv loads the keystore file named by env, or by
// TEST_KEYSTORE_PATH when env is empty
func LoadSafeUserFromEnv(env string) (*safe.SafeUser, error) {
	if env == "" {
		env = DefaultKeystoreEnv
	}
	path := strings.TrimSpace(os.Getenv(env))
	if path == "" {
		return nil, fmt.Errorf("environment variable %s is not set", env)
	}
	return LoadSafeUserFromFile(path)
}

// ParseSafeUser decodes and validates keystore JSON
func ParseSafeUser(data []byte) (*safe.SafeUser, error) {
	var user safe.SafeUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode keystore: %w", err)
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keystore: %w", err)
	}
	return &user, nil
}
