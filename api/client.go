package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/mixinsafe/safeclient/auth"
	"github.com/mixinsafe/safeclient/config"
	"github.com/mixinsafe/safeclient/crypto"
	"github.com/mixinsafe/safeclient/logging"
	"github.com/mixinsafe/safeclient/pin"
	"github.com/mixinsafe/safeclient/safe"
	"github.com/mixinsafe/safeclient/tip"
)

// ErrDataNotFound is returned when a successful response carries no data
var ErrDataNotFound = errors.New("API response did not contain data")

var errBeforeEpoch = errors.New("system time is before the unix epoch")

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// KeyProvider interface for providing safe user credentials
type KeyProvider interface {
	GetSafeUser(ctx context.Context) (*safe.SafeUser, error)
}

// Client implements the safe network API client
type Client struct {
	Config     *config.Config
	HTTPClient HTTPClient
	User       *safe.SafeUser
	Logger     *slog.Logger

	// Signer and Encryptor default to the system clock and crypto/rand.
	Signer    *auth.Signer
	Encryptor *pin.Encryptor
	// Now supplies PIN iterators and the verify timestamp.
	Now func() time.Time
}

// NewClient creates a new API client with key provider. A nil cfg uses
// config.Default and a nil httpClient uses an http.Client with the
// configured timeout.
func NewClient(cfg *config.Config, httpClient HTTPClient, provider KeyProvider) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout()}
	}

	user, err := provider.GetSafeUser(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load safe user: %w", err)
	}

	return &Client{
		Config:     cfg,
		HTTPClient: httpClient,
		User:       user,
		Logger:     logging.Discard(),
	}, nil
}

// Me returns the account of the authenticated user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, http.MethodGet, "/safe/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyTIP proves possession of the spend key with a timestamped TIP
// signature
func (c *Client) VerifyTIP(ctx context.Context) (*User, error) {
	now, err := c.nanos()
	if err != nil {
		return nil, err
	}

	pinBase64, err := c.pinProof(tip.ForVerify(int64(now)), now)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(verifyTIPRequest{PinBase64: pinBase64, Timestamp: int64(now)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verify request: %w", err)
	}

	var user User
	if err := c.call(ctx, http.MethodPost, "/pin/verify", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterSafeUser registers the spend public key of the user with the
// sequencer
func (c *Client) RegisterSafeUser(ctx context.Context) (*User, error) {
	publicKey, err := c.User.SpendPublicKeyHex()
	if err != nil {
		return nil, err
	}
	signature, err := c.User.SignUserID()
	if err != nil {
		return nil, err
	}
	iterator, err := c.nanos()
	if err != nil {
		return nil, err
	}

	pinBase64, err := c.pinProof(tip.ForSequencerRegister(c.User.UserID, publicKey), iterator)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(registerRequest{
		PublicKey: publicKey,
		Signature: signature,
		PinBase64: pinBase64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal register request: %w", err)
	}

	var user User
	if err := c.call(ctx, http.MethodPost, "/safe/users", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateAddress adds a withdrawal address
func (c *Client) CreateAddress(ctx context.Context, input *AddressInput) (*Address, error) {
	if input == nil {
		return nil, crypto.NewError(crypto.InputError, "address", nil)
	}
	iterator, err := c.nanos()
	if err != nil {
		return nil, err
	}

	pinBase64, err := c.pinProof(tip.ForAddressAdd(input.AssetID, input.Destination, input.Tag, input.Label), iterator)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(createAddressRequest{AddressInput: *input, PinBase64: pinBase64})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal address request: %w", err)
	}

	var address Address
	if err := c.call(ctx, http.MethodPost, "/addresses", body, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// ReadAddress fetches one address
func (c *Client) ReadAddress(ctx context.Context, addressID string) (*Address, error) {
	var address Address
	path := "/addresses/" + url.PathEscape(addressID)
	if err := c.call(ctx, http.MethodGet, path, nil, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// DeleteAddress removes an address. The server answers with no data.
func (c *Client) DeleteAddress(ctx context.Context, addressID string) error {
	iterator, err := c.nanos()
	if err != nil {
		return err
	}

	pinBase64, err := c.pinProof(tip.ForAddressRemove(addressID), iterator)
	if err != nil {
		return err
	}

	body, err := json.Marshal(deleteAddressRequest{PinBase64: pinBase64})
	if err != nil {
		return fmt.Errorf("failed to marshal delete request: %w", err)
	}

	path := "/addresses/" + url.PathEscape(addressID) + "/delete"
	return c.call(ctx, http.MethodPost, path, body, nil)
}

// ListAddressesByAsset lists the addresses of one asset
func (c *Client) ListAddressesByAsset(ctx context.Context, assetID string) ([]Address, error) {
	var addresses []Address
	path := "/assets/" + url.PathEscape(assetID) + "/addresses"
	if err := c.call(ctx, http.MethodGet, path, nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateWithdrawal withdraws to an existing address. The fee is bound into
// the TIP signature but is not part of the request body.
func (c *Client) CreateWithdrawal(ctx context.Context, input *WithdrawalInput) (*Withdrawal, error) {
	if input == nil {
		return nil, crypto.NewError(crypto.InputError, "withdrawal", nil)
	}
	iterator, err := c.nanos()
	if err != nil {
		return nil, err
	}

	body := tip.ForWithdrawal(input.AddressID, input.Amount, input.Fee, input.TraceID, input.Memo)
	pinBase64, err := c.pinProof(body, iterator)
	if err != nil {
		return nil, err
	}

	reqJSON, err := json.Marshal(withdrawalRequest{
		AddressID: input.AddressID,
		Amount:    input.Amount,
		TraceID:   input.TraceID,
		Memo:      input.Memo,
		PinBase64: pinBase64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal withdrawal request: %w", err)
	}

	var withdrawal Withdrawal
	if err := c.call(ctx, http.MethodPost, "/withdrawals", reqJSON, &withdrawal); err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// pinProof signs a TIP body with the spend key and encrypts the signature
// for the server
func (c *Client) pinProof(body []byte, iterator uint64) (string, error) {
	signature, err := tip.Sign(body, c.User.SpendPrivateKey, c.User.IsSpendPrivateSum)
	if err != nil {
		return "", fmt.Errorf("failed to sign tip body: %w", err)
	}
	encryptor := c.Encryptor
	if encryptor == nil {
		encryptor = &pin.Encryptor{}
	}
	pinBase64, err := encryptor.Encrypt(signature, iterator, c.User)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt pin: %w", err)
	}
	return pinBase64, nil
}

// call sends a signed request and decodes the data field into out. A nil
// out accepts a response without data.
func (c *Client) call(ctx context.Context, method, path string, body []byte, out any) error {
	requestID := uuid.NewString()

	signer := c.Signer
	if signer == nil {
		signer = &auth.Signer{}
	}
	token, err := signer.SignToken(method, path, body, c.User, requestID)
	if err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.Config.APIHost+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("User-Agent", c.Config.UserAgent)
	httpReq.Header.Set("X-Request-Id", requestID)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger().Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
	)

	if resp.StatusCode >= http.StatusInternalServerError {
		return &APIError{Status: resp.StatusCode, Description: "Server error"}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope APIResponse
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if out == nil {
		return nil
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%s %s: %w", method, path, ErrDataNotFound)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func (c *Client) nanos() (uint64, error) {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	n := now.UnixNano()
	if n < 0 {
		return 0, crypto.NewError(crypto.ClockError, "", errBeforeEpoch)
	}
	return uint64(n), nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return logging.Discard()
	}
	return c.Logger
}
