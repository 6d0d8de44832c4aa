// Package tip builds the domain-separated messages ("TIP bodies") that a
// spend key signs to authorize sensitive actions, and signs them.
//
// A TIP body is SHA-256(tag || field1 || ... || fieldN). Fields are
// concatenated without delimiters and the per-action field order is part
// of the wire protocol.
//
//	body := tip.ForWithdrawal(addressID, amount, fee, traceID, memo)
//	signature, err := tip.Sign(body, user.SpendPrivateKey, user.IsSpendPrivateSum)
//	if err != nil {
//		return err
//	}
package tip

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"strconv"

	"github.com/mixinsafe/safeclient/crypto"
)

// Domain tags. They are hashed verbatim, trailing colon included.
const (
	TagVerify                   = "TIP:VERIFY:"
	TagAddressAdd               = "TIP:ADDRESS:ADD:"
	TagAddressRemove            = "TIP:ADDRESS:REMOVE:"
	TagUserDeactivate           = "TIP:USER:DEACTIVATE:"
	TagEmergencyContactCreate   = "TIP:EMERGENCY:CONTACT:CREATE:"
	TagEmergencyContactRead     = "TIP:EMERGENCY:CONTACT:READ:"
	TagEmergencyContactRemove   = "TIP:EMERGENCY:CONTACT:REMOVE:"
	TagPhoneNumberUpdate        = "TIP:PHONE:NUMBER:UPDATE:"
	TagMultisigRequestSign      = "TIP:MULTISIG:REQUEST:SIGN:"
	TagMultisigRequestUnlock    = "TIP:MULTISIG:REQUEST:UNLOCK:"
	TagCollectibleRequestSign   = "TIP:COLLECTIBLE:REQUEST:SIGN:"
	TagCollectibleRequestUnlock = "TIP:COLLECTIBLE:REQUEST:UNLOCK:"
	TagTransferCreate           = "TIP:TRANSFER:CREATE:"
	TagWithdrawalCreate         = "TIP:WITHDRAWAL:CREATE:"
	TagRawTransactionCreate     = "TIP:TRANSACTION:CREATE:"
	TagOAuthApprove             = "TIP:OAUTH:APPROVE:"
	TagProvisioningUpdate       = "TIP:PROVISIONING:UPDATE:"
	TagOwnershipTransfer        = "TIP:APP:OWNERSHIP:TRANSFER:"
	TagSequencerRegister        = "SEQUENCER:REGISTER:"
)

// Tags lists every known domain tag.
var Tags = []string{
	TagVerify,
	TagAddressAdd,
	TagAddressRemove,
	TagUserDeactivate,
	TagEmergencyContactCreate,
	TagEmergencyContactRead,
	TagEmergencyContactRemove,
	TagPhoneNumberUpdate,
	TagMultisigRequestSign,
	TagMultisigRequestUnlock,
	TagCollectibleRequestSign,
	TagCollectibleRequestUnlock,
	TagTransferCreate,
	TagWithdrawalCreate,
	TagRawTransactionCreate,
	TagOAuthApprove,
	TagProvisioningUpdate,
	TagOwnershipTransfer,
	TagSequencerRegister,
}

// IsKnownTag reports whether tag is one of Tags.
func IsKnownTag(tag string) bool {
	return slices.Contains(Tags, tag)
}

// Body returns SHA-256(tag || fields...).
func Body(tag string, fields ...string) []byte {
	h := sha256.New()
	h.Write([]byte(tag))
	for _, f := range fields {
		h.Write([]byte(f))
	}
	return h.Sum(nil)
}

// ForVerify builds the PIN verification body. The timestamp is rendered as
// a zero-padded 32-digit decimal.
func ForVerify(timestampNano int64) []byte {
	return Body(TagVerify, fmt.Sprintf("%032d", timestampNano))
}

// ForSequencerRegister builds the registration body: userID, publicKey.
func ForSequencerRegister(userID, publicKey string) []byte {
	return Body(TagSequencerRegister, userID, publicKey)
}

// ForAddressAdd builds the address add body: assetID, destination, tag, label.
// Empty tag and label still occupy their positions.
func ForAddressAdd(assetID, destination, tag, label string) []byte {
	return Body(TagAddressAdd, assetID, destination, tag, label)
}

// ForAddressRemove builds the address removal body.
func ForAddressRemove(addressID string) []byte {
	return Body(TagAddressRemove, addressID)
}

// ForTransfer builds the transfer body: assetID, opponentID, amount, traceID, memo.
func ForTransfer(assetID, opponentID, amount, traceID, memo string) []byte {
	return Body(TagTransferCreate, assetID, opponentID, amount, traceID, memo)
}

// ForWithdrawal builds the withdrawal body: addressID, amount, fee, traceID, memo.
func ForWithdrawal(addressID, amount, fee, traceID, memo string) []byte {
	return Body(TagWithdrawalCreate, addressID, amount, fee, traceID, memo)
}

// ForRawTransaction builds the raw transaction body. Receivers are
// appended in order and the threshold is rendered in base 10.
func ForRawTransaction(assetID, opponentKey string, receivers []string, threshold int64, amount, traceID, memo string) []byte {
	fields := make([]string, 0, len(receivers)+6)
	fields = append(fields, assetID, opponentKey)
	fields = append(fields, receivers...)
	fields = append(fields, strconv.FormatInt(threshold, 10), amount, traceID, memo)
	return Body(TagRawTransactionCreate, fields...)
}

// Sign signs a TIP body with the spend key and returns the hex signature.
// The key may be a 32-byte seed or a 64-byte seed||public key.
//
// isSpendPrivateSum is accepted for aggregated keys and currently has no
// effect on the signature.
func Sign(body []byte, spendPrivateKey string, isSpendPrivateSum bool) (string, error) {
	return crypto.SignHex(spendPrivateKey, "spend_private_key", body)
}
