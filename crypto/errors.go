package crypto

import (
	"errors"
	"fmt"
)

var errMissing = errors.New("value is missing")

// Kind classifies failures of the signing and encryption pipeline.
//
// A Kind is itself an error so callers can match on it with errors.Is:
//
//	if errors.Is(err, crypto.InvalidKeyLength) {
//		// misconfigured credentials
//	}
type Kind uint8

const (
	// InvalidKeyLength is returned when decoded key material is not one
	// of the accepted lengths.
	InvalidKeyLength Kind = iota + 1
	// InvalidKeyEncoding is returned for hex decode failures.
	InvalidKeyEncoding
	// InvalidPoint is returned when an Edwards point fails to decompress
	// or the key exchange lands on a low-order point.
	InvalidPoint
	// InputError is returned for structurally invalid caller input.
	InputError
	// ClockError is returned when the system time is unusable.
	ClockError
	// SerializationError is returned when claims or payloads fail to encode.
	SerializationError
)

func (k Kind) String() string {
	switch k {
	case InvalidKeyLength:
		return "invalid key length"
	case InvalidKeyEncoding:
		return "invalid key encoding"
	case InvalidPoint:
		return "invalid point"
	case InputError:
		return "invalid input"
	case ClockError:
		return "clock error"
	case SerializationError:
		return "serialization error"
	default:
		return fmt.Sprintf("unknown error kind %d", uint8(k))
	}
}

func (k Kind) Error() string {
	return k.String()
}

// Error is the error type returned by the pipeline packages.
type Error struct {
	Kind Kind
	// Field names the offending input, e.g. "spend_private_key".
	Field string
	// Length is the decoded length for InvalidKeyLength errors.
	Length int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Kind == InvalidKeyLength {
		msg = fmt.Sprintf("%s (got %d bytes)", msg, e.Length)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// NewError returns an *Error of the given kind for field.
func NewError(kind Kind, field string, err error) *Error {
	return &Error{Kind: kind, Field: field, Err: err}
}

func keyLengthError(field string, length int) *Error {
	return &Error{Kind: InvalidKeyLength, Field: field, Length: length}
}
