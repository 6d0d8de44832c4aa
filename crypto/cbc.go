package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
)

var errBadPadding = errors.New("invalid PKCS#7 padding")

// EncryptCBC encrypts plaintext with AES-CBC and PKCS#7 padding under a
// fresh IV read from random. It returns IV || ciphertext.
func EncryptCBC(key, plaintext []byte, random io.Reader) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, NewError(InputError, "aes_key", err)
	}

	out := make([]byte, aes.BlockSize, aes.BlockSize+len(plaintext)+aes.BlockSize)
	if _, err := io.ReadFull(random, out); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, out[:aes.BlockSize]).CryptBlocks(ciphertext, padded)
	clear(padded)

	return append(out, ciphertext...), nil
}

// DecryptCBC reverses EncryptCBC.
func DecryptCBC(key, payload []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, NewError(InputError, "aes_key", err)
	}
	if len(payload) < 2*aes.BlockSize || len(payload)%aes.BlockSize != 0 {
		return nil, NewError(InputError, "ciphertext", fmt.Errorf("length %d is not a positive multiple of the block size", len(payload)))
	}

	iv, ciphertext := payload[:aes.BlockSize], payload[aes.BlockSize:]
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, NewError(InputError, "plaintext", errBadPadding)
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, NewError(InputError, "plaintext", errBadPadding)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, NewError(InputError, "plaintext", errBadPadding)
		}
	}
	return data[:len(data)-n], nil
}
