// Package de implements Forculus's deterministic symmetric encryption: AES-128
// in CBC mode with an IV derived deterministically from the plaintext via the
// random oracle, and an idiosyncratic (non-PKCS#7) padding scheme that must
// be reproduced exactly for wire compatibility.
package de

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/pkg/errors"

	"github.com/lavode/forculus/oracle"
)

// KeySize is the AES-128 key size in bytes.
const KeySize = 16

// IVSize is the AES block / IV size in bytes.
const IVSize = 16

// ErrInvalidCiphertext is returned by Decrypt when the ciphertext length is
// not a positive multiple of the block size, or its padding is malformed.
var ErrInvalidCiphertext = errors.New("de: invalid ciphertext or padding")

// IV deterministically derives the initialization vector for a plaintext as
// the first 16 bytes of H(0x30 || plaintext), where 0x30 is the ASCII
// character '0'.
func IV(plaintext []byte) [IVSize]byte {
	input := make([]byte, 0, len(plaintext)+1)
	input = append(input, '0')
	input = append(input, plaintext...)

	full := oracle.H(input)

	var iv [IVSize]byte
	copy(iv[:], full[:IVSize])
	return iv
}

// pad implements Forculus's length-prefixed padding: the plaintext is
// extended to a multiple of 16 bytes, the last byte of the padded message
// holding the padding length (including itself).
func pad(plaintext []byte) []byte {
	length := len(plaintext) + 1 // +1 for the trailing length byte

	if length%16 == 0 {
		out := make([]byte, len(plaintext)+1)
		copy(out, plaintext)
		out[len(out)-1] = 1
		return out
	}

	padLen := 16 - (length % 16) + 1
	out := make([]byte, len(plaintext)+padLen)
	copy(out, plaintext)
	// The padLen-1 bytes between the plaintext and the trailing length byte
	// are left at their zero value.
	out[len(out)-1] = byte(padLen)
	return out
}

// unpad reverses pad, validating that the trailing length byte is plausible.
func unpad(padded []byte) ([]byte, error) {
	if len(padded) == 0 {
		return nil, ErrInvalidCiphertext
	}

	padLen := int(padded[len(padded)-1])
	if padLen < 1 || padLen > 16 || padLen > len(padded) {
		return nil, ErrInvalidCiphertext
	}

	return padded[:len(padded)-padLen], nil
}

// Encrypt deterministically encrypts plaintext under the 16-byte key,
// returning the derived IV and the AES-128-CBC ciphertext.
func Encrypt(key [KeySize]byte, plaintext []byte) (iv [IVSize]byte, ciphertext []byte, err error) {
	iv = IV(plaintext)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return iv, nil, errors.Wrap(err, "de: construct AES cipher")
	}

	padded := pad(plaintext)
	ciphertext = make([]byte, len(padded))

	mode := cipher.NewCBCEncrypter(block, iv[:])
	mode.CryptBlocks(ciphertext, padded)

	return iv, ciphertext, nil
}

// Decrypt reverses Encrypt. Returns ErrInvalidCiphertext if the ciphertext
// length is not a nonzero multiple of the block size, or if the decrypted
// padding is malformed (a sign that the wrong key, i.e. wrong c0, was used).
func Decrypt(key [KeySize]byte, iv [IVSize]byte, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "de: construct AES cipher")
	}

	padded := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv[:])
	mode.CryptBlocks(padded, ciphertext)

	return unpad(padded)
}
