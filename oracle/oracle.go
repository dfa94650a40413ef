// Package oracle implements the Forculus random oracle H: HMAC-SHA256 keyed
// by an all-zero 160-byte key, built on crypto/hmac and crypto/sha256
// directly rather than a third-party hashing library.
package oracle

import (
	"crypto/hmac"
	"crypto/sha256"
)

// KeyLength is the length, in bytes, of the random oracle's fixed all-zero
// HMAC key.
const KeyLength = 160

// OutputLength is the length, in bytes, of one random oracle output.
const OutputLength = sha256.Size

var zeroKey = make([]byte, KeyLength)

// H is the random oracle: HMAC-SHA256 keyed by a 160-byte all-zero key. It
// is a pure function of msg.
func H(msg []byte) [OutputLength]byte {
	return mac(zeroKey, msg)
}

// Keyed evaluates HMAC-SHA256 under an arbitrary key. Forculus uses this to
// build the per-plaintext pseudorandom function H_s, keyed by a seed s
// itself derived from H.
func Keyed(key, msg []byte) [OutputLength]byte {
	return mac(key, msg)
}

func mac(key, msg []byte) [OutputLength]byte {
	h := hmac.New(sha256.New, key)
	// hash.Hash.Write never returns an error.
	h.Write(msg)

	var out [OutputLength]byte
	copy(out[:], h.Sum(nil))
	return out
}
