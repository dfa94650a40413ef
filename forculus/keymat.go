package forculus

import (
	"math/big"
	"strconv"

	"github.com/lavode/forculus/de"
	"github.com/lavode/forculus/field"
	"github.com/lavode/forculus/oracle"
)

// keyMaterial is the per-plaintext state an Inserter derives once and
// memoizes for the rest of its lifetime: the polynomial's coefficients, the
// deterministic (iv, ct) pair, and the HMAC seed s used to derive both the
// coefficients and every subsequent evaluation point for this plaintext.
type keyMaterial struct {
	coeffs []*big.Int // c_0 .. c_{k-1}
	iv     [de.IVSize]byte
	ct     []byte
	seed   []byte // s = H("1" || e || plaintext); keys H_s
}

// deriveKeyMaterial computes the key-derivation seed from the epoch and
// plaintext, derives the k polynomial coefficients from it, derives the AES
// key from c0, and deterministically encrypts the plaintext under that key.
func deriveKeyMaterial(params Params, f *field.Field, plaintext []byte) (*keyMaterial, error) {
	seedInput := make([]byte, 0, len(plaintext)+1+20)
	seedInput = append(seedInput, '1')
	seedInput = append(seedInput, []byte(strconv.FormatInt(params.E, 10))...)
	seedInput = append(seedInput, plaintext...)

	seedArr := oracle.H(seedInput)
	seed := seedArr[:]

	coeffs := make([]*big.Int, params.K)
	for i := 0; i < params.K; i++ {
		mac := oracle.Keyed(seed, []byte(strconv.Itoa(i)))
		coeffs[i] = new(big.Int).Mod(new(big.Int).SetBytes(mac[:]), f.Q)
	}

	key := low16BytesAfterPadding(coeffs[0])

	iv, ct, err := de.Encrypt(key, plaintext)
	if err != nil {
		return nil, newError("Insert", KindInvalidArgument, err)
	}

	return &keyMaterial{coeffs: coeffs, iv: iv, ct: ct, seed: seed}, nil
}

// low16BytesAfterPadding derives an AES-128 key from a field element: the
// little-endian byte sequence of n (no leading high-order zero bytes),
// padded on the right with ASCII '0'
// (0x30) bytes up to 16 bytes, truncated to the first 16 bytes.
//
// This is not a conventional encoding — in particular the padding byte is
// the ASCII digit '0' rather than 0x00 — but it must be reproduced exactly
// for interoperability with existing ciphertexts.
func low16BytesAfterPadding(n *big.Int) [de.KeySize]byte {
	be := n.Bytes() // big-endian, math/big already strips leading zero bytes

	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}

	var out [de.KeySize]byte
	if len(le) >= de.KeySize {
		copy(out[:], le[:de.KeySize])
		return out
	}

	copy(out[:], le)
	for i := len(le); i < de.KeySize; i++ {
		out[i] = '0'
	}
	return out
}
