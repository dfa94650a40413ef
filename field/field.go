// Package field implements modular arithmetic over the prime field F_q used
// by the Forculus secret sharing scheme.
//
// Multiplication, exponentiation and random sampling are delegated to
// github.com/lavode/secret-sharing/gf, a modulus-parameterized finite field
// type. Addition, subtraction and modular inverse are implemented directly
// against math/big, since gf.GF exposes no equivalent of its own.
package field

import (
	"math/big"

	"github.com/lavode/secret-sharing/gf"
	"github.com/pkg/errors"
)

// ErrZero is returned by Inv and Div when asked to invert/divide by zero.
var ErrZero = errors.New("field: no multiplicative inverse of zero")

// Field is modular arithmetic modulo a fixed prime Q.
type Field struct {
	Q  *big.Int
	gf gf.GF
}

// New constructs the field F_q.
func New(q *big.Int) (*Field, error) {
	g, err := gf.NewGF(q)
	if err != nil {
		return nil, errors.Wrap(err, "field: construct GF(q)")
	}

	return &Field{
		Q:  new(big.Int).Set(q),
		gf: g,
	}, nil
}

// Add returns a + b mod q.
func (f *Field) Add(a, b *big.Int) *big.Int {
	out := new(big.Int).Add(a, b)
	return out.Mod(out, f.Q)
}

// Sub returns a - b mod q.
func (f *Field) Sub(a, b *big.Int) *big.Int {
	out := new(big.Int).Sub(a, b)
	return out.Mod(out, f.Q)
}

// Mul returns a * b mod q.
func (f *Field) Mul(a, b *big.Int) *big.Int {
	return f.gf.Mul(a, b)
}

// Exp returns base^exp mod q.
func (f *Field) Exp(base, exp *big.Int) *big.Int {
	return f.gf.Exp(base, exp)
}

// Rand returns a uniformly random element of F_q.
func (f *Field) Rand() (*big.Int, error) {
	return f.gf.Rand()
}

// Inv returns the multiplicative inverse of a modulo q via the extended
// Euclidean algorithm. Fails with ErrZero when a is congruent to 0 mod q.
//
// This is implemented by hand rather than via Exp(a, q-2) (Fermat's little
// theorem), keeping the inversion routine a distinct, separately reviewable
// code path from modular exponentiation.
func (f *Field) Inv(a *big.Int) (*big.Int, error) {
	r := new(big.Int).Mod(a, f.Q)
	if r.Sign() == 0 {
		return nil, ErrZero
	}

	g, x, _ := extendedGCD(r, f.Q)
	if g.Cmp(big.NewInt(1)) != 0 {
		return nil, ErrZero
	}

	return x.Mod(x, f.Q), nil
}

// Div returns a / b mod q, i.e. a * Inv(b).
func (f *Field) Div(a, b *big.Int) (*big.Int, error) {
	inv, err := f.Inv(b)
	if err != nil {
		return nil, err
	}

	return f.Mul(a, inv), nil
}

// extendedGCD returns (g, x, y) such that a*x + b*y = g = gcd(a, b).
func extendedGCD(a, b *big.Int) (*big.Int, *big.Int, *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	for r.Sign() != 0 {
		quotient := new(big.Int).Div(oldR, r)

		oldR, r = r, new(big.Int).Sub(oldR, new(big.Int).Mul(quotient, r))
		oldS, s = s, new(big.Int).Sub(oldS, new(big.Int).Mul(quotient, s))
		oldT, t = t, new(big.Int).Sub(oldT, new(big.Int).Mul(quotient, t))
	}

	return oldR, oldS, oldT
}
