// Package forculus implements the Forculus threshold encryption scheme: key
// derivation from a plaintext, deterministic symmetric encryption under that
// key, secret-sharing of the key over F_q via a random polynomial, and
// threshold reconstruction via Lagrange interpolation.
//
// Two top-level values share the same immutable configuration and field
// substrate without any inheritance between them: Inserter plays the client
// role, Evaluator the server role.
package forculus

import (
	"fmt"
	"math/big"
)

// DefaultEpoch is the deployed build's epoch parameter. It is not applied
// automatically: a Params whose E is left at zero uses epoch 0.
const DefaultEpoch int64 = 1

// Q is the prime modulus of the field F_q Forculus operates over: 2^160 + 7.
var Q = func() *big.Int {
	q := new(big.Int).Lsh(big.NewInt(1), 160)
	return q.Add(q, big.NewInt(7))
}()

// Params is the configuration shared by an Inserter/Evaluator pair: the
// threshold k and the epoch e. The prime q is the package-level constant Q.
type Params struct {
	// K is the threshold: the number of polynomial coefficients, and the
	// number of distinct evaluation points required for reconstruction.
	K int
	// E is the epoch, a domain-separation scalar bound to the deployment.
	E int64
}

// Validate checks that Params is usable for construction of an Inserter or
// Evaluator.
func (p Params) Validate() error {
	if p.K < 2 {
		return newError("Params.Validate", KindInvalidArgument, fmt.Errorf("threshold must be >= 2, got %d", p.K))
	}
	return nil
}
