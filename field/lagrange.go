package field

import (
	"math/big"

	"github.com/lavode/secret-sharing/gf"
	"github.com/pkg/errors"
)

// ErrInsufficientShares is returned by LagrangeC0 when fewer than the
// threshold number of points are supplied.
var ErrInsufficientShares = errors.New("field: fewer than threshold points supplied")

// ErrDuplicatePoint is returned by LagrangeC0 when two of the selected
// points share an x-coordinate, making interpolation undefined.
var ErrDuplicatePoint = errors.New("field: duplicate x-coordinate among points")

// Point is one evaluation (x, y) of a polynomial over F_q.
type Point struct {
	X *big.Int
	Y *big.Int
}

// LagrangeC0 reconstructs the constant term of a degree-(threshold-1)
// polynomial from at least `threshold` of its evaluations, via
// gf.BasePolynomial's Lagrange-basis-at-zero construction, applied
// additively rather than in the exponent:
//
//	c0 = sum_i ( y_i * L_i(0) ), where L_i(0) = gf.BasePolynomial(i, xs, field)
//
// Only the first `threshold` points (in the order given) participate;
// remaining points are ignored. Points with a repeated x-coordinate among
// the first `threshold` cause ErrDuplicatePoint.
func (f *Field) LagrangeC0(points []Point, threshold int) (*big.Int, error) {
	if len(points) < threshold {
		return nil, ErrInsufficientShares
	}

	pts := points[:threshold]

	xs := make([]*big.Int, len(pts))
	for i, p := range pts {
		xs[i] = p.X
	}
	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			if xs[i].Cmp(xs[j]) == 0 {
				return nil, ErrDuplicatePoint
			}
		}
	}

	c0 := big.NewInt(0)
	for i, p := range pts {
		basis := gf.BasePolynomial(i, xs, f.gf)
		c0 = f.Add(c0, f.Mul(basis, p.Y))
	}

	return c0, nil
}
