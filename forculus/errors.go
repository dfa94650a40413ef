package forculus

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a forculus error independently of the Go type system.
type Kind int

const (
	// KindInvalidArgument marks construction-time misuse, e.g. threshold < 2.
	KindInvalidArgument Kind = iota
	// KindInsufficientShares marks a Lagrange reconstruction attempted with
	// fewer than threshold points.
	KindInsufficientShares
	// KindDuplicatePoint marks two selected evaluation points sharing an
	// x-coordinate.
	KindDuplicatePoint
	// KindInvalidCiphertext marks a decryption whose padding is malformed.
	KindInvalidCiphertext
	// KindIoError marks a source/sink failure.
	KindIoError
)

// String renders the Kind as its constant name.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "KindInvalidArgument"
	case KindInsufficientShares:
		return "KindInsufficientShares"
	case KindDuplicatePoint:
		return "KindDuplicatePoint"
	case KindInvalidCiphertext:
		return "KindInvalidCiphertext"
	case KindIoError:
		return "KindIoError"
	default:
		return "KindUnknown"
	}
}

// Error is the error type returned across the forculus package. Op names the
// failing operation (e.g. "Insert", "ComputeAndEmit"); Err, when present, is
// the underlying cause and is reachable via errors.Unwrap, errors.Is and
// errors.As (Error has no Cause method, so errors.Cause stops at it).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("forculus: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("forculus: %s: %s", e.Op, e.Kind)
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, kind Kind, cause error) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Op: op, Err: cause}
}

// KindOf reports the Kind of err, if err is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var ferr *Error
	if errors.As(err, &ferr) {
		return ferr.Kind, true
	}
	return 0, false
}
