// Package record defines the Forculus share/result record types and their
// CSV wire encoding (spec section 6), plus the Source/Sink seams that
// decouple the Inserter and Evaluator from any particular transport —
// mirroring the way the retrieved pack's KVStore interface decouples block
// storage from a concrete database.
package record

import (
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"encoding/base64"
)

// IVSize is the length, in bytes, of a share record's initialization vector.
const IVSize = 16

// ErrMalformedRow is returned when a CSV row cannot be decoded as a
// ShareRecord.
var ErrMalformedRow = errors.New("record: malformed row")

// ShareRecord is the four-tuple (iv, ct, x, y) emitted by the Inserter for
// every report.
type ShareRecord struct {
	IV [IVSize]byte
	CT []byte
	X  *big.Int
	Y  *big.Int
}

// GroupKey identifies the (iv, ct) pair a share record belongs to.
func (r ShareRecord) GroupKey() string {
	return base64.StdEncoding.EncodeToString(r.IV[:]) + ":" + base64.StdEncoding.EncodeToString(r.CT)
}

// EncodeCSVRow renders the record as four CSV fields: base64 IV, base64 CT,
// decimal X, decimal Y.
func (r ShareRecord) EncodeCSVRow() []string {
	return []string{
		base64.StdEncoding.EncodeToString(r.IV[:]),
		base64.StdEncoding.EncodeToString(r.CT),
		r.X.String(),
		r.Y.String(),
	}
}

// DecodeShareRecordRow parses a CSV row back into a ShareRecord.
func DecodeShareRecordRow(row []string) (ShareRecord, error) {
	if len(row) != 4 {
		return ShareRecord{}, errors.Wrapf(ErrMalformedRow, "expected 4 fields, got %d", len(row))
	}

	ivBytes, err := base64.StdEncoding.DecodeString(row[0])
	if err != nil {
		return ShareRecord{}, errors.Wrap(ErrMalformedRow, "iv is not valid base64")
	}
	if len(ivBytes) != IVSize {
		return ShareRecord{}, errors.Wrapf(ErrMalformedRow, "iv must be %d bytes, got %d", IVSize, len(ivBytes))
	}

	ctBytes, err := base64.StdEncoding.DecodeString(row[1])
	if err != nil {
		return ShareRecord{}, errors.Wrap(ErrMalformedRow, "ciphertext is not valid base64")
	}
	if len(ctBytes) == 0 || len(ctBytes)%IVSize != 0 {
		return ShareRecord{}, errors.Wrap(ErrMalformedRow, "ciphertext length must be a positive multiple of 16")
	}

	x, ok := new(big.Int).SetString(row[2], 10)
	if !ok || x.Sign() < 0 {
		return ShareRecord{}, errors.Wrap(ErrMalformedRow, "x is not a non-negative decimal integer")
	}

	y, ok := new(big.Int).SetString(row[3], 10)
	if !ok || y.Sign() < 0 {
		return ShareRecord{}, errors.Wrap(ErrMalformedRow, "y is not a non-negative decimal integer")
	}

	var iv [IVSize]byte
	copy(iv[:], ivBytes)

	return ShareRecord{IV: iv, CT: ctBytes, X: x, Y: y}, nil
}

// ResultRecord is a recovered (plaintext, report count) pair.
type ResultRecord struct {
	Plaintext []byte
	Count     int
}

// EncodeCSVRow renders the record as two CSV fields: base64 plaintext and
// decimal count. base64 carries arbitrary, possibly non-printable plaintext
// bytes safely through a CSV cell.
func (r ResultRecord) EncodeCSVRow() []string {
	return []string{
		base64.StdEncoding.EncodeToString(r.Plaintext),
		strconv.Itoa(r.Count),
	}
}

// DecodeResultRecordRow parses a CSV row back into a ResultRecord.
func DecodeResultRecordRow(row []string) (ResultRecord, error) {
	if len(row) != 2 {
		return ResultRecord{}, errors.Wrapf(ErrMalformedRow, "expected 2 fields, got %d", len(row))
	}

	plaintext, err := base64.StdEncoding.DecodeString(row[0])
	if err != nil {
		return ResultRecord{}, errors.Wrap(ErrMalformedRow, "plaintext is not valid base64")
	}

	count, err := strconv.Atoi(row[1])
	if err != nil {
		return ResultRecord{}, errors.Wrap(ErrMalformedRow, "count is not an integer")
	}

	return ResultRecord{Plaintext: plaintext, Count: count}, nil
}
