// Package config parses the tabular deployment configuration: a CSV header
// row and a single data row carrying the reconstruction threshold. Parsing
// stays on the standard library's encoding/csv (see DESIGN.md).
package config

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Record is a parsed configuration row. The epoch parameter and the prime q
// are constants of the deployed build, not part of the tabular record (see
// forculus.DefaultEpoch and forculus.Q).
type Record struct {
	Threshold int
}

// ErrMissingField is returned when the configuration source has no
// "threshold" column.
var ErrMissingField = errors.New("config: missing required field \"threshold\"")

// Load parses a configuration record out of a CSV source with a header row
// naming its columns, one of which must be "threshold".
func Load(r io.Reader) (Record, error) {
	cr := csv.NewReader(r)

	rows, err := cr.ReadAll()
	if err != nil {
		return Record{}, errors.Wrap(err, "config: read csv")
	}
	if len(rows) < 2 {
		return Record{}, errors.New("config: expected a header row and at least one data row")
	}

	header := rows[0]
	col := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "threshold" {
			col = i
			break
		}
	}
	if col == -1 {
		return Record{}, ErrMissingField
	}

	data := rows[1]
	if col >= len(data) {
		return Record{}, ErrMissingField
	}

	threshold, err := strconv.Atoi(strings.TrimSpace(data[col]))
	if err != nil {
		return Record{}, errors.Wrap(err, "config: threshold is not an integer")
	}

	return Record{Threshold: threshold}, nil
}
