package record

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// CSVSink writes share records as CSV rows, one per Emit call, flushing
// after every row so a crashed process loses at most the in-flight write.
type CSVSink struct {
	w *csv.Writer
}

// NewCSVSink wraps w as a share-record Sink.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

// Emit writes rec as one CSV row.
func (s *CSVSink) Emit(rec ShareRecord) error {
	if err := s.w.Write(rec.EncodeCSVRow()); err != nil {
		return errors.Wrap(err, "record: write share record")
	}

	s.w.Flush()
	return s.w.Error()
}

// CSVSource reads share records from CSV, unconditionally skipping row 0
// rather than trying to detect header content.
type CSVSource struct {
	r             *csv.Reader
	skippedHeader bool
}

// NewCSVSource wraps r as a share-record Source.
func NewCSVSource(r io.Reader) *CSVSource {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return &CSVSource{r: cr}
}

// Next returns the next share record, skipping row 0 unconditionally.
func (s *CSVSource) Next() (ShareRecord, bool, error) {
	for {
		row, err := s.r.Read()
		if err == io.EOF {
			return ShareRecord{}, false, nil
		}
		if err != nil {
			return ShareRecord{}, false, errors.Wrap(err, "record: read csv row")
		}

		if !s.skippedHeader {
			s.skippedHeader = true
			continue
		}

		rec, err := DecodeShareRecordRow(row)
		if err != nil {
			return ShareRecord{}, false, err
		}

		return rec, true, nil
	}
}

// CSVResultSink writes result records as CSV rows.
type CSVResultSink struct {
	w *csv.Writer
}

// NewCSVResultSink wraps w as a result-record ResultSink.
func NewCSVResultSink(w io.Writer) *CSVResultSink {
	return &CSVResultSink{w: csv.NewWriter(w)}
}

// Emit writes rec as one CSV row.
func (s *CSVResultSink) Emit(rec ResultRecord) error {
	if err := s.w.Write(rec.EncodeCSVRow()); err != nil {
		return errors.Wrap(err, "record: write result record")
	}

	s.w.Flush()
	return s.w.Error()
}
