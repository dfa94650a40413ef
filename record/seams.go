package record

// Sink accepts share records emitted by an Inserter, in the order produced.
type Sink interface {
	Emit(rec ShareRecord) error
}

// Source supplies share records to an Evaluator in some order of its own
// choosing. Next returns ok=false (with a nil error) once exhausted.
//
// The Evaluator groups records by (iv, ct) and, within a group, keeps the
// arrival order Next produces them in.
type Source interface {
	Next() (rec ShareRecord, ok bool, err error)
}

// ResultSink accepts recovered (plaintext, count) pairs emitted by an
// Evaluator.
type ResultSink interface {
	Emit(rec ResultRecord) error
}

// SliceSink collects emitted share records into an in-memory slice. Useful
// for tests and for composing with SliceSource without a CSV round-trip.
type SliceSink struct {
	Records []ShareRecord
}

// Emit appends rec to Records.
func (s *SliceSink) Emit(rec ShareRecord) error {
	s.Records = append(s.Records, rec)
	return nil
}

// SliceSource replays a fixed, ordered slice of share records.
type SliceSource struct {
	records []ShareRecord
	next    int
}

// NewSliceSource returns a Source that replays records in the given order.
func NewSliceSource(records []ShareRecord) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record in order.
func (s *SliceSource) Next() (ShareRecord, bool, error) {
	if s.next >= len(s.records) {
		return ShareRecord{}, false, nil
	}

	rec := s.records[s.next]
	s.next++
	return rec, true, nil
}

// SliceResultSink collects emitted result records into an in-memory slice.
type SliceResultSink struct {
	Records []ResultRecord
}

// Emit appends rec to Records.
func (s *SliceResultSink) Emit(rec ResultRecord) error {
	s.Records = append(s.Records, rec)
	return nil
}
