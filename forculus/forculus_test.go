package forculus

import (
	"bytes"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lavode/forculus/field"
	"github.com/lavode/forculus/record"
)

// deterministicReader is a math/rand-backed io.Reader so tests get
// reproducible evaluation points without weakening production entropy.
type deterministicReader struct {
	rnd *rand.Rand
}

func newDeterministicReader(seed int64) *deterministicReader {
	return &deterministicReader{rnd: rand.New(rand.NewSource(seed))}
}

func (d *deterministicReader) Read(p []byte) (int, error) {
	return d.rnd.Read(p)
}

func insertN(t *testing.T, ins *Inserter, plaintext []byte, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, ins.Insert(plaintext))
	}
}

func TestThreeOfThreeHelloRecovers(t *testing.T) {
	params := Params{K: 3, E: DefaultEpoch}
	sink := &record.SliceSink{}

	ins, err := NewInserter(params, sink, WithInserterRandSource(newDeterministicReader(1)))
	require.NoError(t, err)

	insertN(t, ins, []byte("hello"), 3)

	source := record.NewSliceSource(sink.Records)
	ev, err := NewEvaluator(params, source)
	require.NoError(t, err)

	resultSink := &record.SliceResultSink{}
	require.NoError(t, ev.ComputeAndEmit(resultSink))

	require.Len(t, resultSink.Records, 1)
	require.Equal(t, []byte("hello"), resultSink.Records[0].Plaintext)
	require.Equal(t, 3, resultSink.Records[0].Count)
}

func TestBelowThresholdRevealsNothing(t *testing.T) {
	params := Params{K: 3, E: DefaultEpoch}
	sink := &record.SliceSink{}

	ins, err := NewInserter(params, sink, WithInserterRandSource(newDeterministicReader(2)))
	require.NoError(t, err)

	insertN(t, ins, []byte("hello"), 2)
	insertN(t, ins, []byte("world"), 1)

	source := record.NewSliceSource(sink.Records)
	ev, err := NewEvaluator(params, source)
	require.NoError(t, err)

	resultSink := &record.SliceResultSink{}
	require.NoError(t, ev.ComputeAndEmit(resultSink))

	require.Empty(t, resultSink.Records)
	require.Equal(t, 2, ev.Stats().GroupsSeen)
	require.Equal(t, 0, ev.Stats().GroupsRecovered)
}

func TestFiveOfThreeRecoversConsistentlyAcrossSubsets(t *testing.T) {
	params := Params{K: 3, E: DefaultEpoch}
	sink := &record.SliceSink{}

	ins, err := NewInserter(params, sink, WithInserterRandSource(newDeterministicReader(3)))
	require.NoError(t, err)

	insertN(t, ins, []byte("hello"), 5)
	require.Len(t, sink.Records, 5)

	source := record.NewSliceSource(sink.Records)
	ev, err := NewEvaluator(params, source)
	require.NoError(t, err)

	resultSink := &record.SliceResultSink{}
	require.NoError(t, ev.ComputeAndEmit(resultSink))
	require.Len(t, resultSink.Records, 1)
	require.Equal(t, []byte("hello"), resultSink.Records[0].Plaintext)
	require.Equal(t, 5, resultSink.Records[0].Count)

	// Any 3-of-5 subset of the same records reconstructs the same master
	// key, since all 5 points lie on the one polynomial derived for "hello".
	subset := []record.ShareRecord{sink.Records[1], sink.Records[3], sink.Records[4]}
	subsetEv, err := NewEvaluator(params, record.NewSliceSource(subset))
	require.NoError(t, err)

	subsetSink := &record.SliceResultSink{}
	require.NoError(t, subsetEv.ComputeAndEmit(subsetSink))
	require.Len(t, subsetSink.Records, 1)
	require.Equal(t, []byte("hello"), subsetSink.Records[0].Plaintext)
	require.Equal(t, 3, subsetSink.Records[0].Count)
}

func TestSingleBytePlaintextDeterministicCiphertextVaryingPoints(t *testing.T) {
	params := Params{K: 2, E: DefaultEpoch}
	sink := &record.SliceSink{}

	ins, err := NewInserter(params, sink, WithInserterRandSource(newDeterministicReader(4)))
	require.NoError(t, err)

	insertN(t, ins, []byte("X"), 4)
	require.Len(t, sink.Records, 4)

	for _, rec := range sink.Records[1:] {
		require.Equal(t, sink.Records[0].IV, rec.IV)
		require.Equal(t, sink.Records[0].CT, rec.CT)
	}

	seen := map[string]bool{}
	for _, rec := range sink.Records {
		key := rec.X.String()
		require.False(t, seen[key], "evaluation points should not collide across 4 samples")
		seen[key] = true
	}
}

func TestThresholdFourWithThreeRecordsRevealsNothing(t *testing.T) {
	params := Params{K: 4, E: DefaultEpoch}
	sink := &record.SliceSink{}

	ins, err := NewInserter(params, sink, WithInserterRandSource(newDeterministicReader(5)))
	require.NoError(t, err)

	insertN(t, ins, []byte("hello"), 3)

	source := record.NewSliceSource(sink.Records)
	ev, err := NewEvaluator(params, source)
	require.NoError(t, err)

	resultSink := &record.SliceResultSink{}
	require.NoError(t, ev.ComputeAndEmit(resultSink))
	require.Empty(t, resultSink.Records)
}

func TestCorruptedEvaluationPointSkipsGroupWithoutAborting(t *testing.T) {
	params := Params{K: 3, E: DefaultEpoch}
	sink := &record.SliceSink{}

	ins, err := NewInserter(params, sink, WithInserterRandSource(newDeterministicReader(6)))
	require.NoError(t, err)

	insertN(t, ins, []byte("hello"), 3)
	insertN(t, ins, []byte("world"), 3)
	require.Len(t, sink.Records, 6)

	// Corrupt one of "hello"'s evaluation points into a duplicate of another
	// of its own points; "world" is untouched and must still recover.
	sink.Records[1].X = new(big.Int).Set(sink.Records[0].X)

	source := record.NewSliceSource(sink.Records)
	ev, err := NewEvaluator(params, source)
	require.NoError(t, err)

	resultSink := &record.SliceResultSink{}
	require.NoError(t, ev.ComputeAndEmit(resultSink))

	require.Len(t, resultSink.Records, 1)
	require.Equal(t, []byte("world"), resultSink.Records[0].Plaintext)
	require.Equal(t, 1, ev.Stats().SkippedDuplicatePoint)
}

func TestEmittedSharesSatisfyPolynomial(t *testing.T) {
	params := Params{K: 3, E: DefaultEpoch}
	sink := &record.SliceSink{}

	ins, err := NewInserter(params, sink, WithInserterRandSource(newDeterministicReader(7)))
	require.NoError(t, err)

	require.NoError(t, ins.Insert([]byte("hello")))

	km, ok := ins.cache["hello"]
	require.True(t, ok)

	f, err := field.New(Q)
	require.NoError(t, err)

	rec := sink.Records[0]

	expected := new(big.Int).Set(km.coeffs[len(km.coeffs)-1])
	for i := len(km.coeffs) - 2; i >= 0; i-- {
		expected = f.Add(f.Mul(expected, rec.X), km.coeffs[i])
	}

	require.Equal(t, 0, expected.Cmp(rec.Y))
}

func TestRoundTripPropertyAcrossThresholdsAndCounts(t *testing.T) {
	plaintexts := [][]byte{
		[]byte("alpha"),
		[]byte("beta"),
		bytes.Repeat([]byte("z"), 40),
	}

	for seed, k := range []int{2, 3, 5, 7} {
		k := k
		params := Params{K: k, E: DefaultEpoch}

		for _, plaintext := range plaintexts {
			for _, m := range []int{k, k + 1, 2 * k} {
				sink := &record.SliceSink{}
				ins, err := NewInserter(params, sink, WithInserterRandSource(newDeterministicReader(int64(1000+seed*100+m))))
				require.NoError(t, err)

				insertN(t, ins, plaintext, m)

				ev, err := NewEvaluator(params, record.NewSliceSource(sink.Records))
				require.NoError(t, err)

				resultSink := &record.SliceResultSink{}
				require.NoError(t, ev.ComputeAndEmit(resultSink))

				require.Len(t, resultSink.Records, 1)
				require.Equal(t, plaintext, resultSink.Records[0].Plaintext)
				require.Equal(t, m, resultSink.Records[0].Count)
			}
		}
	}
}

func TestNewInserterRejectsSmallThreshold(t *testing.T) {
	_, err := NewInserter(Params{K: 1}, &record.SliceSink{})
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindInvalidArgument, kind)
}

func TestNewEvaluatorRejectsSmallThreshold(t *testing.T) {
	_, err := NewEvaluator(Params{K: 0}, record.NewSliceSource(nil))
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindInvalidArgument, kind)
}
