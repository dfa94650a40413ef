package forculus

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/lavode/forculus/de"
	"github.com/lavode/forculus/field"
	"github.com/lavode/forculus/record"
)

// Stats is an optional diagnostic counter an Evaluator accumulates across a
// single ComputeAndEmit call, surfacing skip reasons without making them
// part of the emitted result stream.
type Stats struct {
	GroupsSeen               int
	GroupsRecovered          int
	SkippedDuplicatePoint    int
	SkippedInvalidCiphertext int
}

// group accumulates the (x, y) points reported for one (iv, ct) pair, in
// the order the Source produced them.
type group struct {
	iv     [de.IVSize]byte
	ct     []byte
	points []field.Point
}

// Evaluator plays the server role: it groups share records by (iv, ct) and,
// for each group meeting the threshold, reconstructs the master key via
// Lagrange interpolation and decrypts.
type Evaluator struct {
	params Params
	field  *field.Field
	source record.Source
	logger *zap.Logger
	stats  Stats
}

// EvaluatorOption configures optional Evaluator behavior.
type EvaluatorOption func(*Evaluator)

// WithEvaluatorLogger overrides the Evaluator's logger (default: a no-op
// logger).
func WithEvaluatorLogger(logger *zap.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// NewEvaluator constructs an Evaluator for the given threshold/epoch,
// reading share records from source. Fails with KindInvalidArgument if
// params.K < 2.
func NewEvaluator(params Params, source record.Source, opts ...EvaluatorOption) (*Evaluator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	f, err := field.New(Q)
	if err != nil {
		return nil, newError("NewEvaluator", KindInvalidArgument, err)
	}

	ev := &Evaluator{
		params: params,
		field:  f,
		source: source,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(ev)
	}

	return ev, nil
}

// Stats returns the diagnostic counters accumulated by the most recent
// ComputeAndEmit call.
func (ev *Evaluator) Stats() Stats {
	return ev.stats
}

// ComputeAndEmit reads every share record from the configured source,
// groups them by (iv, ct), and for each group meeting the threshold,
// reconstructs and emits (plaintext, count) to sink. Groups below threshold
// are silently skipped — a privacy property, not an error. I/O errors from
// source or sink abort and are returned; cryptographic/arithmetic failures
// affect only the offending group.
func (ev *Evaluator) ComputeAndEmit(sink record.ResultSink) error {
	ev.stats = Stats{}

	groups := make(map[string]*group)
	var order []string

	for {
		rec, ok, err := ev.source.Next()
		if err != nil {
			return newError("ComputeAndEmit", KindIoError, err)
		}
		if !ok {
			break
		}

		key := rec.GroupKey()
		g, exists := groups[key]
		if !exists {
			g = &group{iv: rec.IV, ct: rec.CT}
			groups[key] = g
			order = append(order, key)
		}
		g.points = append(g.points, field.Point{X: rec.X, Y: rec.Y})
	}

	for _, key := range order {
		g := groups[key]
		ev.stats.GroupsSeen++

		if len(g.points) < ev.params.K {
			continue
		}

		plaintext, count, err := ev.recoverGroup(g)
		if err != nil {
			kind, ok := KindOf(err)
			if !ok {
				return err
			}

			switch kind {
			case KindDuplicatePoint:
				ev.stats.SkippedDuplicatePoint++
				ev.logger.Warn("forculus: skipping group, duplicate evaluation point",
					zap.String("group", key),
				)
				continue
			case KindInvalidCiphertext:
				ev.stats.SkippedInvalidCiphertext++
				ev.logger.Warn("forculus: skipping group, invalid ciphertext padding",
					zap.String("group", key),
				)
				continue
			default:
				return err
			}
		}

		if err := sink.Emit(record.ResultRecord{Plaintext: plaintext, Count: count}); err != nil {
			return newError("ComputeAndEmit", KindIoError, err)
		}
		ev.stats.GroupsRecovered++
	}

	return nil
}

// recoverGroup attempts Lagrange reconstruction over a sliding window of g's
// points, starting with the first k in arrival order. If a window contains a
// duplicate x-coordinate and more points remain, it retries with the window
// shifted by one instead of failing the whole group outright.
func (ev *Evaluator) recoverGroup(g *group) ([]byte, int, error) {
	k := ev.params.K

	var c0 *big.Int
	var recoverErr error

	for offset := 0; offset+k <= len(g.points); offset++ {
		window := g.points[offset : offset+k]

		result, err := ev.field.LagrangeC0(window, k)
		if err == nil {
			c0 = result
			recoverErr = nil
			break
		}
		recoverErr = err
	}

	if c0 == nil {
		cause := recoverErr
		if cause == nil {
			cause = field.ErrDuplicatePoint
		}
		return nil, 0, newError("recoverGroup", KindDuplicatePoint, cause)
	}

	key := low16BytesAfterPadding(c0)

	plaintext, err := de.Decrypt(key, g.iv, g.ct)
	if err != nil {
		return nil, 0, newError("recoverGroup", KindInvalidCiphertext, err)
	}

	return plaintext, len(g.points), nil
}
