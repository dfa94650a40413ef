package forculus

import (
	"crypto/rand"
	"io"
	"math/big"

	"go.uber.org/zap"

	"github.com/lavode/forculus/field"
	"github.com/lavode/forculus/oracle"
	"github.com/lavode/forculus/record"
)

// Inserter plays the client role: for each plaintext it computes the master
// key, derives coefficients, deterministically encrypts, picks a random
// evaluation point, evaluates the polynomial, and emits one share record.
//
// An Inserter is not safe for concurrent use — its per-plaintext cache is
// exclusively owned by the goroutine driving it. Multiple independent
// Inserters may run on separate goroutines simultaneously.
type Inserter struct {
	params Params
	field  *field.Field
	sink   record.Sink
	logger *zap.Logger
	rand   io.Reader

	cache map[string]*keyMaterial
}

// InserterOption configures optional Inserter behavior.
type InserterOption func(*Inserter)

// WithInserterLogger overrides the Inserter's logger (default: a no-op
// logger).
func WithInserterLogger(logger *zap.Logger) InserterOption {
	return func(i *Inserter) {
		i.logger = logger
	}
}

// WithInserterRandSource overrides the entropy source used to sample the
// per-report evaluation point. Production callers should not need this; it
// exists so tests can inject a deterministic reader. The evaluation point
// need not be cryptographically unpredictable, only collision-free across
// reports of the same plaintext.
func WithInserterRandSource(r io.Reader) InserterOption {
	return func(i *Inserter) {
		i.rand = r
	}
}

// NewInserter constructs an Inserter for the given threshold/epoch,
// emitting share records to sink. Fails with KindInvalidArgument if
// params.K < 2.
func NewInserter(params Params, sink record.Sink, opts ...InserterOption) (*Inserter, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	f, err := field.New(Q)
	if err != nil {
		return nil, newError("NewInserter", KindInvalidArgument, err)
	}

	ins := &Inserter{
		params: params,
		field:  f,
		sink:   sink,
		logger: zap.NewNop(),
		rand:   rand.Reader,
		cache:  make(map[string]*keyMaterial),
	}

	for _, opt := range opts {
		opt(ins)
	}

	return ins, nil
}

// Insert computes (or reuses cached) key material for plaintext, samples a
// fresh evaluation point, and emits exactly one share record to the sink.
func (ins *Inserter) Insert(plaintext []byte) error {
	km, cached := ins.cache[string(plaintext)]
	if !cached {
		var err error
		km, err = deriveKeyMaterial(ins.params, ins.field, plaintext)
		if err != nil {
			return err
		}
		ins.cache[string(plaintext)] = km

		ins.logger.Debug("forculus: derived key material for plaintext",
			zap.Int("threshold", ins.params.K),
		)
	}

	x, err := ins.samplePoint(km.seed)
	if err != nil {
		return newError("Insert", KindIoError, err)
	}

	y := ins.evaluate(km.coeffs, x)

	rec := record.ShareRecord{IV: km.iv, CT: km.ct, X: x, Y: y}
	if err := ins.sink.Emit(rec); err != nil {
		return newError("Insert", KindIoError, err)
	}

	ins.logger.Info("forculus: share record emitted")
	return nil
}

// samplePoint samples r uniformly from [0, k^2 * 2^80) and derives the
// evaluation point x = H_s(r) mod q, reusing the same keyed oracle H_s used
// to derive the polynomial's coefficients.
func (ins *Inserter) samplePoint(seed []byte) (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(int64(ins.params.K*ins.params.K)), 80)

	r, err := rand.Int(ins.rand, limit)
	if err != nil {
		return nil, err
	}

	mac := oracle.Keyed(seed, []byte(r.String()))
	x := new(big.Int).SetBytes(mac[:])
	x.Mod(x, ins.field.Q)

	return x, nil
}

// evaluate computes c_0 + c_1*x + ... + c_{k-1}*x^{k-1} mod q via Horner's
// method from the highest-degree term downward.
func (ins *Inserter) evaluate(coeffs []*big.Int, x *big.Int) *big.Int {
	result := new(big.Int).Set(coeffs[len(coeffs)-1])

	for i := len(coeffs) - 2; i >= 0; i-- {
		result = ins.field.Add(ins.field.Mul(result, x), coeffs[i])
	}

	return result
}
