package confskema

import (
	"encoding/json"
	"math"
	"math/big"
)

// intrinsic holds the data-type bounds of the fixed-width integer kinds.
// Kinds absent from the table (float, double) are unbounded unless the
// schema declares min or max.
var intrinsic = map[Kind][2]*big.Float{
	KindInt8:   {signed(math.MinInt8), signed(math.MaxInt8)},
	KindInt16:  {signed(math.MinInt16), signed(math.MaxInt16)},
	KindInt32:  {signed(math.MinInt32), signed(math.MaxInt32)},
	KindInt64:  {signed(math.MinInt64), signed(math.MaxInt64)},
	KindUint8:  {signed(0), unsigned(math.MaxUint8)},
	KindUint16: {signed(0), unsigned(math.MaxUint16)},
	KindUint32: {signed(0), unsigned(math.MaxUint32)},
	KindUint64: {signed(0), unsigned(math.MaxUint64)},
}

func signed(n int64) *big.Float    { return new(big.Float).SetInt64(n) }
func unsigned(n uint64) *big.Float { return new(big.Float).SetUint64(n) }

// toNumber converts a numeric value into an exact big.Float. NaN is numeric
// but yields a nil float: it compares false against every bound.
func toNumber(v any) (*big.Float, bool) {
	switch t := v.(type) {
	case int:
		return signed(int64(t)), true
	case int8:
		return signed(int64(t)), true
	case int16:
		return signed(int64(t)), true
	case int32:
		return signed(int64(t)), true
	case int64:
		return signed(t), true
	case uint:
		return unsigned(uint64(t)), true
	case uint8:
		return unsigned(uint64(t)), true
	case uint16:
		return unsigned(uint64(t)), true
	case uint32:
		return unsigned(uint64(t)), true
	case uint64:
		return unsigned(t), true
	case float32:
		return fromFloat(float64(t)), true
	case float64:
		return fromFloat(t), true
	case json.Number:
		f, _, err := big.ParseFloat(string(t), 10, 128, big.ToNearestEven)
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

func fromFloat(f float64) *big.Float {
	if math.IsNaN(f) {
		return nil
	}
	return new(big.Float).SetFloat64(f)
}

// formatNumber renders a bound for messages: integers without exponent,
// everything else in shortest form.
func formatNumber(f *big.Float) string {
	if f.IsInt() {
		return f.Text('f', 0)
	}
	return f.Text('g', -1)
}

type numberValidator struct {
	base
	min, max *big.Float
}

func newNumber(name string, k Kind) *numberValidator {
	b := intrinsic[k]
	return &numberValidator{base: base{name: name, kind: k}, min: b[0], max: b[1]}
}

// NewInt8 returns a validator for signed 8-bit integers.
func NewInt8(name string) Validator { return newNumber(name, KindInt8) }

// NewInt16 returns a validator for signed 16-bit integers.
func NewInt16(name string) Validator { return newNumber(name, KindInt16) }

// NewInt32 returns a validator for signed 32-bit integers.
func NewInt32(name string) Validator { return newNumber(name, KindInt32) }

// NewInt64 returns a validator for signed 64-bit integers.
func NewInt64(name string) Validator { return newNumber(name, KindInt64) }

// NewUint8 returns a validator for unsigned 8-bit integers.
func NewUint8(name string) Validator { return newNumber(name, KindUint8) }

// NewUint16 returns a validator for unsigned 16-bit integers.
func NewUint16(name string) Validator { return newNumber(name, KindUint16) }

// NewUint32 returns a validator for unsigned 32-bit integers.
func NewUint32(name string) Validator { return newNumber(name, KindUint32) }

// NewUint64 returns a validator for unsigned 64-bit integers.
func NewUint64(name string) Validator { return newNumber(name, KindUint64) }

// NewFloat returns a validator for single-precision numbers. It has no
// intrinsic bounds.
func NewFloat(name string) Validator { return newNumber(name, KindFloat) }

// NewDouble returns a validator for double-precision numbers. It has no
// intrinsic bounds.
func NewDouble(name string) Validator { return newNumber(name, KindDouble) }

func (n *numberValidator) Validate(v any, c Constraints) (any, error) {
	if out, settled, err := resolve(n.name, v, c); settled {
		return out, err
	}
	f, ok := toNumber(v)
	if !ok {
		return nil, invalidType(n.name, "a number", v)
	}
	lo, hi, err := n.bounds(c)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return v, nil
	}
	if lo != nil && f.Cmp(lo) < 0 {
		return nil, violation(n.name, CodeTooSmall, map[string]any{"min": formatNumber(lo), "got": v})
	}
	if hi != nil && f.Cmp(hi) > 0 {
		return nil, violation(n.name, CodeTooBig, map[string]any{"max": formatNumber(hi), "got": v})
	}
	return v, nil
}

// bounds narrows the intrinsic bounds with the declared ones: the larger
// lower bound and the smaller upper bound win.
func (n *numberValidator) bounds(c Constraints) (lo, hi *big.Float, err error) {
	return effectiveBounds(n.name, n.min, n.max, c)
}

func effectiveBounds(field string, lo, hi *big.Float, c Constraints) (*big.Float, *big.Float, error) {
	dmin, ok, err := c.number(field, KeyMin)
	if err != nil {
		return nil, nil, err
	}
	if ok && (lo == nil || dmin.Cmp(lo) > 0) {
		lo = dmin
	}
	dmax, ok, err := c.number(field, KeyMax)
	if err != nil {
		return nil, nil, err
	}
	if ok && (hi == nil || dmax.Cmp(hi) < 0) {
		hi = dmax
	}
	return lo, hi, nil
}
