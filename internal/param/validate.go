package param

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Validate coerces raw into a Config covering exactly the declared fields.
//
// It never fails: missing fields take the default, numbers are clamped into
// their declared bounds, unknown enum literals and unconvertible values fall
// back to the default, and undeclared keys are dropped. Defaults go through
// the same path, so even a mis-declared default yields a legal value.
func (f Fields) Validate(raw Raw) Config {
	out := make(Config, len(f))
	for name, s := range f {
		v, ok := raw[name]
		if !ok {
			v = s.Default.Any()
		}
		out[name] = s.coerce(v)
	}
	return out
}

func (s Spec) coerce(v any) Value {
	switch s.Kind {
	case KindInt:
		if n, ok := toInt(v); ok {
			return IntValue(s.clampInt(n))
		}
		if n, ok := toFloat(v); ok {
			return IntValue(s.clampInt(floatToInt(n)))
		}
		return IntValue(s.clampInt(s.Default.Int()))
	case KindFloat:
		n, ok := toFloat(v)
		if !ok {
			n = s.Default.Float()
		}
		return FloatValue(s.clamp(n))
	case KindBool:
		b, ok := toBool(v)
		if !ok {
			b = s.Default.Bool()
		}
		return BoolValue(b)
	case KindEnum:
		if str, ok := v.(string); ok && slices.Contains(s.Values, str) {
			return EnumValue(str)
		}
		if def := s.Default.Enum(); len(s.Values) == 0 || slices.Contains(s.Values, def) {
			return EnumValue(def)
		}
		return EnumValue(s.Values[0])
	default:
		return s.Default
	}
}

func (s Spec) clamp(n float64) float64 {
	if s.Min != nil && n < *s.Min {
		n = *s.Min
	}
	if s.Max != nil && n > *s.Max {
		n = *s.Max
	}
	return n
}

// clampInt clamps in the int64 domain. Fractional bounds round inward.
func (s Spec) clampInt(n int64) int64 {
	if s.Min != nil {
		if lo := floatToInt(math.Ceil(*s.Min)); n < lo {
			n = lo
		}
	}
	if s.Max != nil {
		if hi := floatToInt(math.Floor(*s.Max)); n > hi {
			n = hi
		}
	}
	return n
}

// twoTo63 is the first float64 above every int64.
const twoTo63 = float64(1 << 63)

// floatToInt truncates f and saturates at the int64 limits.
func floatToInt(f float64) int64 {
	f = math.Trunc(f)
	switch {
	case f >= twoTo63:
		return math.MaxInt64
	case f <= -twoTo63:
		return math.MinInt64
	}
	return int64(f)
}

// toInt converts integer-typed input without a float round trip, so int64
// values beyond 2^53 survive exactly.
func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return uintToInt(uint64(x)), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return uintToInt(x), true
	case json.Number:
		n, err := strconv.ParseInt(string(x), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func uintToInt(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

func toFloat(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case int:
		n = float64(x)
	case int8:
		n = float64(x)
	case int16:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint:
		n = float64(x)
	case uint8:
		n = float64(x)
	case uint16:
		n = float64(x)
	case uint32:
		n = float64(x)
	case uint64:
		n = float64(x)
	case float32:
		n = float64(x)
	case float64:
		n = x
	case bool:
		if x {
			n = 1
		}
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, false
		}
		return b, true
	}
	if n, ok := toFloat(v); ok {
		return n != 0, true
	}
	return false, false
}
