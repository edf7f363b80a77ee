package param

import (
	"encoding/json"
	"strconv"
)

// Value is a validated scalar. Exactly one payload is meaningful, selected by Kind.
type Value struct {
	Kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

func IntValue(v int64) Value { return Value{Kind: KindInt, i: v} }
func FloatValue(v float64) Value { return Value{Kind: KindFloat, f: v} }
func BoolValue(v bool) Value { return Value{Kind: KindBool, b: v} }
func EnumValue(v string) Value { return Value{Kind: KindEnum, s: v} }

// Int returns the integer payload; float values are truncated.
func (v Value) Int() int64 {
	if v.Kind == KindFloat {
		return int64(v.f)
	}
	return v.i
}

// Float returns the numeric payload as float64.
func (v Value) Float() float64 {
	if v.Kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

func (v Value) Bool() bool { return v.b }
func (v Value) Enum() string { return v.s }

// Any returns the payload as a plain Go value.
func (v Value) Any() any {
	switch v.Kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return v.s
	}
}

// String renders the canonical literal used for hashing.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// Config is a fully coerced, fully defaulted configuration.
type Config map[string]Value

func (c Config) Int(name string) int { return int(c[name].Int()) }
func (c Config) Float(name string) float64 { return c[name].Float() }
func (c Config) Bool(name string) bool { return c[name].Bool() }
func (c Config) Enum(name string) string { return c[name].Enum() }

// Equal reports field-wise exact equality.
func (c Config) Equal(other Config) bool {
	if len(c) != len(other) {
		return false
	}
	for name, v := range c {
		o, ok := other[name]
		if !ok || o != v {
			return false
		}
	}
	return true
}

// Raw converts the config back into a caller-shaped map.
func (c Config) Raw() Raw {
	out := make(Raw, len(c))
	for name, v := range c {
		out[name] = v.Any()
	}
	return out
}
