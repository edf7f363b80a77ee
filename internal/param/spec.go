// Package param implements the parameter contract shared by every generator:
// field declarations, fail-soft coercion of raw input, and the canonical
// digest that cache keys and random seeds are derived from.
package param

import (
	"fmt"
	"slices"
	"sort"
)

// Kind discriminates both Spec and Value.
type Kind string

const (
	KindInt   Kind = "int"
	KindFloat Kind = "float"
	KindBool  Kind = "bool"
	KindEnum  Kind = "enum"
)

// Spec declares one configuration field.
//
// Min and Max are inclusive and only meaningful for int and float fields.
// Values lists the legal literals of an enum field.
type Spec struct {
	Kind    Kind
	Default Value
	Min     *float64
	Max     *float64
	Values  []string
}

// Fields maps a field name to its declaration.
type Fields map[string]Spec

// Raw is an unvalidated flat configuration as supplied by a caller.
type Raw map[string]any

// Int declares an integer field.
func Int(def int64) Spec { return Spec{Kind: KindInt, Default: IntValue(def)} }

// Float declares a floating point field.
func Float(def float64) Spec { return Spec{Kind: KindFloat, Default: FloatValue(def)} }

// Bool declares a boolean field.
func Bool(def bool) Spec { return Spec{Kind: KindBool, Default: BoolValue(def)} }

// Enum declares an enum field with default def and the given legal values.
func Enum(def string, values ...string) Spec {
	return Spec{Kind: KindEnum, Default: EnumValue(def), Values: append([]string(nil), values...)}
}

// Range returns a copy of s clamped to [lo, hi].
func (s Spec) Range(lo, hi float64) Spec {
	s.Min, s.Max = &lo, &hi
	return s
}

// AtLeast returns a copy of s with only a lower bound.
func (s Spec) AtLeast(lo float64) Spec {
	s.Min = &lo
	return s
}

// AtMost returns a copy of s with only an upper bound.
func (s Spec) AtMost(hi float64) Spec {
	s.Max = &hi
	return s
}

// CheckDefault reports whether the declared default is itself legal.
// Validate never relies on it: an illegal default is coerced like any other
// value, so this only exists to surface declaration mistakes.
func (s Spec) CheckDefault() error {
	if s.Default.Kind != s.Kind {
		return fmt.Errorf("default has kind %s, field is %s", s.Default.Kind, s.Kind)
	}
	switch s.Kind {
	case KindInt, KindFloat:
		v := s.Default.Float()
		if s.Min != nil && v < *s.Min {
			return fmt.Errorf("default %s below min %v", s.Default, *s.Min)
		}
		if s.Max != nil && v > *s.Max {
			return fmt.Errorf("default %s above max %v", s.Default, *s.Max)
		}
	case KindEnum:
		if !slices.Contains(s.Values, s.Default.Enum()) {
			return fmt.Errorf("default %q is not one of %v", s.Default.Enum(), s.Values)
		}
	case KindBool:
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	return nil
}

// Names returns the declared field names in canonical order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs CheckDefault on every field and returns the first problem.
func (f Fields) Check() error {
	for _, name := range f.Names() {
		if err := f[name].CheckDefault(); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

// FieldMeta is the introspection view of a Spec, without its default.
type FieldMeta struct {
	Type   Kind     `json:"type"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Meta returns per-field metadata for templates and UIs.
func (f Fields) Meta() map[string]FieldMeta {
	out := make(map[string]FieldMeta, len(f))
	for name, s := range f {
		out[name] = FieldMeta{
			Type:   s.Kind,
			Min:    s.Min,
			Max:    s.Max,
			Values: append([]string(nil), s.Values...),
		}
	}
	return out
}
