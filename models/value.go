package models

import (
	"strconv"
	"strings"
)

// Kind identifies the type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// Value is a single nullable table cell. The zero Value is null, which is how
// absent data (unmatched pattern, failed fetch, unparseable number) is carried.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// Null returns the absent value.
func Null() Value { return Value{} }

func String(s string) Value  { return Value{kind: KindString, s: s} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// OptionalString returns Null for the empty string.
func OptionalString(s string) Value {
	if s == "" {
		return Null()
	}
	return String(s)
}

// Str returns the string payload and whether the value is a string.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// IntValue returns the integer payload and whether the value is an int.
func (v Value) IntValue() (int64, bool) {
	return v.i, v.kind == KindInt
}

// FloatValue returns the value as a float. Ints are widened.
func (v Value) FloatValue() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// BoolValue returns the boolean payload and whether the value is a bool.
func (v Value) BoolValue() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String renders the value the way it is written to the output file:
// null is empty, floats always carry a fractional part, bools are true/false.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Interface returns the Go value for JSON/database encoding; nil for null.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	}
	return nil
}
