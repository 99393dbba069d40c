package pref

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/kbukum/hostkit/errors"
)

// MaxSafeInt bounds integer preferences. Every backend, including the JSON
// file store whose numbers decode as float64, round-trips values in
// [-MaxSafeInt, MaxSafeInt] exactly.
const MaxSafeInt = 1<<53 - 1

// Value is a preference value tagged with its kind. The zero Value is unset.
type Value struct {
	kind Kind
	s    string
	i    int
	b    bool
	raw  any
}

// StringValue returns a string-kind value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue returns an integer-kind value.
func IntValue(i int) Value { return Value{kind: KindInt, i: i} }

// BoolValue returns a boolean-kind value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// InvalidValue wraps a stored value of a kind the bridge does not handle.
func InvalidValue(raw any) Value { return Value{kind: KindInvalid, raw: raw} }

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsSet reports whether the value exists.
func (v Value) IsSet() bool { return v.kind != KindUnset }

// Str returns the string payload; empty for other kinds.
func (v Value) Str() string { return v.s }

// Int returns the integer payload; zero for other kinds.
func (v Value) Int() int { return v.i }

// Bool returns the boolean payload; false for other kinds.
func (v Value) Bool() bool { return v.b }

// Interface returns the payload as string, int or bool, the raw value for
// invalid kinds, and nil when unset.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindBool:
		return v.b
	case KindInvalid:
		return v.raw
	default:
		return nil
	}
}

// String formats the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindUnset:
		return "<unset>"
	case KindString:
		return strconv.Quote(v.s)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindBool:
		return v.b == o.b
	case KindInvalid:
		return fmt.Sprint(v.raw) == fmt.Sprint(o.raw)
	default:
		return true
	}
}

// Encode renders a typed value as text for stores that persist strings.
func (v Value) Encode() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.Itoa(v.i)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return fmt.Sprint(v.raw)
	}
}

// DecodeValue is the inverse of Encode. Kinds outside the three typed ones
// produce an InvalidValue carrying raw.
func DecodeValue(kind Kind, raw string) (Value, error) {
	switch kind {
	case KindString:
		return StringValue(raw), nil
	case KindInt:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, errors.Internal(fmt.Errorf("stored int %q: %w", raw, err))
		}
		return IntValue(i), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, errors.Internal(fmt.Errorf("stored bool %q: %w", raw, err))
		}
		return BoolValue(b), nil
	case KindUnset:
		return Value{}, nil
	default:
		return InvalidValue(raw), nil
	}
}

// ValueOf classifies a native Go value. Integral floats count as integers,
// which is how JSON-decoded numbers arrive.
func ValueOf(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return IntValue(cast.ToInt(t))
	case uint64:
		if t > math.MaxInt {
			return InvalidValue(t)
		}
		return IntValue(int(t))
	case float32:
		return ValueOf(float64(t))
	case float64:
		if t == math.Trunc(t) && math.Abs(t) <= MaxSafeInt {
			return IntValue(int(t))
		}
		return InvalidValue(t)
	default:
		return InvalidValue(t)
	}
}

// coerce converts x to a value of kind, applying the loose conversions a
// host runtime performs (42 -> "42", "7" -> 7, "true" -> true). Strings
// convert to ints as decimal only, and ints outside MaxSafeInt are rejected.
func coerce(name string, kind Kind, x any) (Value, error) {
	if v, ok := x.(Value); ok {
		x = v.Interface()
	}
	if f, ok := x.(float64); ok && kind == KindInt && (f != math.Trunc(f) || math.Abs(f) > MaxSafeInt) {
		return Value{}, errors.TypeMismatch(name, kind.String(), x)
	}

	switch kind {
	case KindString:
		s, err := cast.ToStringE(x)
		if err != nil || x == nil {
			return Value{}, errors.TypeMismatch(name, kind.String(), x)
		}
		return StringValue(s), nil
	case KindInt:
		i, err := toInt(x)
		if err != nil || x == nil || int64(i) > MaxSafeInt || int64(i) < -MaxSafeInt {
			return Value{}, errors.TypeMismatch(name, kind.String(), x)
		}
		return IntValue(i), nil
	case KindBool:
		b, err := cast.ToBoolE(x)
		if err != nil || x == nil {
			return Value{}, errors.TypeMismatch(name, kind.String(), x)
		}
		return BoolValue(b), nil
	default:
		return Value{}, errors.UnsupportedType(name, kind.String())
	}
}

// toInt parses strings as base 10; cast.ToIntE would read "010" as octal.
func toInt(x any) (int, error) {
	if s, ok := x.(string); ok {
		return strconv.Atoi(strings.TrimSpace(s))
	}
	return cast.ToIntE(x)
}
