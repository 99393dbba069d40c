package pref

import (
	"math"
	"testing"

	"github.com/kbukum/hostkit/errors"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Value{}},
		{"string", "dark", StringValue("dark")},
		{"empty string", "", StringValue("")},
		{"int", 42, IntValue(42)},
		{"int64", int64(7), IntValue(7)},
		{"bool", true, BoolValue(true)},
		{"integral float", float64(3), IntValue(3)},
		{"fractional float", 0.5, InvalidValue(0.5)},
		{"large integral float", float64(3000000000), IntValue(3000000000)},
		{"max safe float", float64(MaxSafeInt), IntValue(MaxSafeInt)},
		{"float beyond safe range", float64(1 << 60), InvalidValue(float64(1 << 60))},
		{"uint64", uint64(12), IntValue(12)},
		{"uint64 overflow", uint64(math.MaxUint64), InvalidValue(uint64(math.MaxUint64))},
		{"list", []string{"a"}, InvalidValue([]string{"a"})},
		{"value passthrough", BoolValue(false), BoolValue(false)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ValueOf(tc.in)
			if !got.Equal(tc.want) {
				t.Errorf("ValueOf(%v) = %s (%s), want %s (%s)", tc.in, got, got.Kind(), tc.want, tc.want.Kind())
			}
		})
	}
}

func TestValueAccessors(t *testing.T) {
	v := IntValue(42)
	if v.Kind() != KindInt || v.Int() != 42 || v.Interface() != 42 {
		t.Errorf("unexpected int value %#v", v)
	}
	if v.Str() != "" || v.Bool() {
		t.Error("accessors of other kinds should return zero values")
	}

	var unset Value
	if unset.IsSet() {
		t.Error("zero Value should be unset")
	}
	if unset.Interface() != nil {
		t.Errorf("unset Interface() = %v, want nil", unset.Interface())
	}
	if unset.String() != "<unset>" {
		t.Errorf("unset String() = %q", unset.String())
	}
	if StringValue("a").String() != `"a"` {
		t.Errorf("string values should print quoted, got %s", StringValue("a"))
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, v := range []Value{StringValue(""), StringValue("dark"), IntValue(-3), BoolValue(true)} {
		got, err := DecodeValue(v.Kind(), v.Encode())
		if err != nil {
			t.Fatalf("DecodeValue(%s) error: %v", v, err)
		}
		if !got.Equal(v) {
			t.Errorf("DecodeValue(Encode(%s)) = %s", v, got)
		}
	}

	if _, err := DecodeValue(KindInt, "x"); err == nil {
		t.Error("expected error decoding a corrupt int")
	}
	got, err := DecodeValue(KindInvalid, "[1,2]")
	if err != nil || got.Kind() != KindInvalid {
		t.Errorf("expected invalid value, got %s, %v", got, err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindUnset, KindString, KindInt, KindBool, KindInvalid} {
		if ParseKind(k.String()) != k {
			t.Errorf("ParseKind(%q) != %v", k.String(), k)
		}
	}
	if ParseKind("float") != KindInvalid {
		t.Error("unknown kind names should parse as invalid")
	}
	if Kind(99).String() != "invalid" {
		t.Errorf("out of range kind printed as %q", Kind(99).String())
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		in      any
		want    Value
		wantErr errors.ErrorCode
	}{
		{"string from string", KindString, "dark", StringValue("dark"), ""},
		{"string from int", KindString, 42, StringValue("42"), ""},
		{"string from bool", KindString, true, StringValue("true"), ""},
		{"int from int", KindInt, 42, IntValue(42), ""},
		{"int from numeric string", KindInt, "7", IntValue(7), ""},
		{"int from integral float", KindInt, float64(9), IntValue(9), ""},
		{"int from fraction", KindInt, 3.5, Value{}, errors.ErrCodeTypeMismatch},
		{"int from word", KindInt, "many", Value{}, errors.ErrCodeTypeMismatch},
		{"int from leading zero", KindInt, "010", IntValue(10), ""},
		{"int from padded string", KindInt, " 12 ", IntValue(12), ""},
		{"int from hex string", KindInt, "0x1F", Value{}, errors.ErrCodeTypeMismatch},
		{"int from large int", KindInt, int64(3000000000), IntValue(3000000000), ""},
		{"int beyond safe range", KindInt, int64(MaxSafeInt + 1), Value{}, errors.ErrCodeTypeMismatch},
		{"int from huge float", KindInt, 1e300, Value{}, errors.ErrCodeTypeMismatch},
		{"int from nil", KindInt, nil, Value{}, errors.ErrCodeTypeMismatch},
		{"bool from bool", KindBool, false, BoolValue(false), ""},
		{"bool from string", KindBool, "true", BoolValue(true), ""},
		{"bool from word", KindBool, "maybe", Value{}, errors.ErrCodeTypeMismatch},
		{"string from nil", KindString, nil, Value{}, errors.ErrCodeTypeMismatch},
		{"from Value", KindInt, IntValue(5), IntValue(5), ""},
		{"invalid kind", KindInvalid, 1, Value{}, errors.ErrCodeUnsupportedType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := coerce("k", tc.kind, tc.in)
			if tc.wantErr != "" {
				if !errors.IsCode(err, tc.wantErr) {
					t.Fatalf("expected %s, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("coerce = %s, want %s", got, tc.want)
			}
		})
	}
}
