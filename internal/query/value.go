package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/solatis/querytree/internal/types"
)

// ValueKind discriminates the scalar held by a Value.
type ValueKind int

const (
	// KindString covers text and date-string values.
	KindString ValueKind = iota
	// KindNumber covers numeric values.
	KindNumber
)

// Value is the untyped scalar compared by a Rule.
// The zero Value is the empty string, the value of a freshly created rule.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

// StringValue wraps a text or date string.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue wraps a number.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// ValueOf converts a decoded scalar into a Value.
// Accepts strings, JSON numbers and Go numeric types. NaN and infinities are
// rejected because the structured output must stay JSON-encodable.
func ValueOf(raw any) (Value, error) {
	var f float64
	switch v := raw.(type) {
	case nil:
		return Value{}, nil
	case string:
		return StringValue(v), nil
	case Value:
		return v, nil
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", types.ErrInvalidValue, err)
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint64:
		f = float64(v)
	case uint32:
		f = float64(v)
	default:
		return Value{}, fmt.Errorf("%w: %T", types.ErrInvalidValue, raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %v", types.ErrInvalidValue, f)
	}
	return NumberValue(f), nil
}

// Kind reports which scalar v holds.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool {
	return v.kind == KindNumber
}

// IsEmpty reports whether v is the empty string.
func (v Value) IsEmpty() bool {
	return v.kind == KindString && v.str == ""
}

// Number returns the numeric value and whether v holds one.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Text renders v as it appears in the text output.
// Numbers use the shortest decimal form (5, 2.5, -0.125).
func (v Value) Text() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return v.Text()
}

// Interface returns v as a string or float64 for structured output.
func (v Value) Interface() any {
	if v.kind == KindNumber {
		return v.num
	}
	return v.str
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
