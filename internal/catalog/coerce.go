// internal/catalog/coerce.go
package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/solatis/querytree/internal/query"
	"github.com/solatis/querytree/internal/types"
)

/*
 * Value coercion for rule input.
 *
 * Converts raw input (form text, decoded JSON/YAML scalars) into the Value a
 * rule stores, according to the field type:
 *   - number: numbers and numeric strings, stored as numbers
 *   - text: anything, stored as its string form
 *   - date: YYYY-MM-DD strings, stored as strings
 *
 * Empty or nil input is always accepted and yields the empty string: a rule
 * whose value has not been entered yet is a valid part of the tree.
 */

// DateLayout is the accepted format for date values.
const DateLayout = "2006-01-02"

// Coerce converts raw to a Value for a field of type t.
// Returns an error wrapping ErrCoercionFailed when raw cannot represent t.
func Coerce(raw any, t FieldType) (query.Value, error) {
	if raw == nil {
		return query.Value{}, nil
	}
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return query.Value{}, nil
		}
	case query.Value:
		if v.IsEmpty() {
			return query.Value{}, nil
		}
	}

	switch t {
	case FieldTypeNumber:
		return coerceNumber(raw)
	case FieldTypeDate:
		return coerceDate(raw)
	default:
		return coerceText(raw)
	}
}

// CoerceFor converts raw according to the type of field.
func (c *Catalog) CoerceFor(field string, raw any) (query.Value, error) {
	return Coerce(raw, c.TypeOf(field))
}

func coerceNumber(raw any) (query.Value, error) {
	switch v := raw.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return query.Value{}, fmt.Errorf("%w: %q is not a number", types.ErrCoercionFailed, v)
		}
		return query.NumberValue(f), nil
	case bool:
		return query.Value{}, fmt.Errorf("%w: boolean is not a number", types.ErrCoercionFailed)
	case query.Value:
		if v.IsNumber() {
			return v, nil
		}
		return coerceNumber(v.Text())
	default:
		val, err := query.ValueOf(raw)
		if err != nil {
			return query.Value{}, fmt.Errorf("%w: %v", types.ErrCoercionFailed, err)
		}
		return val, nil
	}
}

func coerceText(raw any) (query.Value, error) {
	switch v := raw.(type) {
	case string:
		return query.StringValue(v), nil
	case bool:
		return query.StringValue(strconv.FormatBool(v)), nil
	case query.Value:
		return query.StringValue(v.Text()), nil
	}
	if val, err := query.ValueOf(raw); err == nil {
		return query.StringValue(val.Text()), nil
	}
	return query.StringValue(fmt.Sprintf("%v", raw)), nil
}

func coerceDate(raw any) (query.Value, error) {
	var s string
	switch v := raw.(type) {
	case string:
		s = strings.TrimSpace(v)
	case query.Value:
		s = strings.TrimSpace(v.Text())
	case time.Time:
		return query.StringValue(v.Format(DateLayout)), nil
	default:
		return query.Value{}, fmt.Errorf("%w: %T is not a date", types.ErrCoercionFailed, raw)
	}
	if s == "" {
		return query.Value{}, nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return query.Value{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", types.ErrCoercionFailed, s)
	}
	return query.StringValue(s), nil
}
