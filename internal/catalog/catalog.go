// internal/catalog/catalog.go
package catalog

import (
	"fmt"
	"strings"

	"github.com/solatis/querytree/internal/types"
)

/*
 * Field and operator catalog.
 *
 * The catalog is the read-only vocabulary a session builds rules from: which
 * fields exist, what type each field has and which operators apply to each
 * type. The query package only asks two questions of it when a rule is
 * created (first field, first operator for that field's type), so a missing
 * or stale catalog never blocks editing.
 *
 * Lookups are lenient: an unknown field is treated as text and an unknown
 * type is given the text operators. CheckRule is the strict variant and is
 * left to callers that want to flag mismatches.
 */

// FieldType selects the operator list and value coercion for a field.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeDate   FieldType = "date"
)

// ParseFieldType accepts the lowercase type names used in config files.
func ParseFieldType(s string) (FieldType, error) {
	switch t := FieldType(strings.ToLower(strings.TrimSpace(s))); t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown field type %q", types.ErrInvalidCatalog, s)
	}
}

// Field is one filterable attribute.
type Field struct {
	Key  string    `json:"key" yaml:"key" mapstructure:"key"`
	Name string    `json:"name" yaml:"name" mapstructure:"name"`
	Type FieldType `json:"type" yaml:"type" mapstructure:"type"`
}

// Operator is one comparison offered for a field type.
type Operator struct {
	Value string `json:"value" yaml:"value" mapstructure:"value"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// Catalog lists fields in display order and operators per field type.
type Catalog struct {
	Fields    []Field                  `json:"fields" yaml:"fields" mapstructure:"fields"`
	Operators map[FieldType][]Operator `json:"operators" yaml:"operators" mapstructure:"operators"`
}

// Default returns the stock catalog.
func Default() *Catalog {
	return &Catalog{
		Fields: []Field{
			{Key: "name", Name: "Name", Type: FieldTypeText},
			{Key: "age", Name: "Age", Type: FieldTypeNumber},
			{Key: "country", Name: "Country", Type: FieldTypeText},
			{Key: "joinedAt", Name: "Joined", Type: FieldTypeDate},
		},
		Operators: map[FieldType][]Operator{
			FieldTypeText: {
				{Value: "equals", Label: "equals"},
				{Value: "contains", Label: "contains"},
				{Value: "starts_with", Label: "starts with"},
				{Value: "ends_with", Label: "ends with"},
			},
			FieldTypeNumber: {
				{Value: "equals", Label: "="},
				{Value: "gt", Label: ">"},
				{Value: "lt", Label: "<"},
				{Value: "between", Label: "between"},
			},
			FieldTypeDate: {
				{Value: "on", Label: "on"},
				{Value: "before", Label: "before"},
				{Value: "after", Label: "after"},
			},
		},
	}
}

// DefaultField returns the key of the first field, or "" for an empty catalog.
func (c *Catalog) DefaultField() string {
	if len(c.Fields) == 0 {
		return ""
	}
	return c.Fields[0].Key
}

// DefaultOperator returns the first operator for the type of field.
func (c *Catalog) DefaultOperator(field string) string {
	ops := c.OperatorsFor(c.TypeOf(field))
	if len(ops) == 0 {
		return ""
	}
	return ops[0].Value
}

// FieldByKey looks up a field by key.
func (c *Catalog) FieldByKey(key string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// TypeOf returns the type of field, or text if the field is unknown.
func (c *Catalog) TypeOf(field string) FieldType {
	if f, ok := c.FieldByKey(field); ok && f.Type != "" {
		return f.Type
	}
	return FieldTypeText
}

// OperatorsFor returns the operators offered for t, falling back to the text
// operators when t has none.
func (c *Catalog) OperatorsFor(t FieldType) []Operator {
	if ops, ok := c.Operators[t]; ok && len(ops) > 0 {
		return ops
	}
	return c.Operators[FieldTypeText]
}

// Validate checks the catalog is usable for creating rules.
func (c *Catalog) Validate() error {
	if len(c.Fields) == 0 {
		return fmt.Errorf("%w: no fields", types.ErrInvalidCatalog)
	}

	seen := make(map[string]struct{}, len(c.Fields))
	for i, f := range c.Fields {
		if f.Key == "" {
			return fmt.Errorf("%w: field %d has no key", types.ErrInvalidCatalog, i)
		}
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("%w: duplicate field key %q", types.ErrInvalidCatalog, f.Key)
		}
		seen[f.Key] = struct{}{}

		if _, err := ParseFieldType(string(f.Type)); err != nil {
			return fmt.Errorf("field %q: %w", f.Key, err)
		}
		if len(c.Operators[f.Type]) == 0 {
			return fmt.Errorf("%w: no operators for type %q (field %q)",
				types.ErrInvalidCatalog, f.Type, f.Key)
		}
	}

	for t, ops := range c.Operators {
		for _, op := range ops {
			if op.Value == "" {
				return fmt.Errorf("%w: empty operator for type %q", types.ErrInvalidCatalog, t)
			}
		}
	}
	return nil
}

// CheckRule reports whether field exists and operator applies to its type.
func (c *Catalog) CheckRule(field, operator string) error {
	f, ok := c.FieldByKey(field)
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrUnknownField, field)
	}
	for _, op := range c.Operators[f.Type] {
		if op.Value == operator {
			return nil
		}
	}
	return fmt.Errorf("%w: %q for %s field %q", types.ErrUnknownOperator, operator, f.Type, field)
}
