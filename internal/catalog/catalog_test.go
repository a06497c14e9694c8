package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/querytree/internal/query"
	"github.com/solatis/querytree/internal/types"
)

func TestDefault_Valid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "name", c.DefaultField())
	assert.Len(t, c.Fields, 4)
}

func TestDefaultOperator(t *testing.T) {
	c := Default()
	tests := []struct {
		field string
		want  string
	}{
		{"name", "equals"},
		{"country", "equals"},
		{"age", "equals"},
		{"joinedAt", "on"},
		{"unknown", "equals"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DefaultOperator(tt.field))
		})
	}
}

func TestTypeOf(t *testing.T) {
	c := Default()
	assert.Equal(t, FieldTypeNumber, c.TypeOf("age"))
	assert.Equal(t, FieldTypeDate, c.TypeOf("joinedAt"))
	assert.Equal(t, FieldTypeText, c.TypeOf("missing"))
}

func TestOperatorsFor_FallsBackToText(t *testing.T) {
	c := Default()
	assert.Equal(t, c.Operators[FieldTypeText], c.OperatorsFor(FieldType("color")))
	assert.Len(t, c.OperatorsFor(FieldTypeDate), 3)
}

func TestEmptyCatalog(t *testing.T) {
	c := &Catalog{}
	assert.Equal(t, "", c.DefaultField())
	assert.Equal(t, "", c.DefaultOperator("name"))
	assert.ErrorIs(t, c.Validate(), types.ErrInvalidCatalog)
}

func TestValidate(t *testing.T) {
	ops := Default().Operators
	tests := []struct {
		name    string
		catalog Catalog
	}{
		{"empty key", Catalog{Fields: []Field{{Key: "", Type: FieldTypeText}}, Operators: ops}},
		{"duplicate key", Catalog{Fields: []Field{
			{Key: "a", Type: FieldTypeText}, {Key: "a", Type: FieldTypeNumber},
		}, Operators: ops}},
		{"bad type", Catalog{Fields: []Field{{Key: "a", Type: "color"}}, Operators: ops}},
		{"no operators for type", Catalog{Fields: []Field{{Key: "a", Type: FieldTypeDate}},
			Operators: map[FieldType][]Operator{FieldTypeText: ops[FieldTypeText]}}},
		{"empty operator", Catalog{Fields: []Field{{Key: "a", Type: FieldTypeText}},
			Operators: map[FieldType][]Operator{FieldTypeText: {{Value: ""}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.catalog.Validate(), types.ErrInvalidCatalog)
		})
	}
}

func TestCheckRule(t *testing.T) {
	c := Default()
	assert.NoError(t, c.CheckRule("age", "between"))
	assert.ErrorIs(t, c.CheckRule("age", "contains"), types.ErrUnknownOperator)
	assert.ErrorIs(t, c.CheckRule("shoe", "equals"), types.ErrUnknownField)
}

func TestParseFieldType(t *testing.T) {
	ft, err := ParseFieldType(" Number ")
	require.NoError(t, err)
	assert.Equal(t, FieldTypeNumber, ft)

	_, err = ParseFieldType("bool")
	assert.ErrorIs(t, err, types.ErrInvalidCatalog)
}

// The catalog is what a Mutator is built from in production.
func TestCatalog_DrivesMutator(t *testing.T) {
	m := query.NewMutator(Default(), types.SequentialIDs("c"))
	g := m.NewGroup()
	require.Len(t, g.Children, 1)

	r, ok := g.Children[0].Node.(query.Rule)
	require.True(t, ok)
	assert.Equal(t, "name", r.Field)
	assert.Equal(t, "equals", r.Operator)
	assert.True(t, r.Value.IsEmpty())
}
