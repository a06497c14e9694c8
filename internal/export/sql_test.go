package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/querytree/internal/catalog"
	"github.com/solatis/querytree/internal/query"
	"github.com/solatis/querytree/internal/types"
)

func rule(id, field, op string, v query.Value) query.Rule {
	return query.Rule{ID: types.NodeID(id), Field: field, Operator: op, Value: v}
}

func twoRootForest() query.Forest {
	return query.Forest{
		query.Root(query.None, query.Group{ID: "g1", Children: []query.Sibling[query.Node]{
			query.Child(query.None, rule("r1", "name", "contains", query.StringValue("a_b"))),
			query.Child(query.Or, rule("r2", "age", "gt", query.StringValue("30"))),
		}}),
		query.Root(query.And, query.Group{ID: "g2", Children: []query.Sibling[query.Node]{
			query.Child(query.None, rule("r3", "joinedAt", "after", query.StringValue("2024-01-01"))),
		}}),
	}
}

func TestCompile_Postgres(t *testing.T) {
	c := NewSQLCompiler(DialectPostgres, catalog.Default())

	sql, args, err := c.Compile(twoRootForest())
	require.NoError(t, err)
	assert.Equal(t, `("name" LIKE $1 ESCAPE '\' OR "age" > $2) AND ("joinedAt" > $3)`, sql)
	assert.Equal(t, []any{`%a\_b%`, float64(30), "2024-01-01"}, args)
}

func TestCompile_SQLite(t *testing.T) {
	c := NewSQLCompiler(DialectSQLite, catalog.Default())
	c.Columns["joinedAt"] = "joined_at"

	sql, _, err := c.Compile(twoRootForest())
	require.NoError(t, err)
	assert.Equal(t, `("name" LIKE ? ESCAPE '\' OR "age" > ?) AND ("joined_at" > ?)`, sql)
}

func TestCompile_Operators(t *testing.T) {
	tests := []struct {
		name     string
		rule     query.Rule
		wantSQL  string
		wantArgs []any
	}{
		{"equals", rule("r", "country", "equals", query.StringValue("NO")), `("country" = ?)`, []any{"NO"}},
		{"on", rule("r", "joinedAt", "on", query.StringValue("2024-01-01")), `("joinedAt" = ?)`, []any{"2024-01-01"}},
		{"before", rule("r", "joinedAt", "before", query.StringValue("2024-01-01")), `("joinedAt" < ?)`, []any{"2024-01-01"}},
		{"lt", rule("r", "age", "lt", query.NumberValue(5)), `("age" < ?)`, []any{float64(5)}},
		{"starts_with", rule("r", "name", "starts_with", query.StringValue("50%")), `("name" LIKE ? ESCAPE '\')`, []any{`50\%%`}},
		{"ends_with", rule("r", "name", "ends_with", query.StringValue("son")), `("name" LIKE ? ESCAPE '\')`, []any{"%son"}},
		{"between comma", rule("r", "age", "between", query.StringValue("18,65")), `("age" BETWEEN ? AND ?)`, []any{float64(18), float64(65)}},
		{"between dots", rule("r", "age", "between", query.StringValue("18 .. 65")), `("age" BETWEEN ? AND ?)`, []any{float64(18), float64(65)}},
		{"empty value", rule("r", "age", "equals", query.Value{}), `("age" = ?)`, []any{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSQLCompiler(DialectSQLite, catalog.Default())
			f := query.Forest{query.Root(query.None, query.Group{ID: "g", Children: []query.Sibling[query.Node]{
				query.Child(query.None, tt.rule),
			}})}

			sql, args, err := c.Compile(f)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCompile_NestedAndEmpty(t *testing.T) {
	f := query.Forest{
		query.Root(query.None, query.Group{ID: "g1", Children: []query.Sibling[query.Node]{
			query.Child(query.None, rule("r1", "name", "equals", query.StringValue("Ada"))),
			query.Child(query.None, query.Group{ID: "g2", Children: []query.Sibling[query.Node]{
				query.Child(query.None, rule("r2", "age", "lt", query.NumberValue(18))),
				query.Child(query.Or, rule("r3", "age", "gt", query.NumberValue(65))),
			}}),
		}}),
		query.Root(query.Or, query.Group{ID: "g3"}),
	}

	c := NewSQLCompiler(DialectPostgres, nil)
	sql, args, err := c.Compile(f)
	require.NoError(t, err)
	assert.Equal(t, `("name" = $1 AND ("age" < $2 OR "age" > $3)) OR (1 = 1)`, sql)
	assert.Equal(t, []any{"Ada", float64(18), float64(65)}, args)
}

func TestCompile_EmptyForest(t *testing.T) {
	sql, args, err := NewSQLCompiler(DialectPostgres, nil).CompileWhere(nil)
	require.NoError(t, err)
	assert.Equal(t, "WHERE 1 = 1", sql)
	assert.Empty(t, args)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		rule query.Rule
		want error
	}{
		{"unknown operator", rule("r", "name", "sounds_like", query.StringValue("x")), types.ErrUnknownOperator},
		{"between single value", rule("r", "age", "between", query.StringValue("18")), types.ErrInvalidValue},
		{"between open range", rule("r", "age", "between", query.StringValue("18,")), types.ErrInvalidValue},
		{"non numeric age", rule("r", "age", "gt", query.StringValue("old")), types.ErrCoercionFailed},
		{"bad date", rule("r", "joinedAt", "on", query.StringValue("yesterday")), types.ErrCoercionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := query.Forest{query.Root(query.None, query.Group{ID: "g", Children: []query.Sibling[query.Node]{
				query.Child(query.None, tt.rule),
			}})}
			_, _, err := NewSQLCompiler(DialectPostgres, catalog.Default()).Compile(f)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, DialectPostgres, d)

	d, err = ParseDialect("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, DialectSQLite, d)

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}

func TestCompile_SkipsNilChildren(t *testing.T) {
	f := query.Forest{
		query.Root(query.None, query.Group{ID: "g1", Children: []query.Sibling[query.Node]{
			query.Child(query.Or, nil),
			query.Child(query.Or, rule("r1", "name", "equals", query.StringValue("Ada"))),
		}}),
		query.Root(query.And, query.Group{ID: "g2", Children: []query.Sibling[query.Node]{
			query.Child(query.None, nil),
		}}),
	}

	sql, args, err := NewSQLCompiler(DialectSQLite, nil).Compile(f)
	require.NoError(t, err)
	assert.Equal(t, `("name" = ?) AND (1 = 1)`, sql)
	assert.Equal(t, []any{"Ada"}, args)
}
