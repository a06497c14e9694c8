// Package export turns a query forest into representations other systems
// consume directly: a parameterized SQL WHERE fragment and a protobuf
// struct value. Nothing here executes a query.
package export

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/solatis/querytree/internal/catalog"
	"github.com/solatis/querytree/internal/query"
	"github.com/solatis/querytree/internal/types"
)

/*
 * SQL compilation.
 *
 * Compiles a Forest into a WHERE fragment plus positional args. The fragment
 * mirrors the text output one to one: every group is parenthesized, siblings
 * are joined by their connector (a missing one reads as AND) and SQL's usual
 * AND-over-OR precedence applies to both.
 *
 * Values are never interpolated. The compiler writes ? placeholders and
 * rebinds them for the target dialect via sqlx. Identifiers are quoted with
 * double quotes, which both PostgreSQL and SQLite accept.
 *
 * Empty groups compile to 1 = 1 so a half-built tree still yields valid SQL.
 * Nil children are skipped, as the text and structured outputs skip them.
 */

// Dialect selects placeholder syntax.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect accepts "postgres" (or "postgresql") and "sqlite" (or "sqlite3").
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "postgres", "postgresql":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect: %s (expected postgres or sqlite)", s)
	}
}

func (d Dialect) bindType() int {
	if d == DialectPostgres {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

const alwaysTrue = "1 = 1"

// SQLCompiler compiles forests to parameterized SQL.
type SQLCompiler struct {
	Dialect Dialect

	// Columns maps field keys to column names. Unmapped fields use the key.
	Columns map[string]string

	// Catalog types rule values before binding. Nil binds values as stored.
	Catalog *catalog.Catalog
}

// NewSQLCompiler creates a compiler for d backed by cat.
func NewSQLCompiler(d Dialect, cat *catalog.Catalog) *SQLCompiler {
	return &SQLCompiler{
		Dialect: d,
		Columns: make(map[string]string),
		Catalog: cat,
	}
}

// Compile converts f to a WHERE fragment and its args.
// An empty forest compiles to 1 = 1 with no args.
func (c *SQLCompiler) Compile(f query.Forest) (string, []any, error) {
	if len(f) == 0 {
		return alwaysTrue, nil, nil
	}

	var b strings.Builder
	var args []any
	for i, root := range f {
		writeJoin(&b, i, root.Connector)
		groupArgs, err := c.compileGroup(&b, root.Node)
		if err != nil {
			return "", nil, err
		}
		args = append(args, groupArgs...)
	}

	return sqlx.Rebind(c.Dialect.bindType(), b.String()), args, nil
}

// CompileWhere is Compile with a leading "WHERE ".
func (c *SQLCompiler) CompileWhere(f query.Forest) (string, []any, error) {
	sql, args, err := c.Compile(f)
	if err != nil {
		return "", nil, err
	}
	return "WHERE " + sql, args, nil
}

func writeJoin(b *strings.Builder, i int, conn query.Connector) {
	if i == 0 {
		return
	}
	b.WriteByte(' ')
	b.WriteString(string(conn.OrDefault()))
	b.WriteByte(' ')
}

func (c *SQLCompiler) compileGroup(b *strings.Builder, g query.Group) ([]any, error) {
	b.WriteByte('(')
	defer b.WriteByte(')')

	var args []any
	i := 0
	for _, ch := range g.Children {
		if ch.Node == nil {
			continue
		}
		writeJoin(b, i, ch.Connector)
		i++

		var childArgs []any
		var err error
		switch n := ch.Node.(type) {
		case query.Rule:
			childArgs, err = c.compileRule(b, n)
		case query.Group:
			childArgs, err = c.compileGroup(b, n)
		}
		if err != nil {
			return nil, err
		}
		args = append(args, childArgs...)
	}
	if i == 0 {
		b.WriteString(alwaysTrue)
	}
	return args, nil
}

func (c *SQLCompiler) compileRule(b *strings.Builder, r query.Rule) ([]any, error) {
	col := c.column(r.Field)

	switch r.Operator {
	case "equals", "on":
		return c.comparison(b, col, "=", r)
	case "gt", "after":
		return c.comparison(b, col, ">", r)
	case "lt", "before":
		return c.comparison(b, col, "<", r)
	case "contains":
		return like(b, col, "%"+escapeLike(r.Value.Text())+"%")
	case "starts_with":
		return like(b, col, escapeLike(r.Value.Text())+"%")
	case "ends_with":
		return like(b, col, "%"+escapeLike(r.Value.Text()))
	case "between":
		return c.between(b, col, r)
	default:
		return nil, fmt.Errorf("rule %s: %w: %q", r.ID, types.ErrUnknownOperator, r.Operator)
	}
}

func (c *SQLCompiler) column(field string) string {
	if name, ok := c.Columns[field]; ok && name != "" {
		return pq.QuoteIdentifier(name)
	}
	return pq.QuoteIdentifier(field)
}

func (c *SQLCompiler) comparison(b *strings.Builder, col, op string, r query.Rule) ([]any, error) {
	arg, err := c.bindValue(r.Field, r.Value)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", r.ID, err)
	}
	fmt.Fprintf(b, "%s %s ?", col, op)
	return []any{arg}, nil
}

func like(b *strings.Builder, col, pattern string) ([]any, error) {
	fmt.Fprintf(b, `%s LIKE ? ESCAPE '\'`, col)
	return []any{pattern}, nil
}

func (c *SQLCompiler) between(b *strings.Builder, col string, r query.Rule) ([]any, error) {
	lo, hi, ok := splitRange(r.Value.Text())
	if !ok {
		return nil, fmt.Errorf("rule %s: %w: between needs \"low,high\" or \"low..high\", got %q",
			r.ID, types.ErrInvalidValue, r.Value.Text())
	}

	loArg, err := c.bindValue(r.Field, query.StringValue(lo))
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", r.ID, err)
	}
	hiArg, err := c.bindValue(r.Field, query.StringValue(hi))
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", r.ID, err)
	}

	fmt.Fprintf(b, "%s BETWEEN ? AND ?", col)
	return []any{loArg, hiArg}, nil
}

// bindValue types v by the catalog's view of field.
func (c *SQLCompiler) bindValue(field string, v query.Value) (any, error) {
	if c.Catalog == nil {
		return v.Interface(), nil
	}
	typed, err := c.Catalog.CoerceFor(field, v)
	if err != nil {
		return nil, err
	}
	return typed.Interface(), nil
}

func splitRange(s string) (string, string, bool) {
	sep := ","
	if strings.Contains(s, "..") {
		sep = ".."
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return "", "", false
	}
	lo, hi := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if lo == "" || hi == "" {
		return "", "", false
	}
	return lo, hi, true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
