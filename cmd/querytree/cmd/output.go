package cmd

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"

	"github.com/solatis/querytree/internal/core/config"
	"github.com/solatis/querytree/internal/export"
	"github.com/solatis/querytree/internal/query"
)

// views selects the optional outputs printed next to text and structured.
type views struct {
	sql   bool
	proto bool
}

func writeForest(w io.Writer, f query.Forest, cfg *config.Config, v views) error {
	fmt.Fprintf(w, "text: %s\n", query.ToText(f))

	structured, err := query.MarshalStructuredIndent(f, cfg.Output.Indent)
	if err != nil {
		return fmt.Errorf("marshal structured output: %w", err)
	}
	fmt.Fprintf(w, "structured:\n%s\n", structured)

	if v.sql {
		compiler := export.NewSQLCompiler(cfg.Output.SQLDialect, cfg.Catalog)
		for field, column := range cfg.Output.Columns {
			compiler.Columns[field] = column
		}
		where, args, err := compiler.CompileWhere(f)
		if err != nil {
			return fmt.Errorf("compile sql: %w", err)
		}
		fmt.Fprintf(w, "sql: %s\nargs: %v\n", where, args)
	}

	if v.proto {
		list, err := export.ToProto(f)
		if err != nil {
			return err
		}
		out, err := protojson.MarshalOptions{Multiline: true, Indent: cfg.Output.Indent}.Marshal(list)
		if err != nil {
			return fmt.Errorf("marshal protobuf output: %w", err)
		}
		fmt.Fprintf(w, "proto:\n%s\n", out)
	}
	return nil
}
