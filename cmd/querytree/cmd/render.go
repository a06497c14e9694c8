package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/solatis/querytree/internal/query"
)

var renderViews views

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a structured query file as text, JSON and optional SQL/protobuf",
	Long: `Reads a structured query forest (JSON or YAML, "-" for stdin), validates
it and prints every derived representation.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVar(&renderViews.sql, "sql", false, "print the SQL WHERE clause")
	renderCmd.Flags().BoolVar(&renderViews.proto, "proto", false, "print the protobuf Struct view")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	src, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	forest, err := parseForest(args[0], src)
	if err != nil {
		return err
	}
	if err := query.Validate(forest); err != nil {
		return fmt.Errorf("invalid forest: %w", err)
	}

	rules, groups := query.Count(forest)
	logger.Debug("forest loaded",
		"file", args[0],
		"rules", rules,
		"groups", groups,
		"depth", query.Depth(forest),
	)

	return writeForest(cmd.OutOrStdout(), forest, cfg, renderViews)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// parseForest decodes JSON for .json files and YAML otherwise. JSON numbers
// are kept exact via json.Number.
func parseForest(path string, src []byte) (query.Forest, error) {
	var doc any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(src))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if doc == nil {
		return query.Forest{}, nil
	}
	nodes, err := query.DecodeStructured(doc)
	if err != nil {
		return nil, err
	}
	return query.FromStructured(nodes)
}
