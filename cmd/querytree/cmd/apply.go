package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/solatis/querytree/internal/query"
	"github.com/solatis/querytree/internal/session"
)

var (
	applyViews   views
	applyQuiet   bool
	applyMetrics bool
	applyStart   string
)

var applyCmd = &cobra.Command{
	Use:   "apply <script>",
	Short: "Run a YAML edit script against a fresh editing session",
	Long: `Starts a session with one default group (or the forest given by --from),
applies each intent of the script in order and prints the text output after
every change. Intents addressing missing nodes are logged and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().BoolVarP(&applyQuiet, "quiet", "q", false, "print only the final state")
	applyCmd.Flags().BoolVar(&applyMetrics, "metrics", false, "print edit counters after the run")
	applyCmd.Flags().StringVar(&applyStart, "from", "", "structured forest file to start from")
	applyCmd.Flags().BoolVar(&applyViews.sql, "sql", false, "print the SQL WHERE clause of the final state")
	applyCmd.Flags().BoolVar(&applyViews.proto, "proto", false, "print the protobuf Struct view of the final state")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	intents, err := session.ParseScript(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	registry := prometheus.NewRegistry()
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithIDGenerator(cfg.Session.IDGenerator()),
		session.WithMetrics(session.NewMetrics(registry)),
	}
	if !applyQuiet {
		step := 0
		opts = append(opts, session.WithOnQueryChange(func(s []query.StructuredNode) {
			forest, err := query.FromStructured(s)
			if err != nil {
				logger.Error("callback payload not re-feedable", "error", err)
				return
			}
			fmt.Fprintf(out, "[%d] %s\n", step, query.ToText(forest))
			step++
		}))
	}
	if applyStart != "" {
		src, err := readInput(cmd, applyStart)
		if err != nil {
			return err
		}
		start, err := parseForest(applyStart, src)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithForest(start))
	}

	sess := session.New(cfg.Catalog, opts...)
	applied, err := sess.ApplyAll(intents)
	if err != nil {
		return err
	}
	logger.Info("script applied", "file", args[0], "intents", len(intents), "applied", applied)

	if err := writeForest(out, sess.Forest(), cfg, applyViews); err != nil {
		return err
	}
	if applyMetrics {
		return writeMetrics(cmd, registry)
	}
	return nil
}

// writeMetrics prints every counter and gauge sample as name{labels} value.
func writeMetrics(cmd *cobra.Command, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
			}
			value := m.GetCounter().GetValue()
			if m.GetGauge() != nil {
				value = m.GetGauge().GetValue()
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %v", mf.GetName(), labels, value))
		}
	}
	sort.Strings(lines)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "metrics:")
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	return nil
}
