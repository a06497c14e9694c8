package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/solatis/querytree/internal/catalog"
	"github.com/solatis/querytree/internal/export"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults matching DefaultConfig
	v.SetDefault("output.sql_dialect", string(export.DialectPostgres))
	v.SetDefault("output.indent", "  ")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("session.id_prefix", "")

	// Bind environment variables with QT_ prefix
	v.SetEnvPrefix("QT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cat, err := loadCatalog(v)
	if err != nil {
		return nil, err
	}

	dialect, err := export.ParseDialect(v.GetString("output.sql_dialect"))
	if err != nil {
		return nil, err
	}

	// Column mappings are a list because viper lowercases map keys and
	// field keys are case-sensitive.
	var mappings []ColumnMapping
	if err := v.UnmarshalKey("output.columns", &mappings); err != nil {
		return nil, fmt.Errorf("invalid output.columns: %w", err)
	}
	columns := make(map[string]string, len(mappings))
	for _, m := range mappings {
		columns[m.Field] = m.Column
	}

	cfg := &Config{
		Catalog: cat,
		Output: OutputConfig{
			SQLDialect: dialect,
			Columns:    columns,
			Indent:     v.GetString("output.indent"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Session: SessionConfig{
			IDPrefix: v.GetString("session.id_prefix"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadCatalog decodes the catalog section. Fields and operators fall back to
// the stock catalog independently, so a file may override just one of them.
func loadCatalog(v *viper.Viper) (*catalog.Catalog, error) {
	cat := catalog.Default()
	if !v.IsSet("catalog") {
		return cat, nil
	}

	var loaded catalog.Catalog
	if err := v.UnmarshalKey("catalog", &loaded); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if len(loaded.Fields) > 0 {
		cat.Fields = loaded.Fields
	}
	if len(loaded.Operators) > 0 {
		cat.Operators = loaded.Operators
	}
	return cat, nil
}

// validateConfig checks the catalog shape and the log settings.
func validateConfig(cfg *Config) error {
	if err := cfg.Catalog.Validate(); err != nil {
		return err
	}
	if _, err := cfg.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be json or text, got %q", cfg.Log.Format)
	}
	for field, column := range cfg.Output.Columns {
		if field == "" || column == "" {
			return fmt.Errorf("output.columns entries need both field and column, got %q -> %q", field, column)
		}
	}
	if strings.Trim(cfg.Output.Indent, " \t") != "" {
		return fmt.Errorf("output indent must be spaces or tabs, got %q", cfg.Output.Indent)
	}
	return nil
}
