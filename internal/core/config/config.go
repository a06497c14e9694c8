// Package config provides configuration management for querytree.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/solatis/querytree/internal/catalog"
	"github.com/solatis/querytree/internal/export"
	"github.com/solatis/querytree/internal/types"
)

// Config is the resolved configuration of a querytree process.
type Config struct {
	Catalog *catalog.Catalog
	Output  OutputConfig
	Log     LogConfig
	Session SessionConfig
}

// OutputConfig controls the derived query views.
type OutputConfig struct {
	SQLDialect export.Dialect
	// Columns maps field keys to SQL column names.
	Columns map[string]string
	Indent  string
}

// ColumnMapping renames a field in SQL output.
type ColumnMapping struct {
	Field  string `mapstructure:"field"`
	Column string `mapstructure:"column"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// SessionConfig controls editing sessions.
type SessionConfig struct {
	// IDPrefix switches node ids from UUIDv7 to "<prefix>-N" counters.
	IDPrefix string
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Catalog: catalog.Default(),
		Output: OutputConfig{
			SQLDialect: export.DialectPostgres,
			Columns:    map[string]string{},
			Indent:     "  ",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// IDGenerator returns the node id generator selected by the session config.
func (s SessionConfig) IDGenerator() types.IDGenerator {
	if s.IDPrefix == "" {
		return types.NewNodeID
	}
	return types.SequentialIDs(s.IDPrefix)
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log level must be one of debug, info, warn, error, got %q", l.Level)
	}
}

// NewLogger builds a logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(l.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log format must be json or text, got %q", l.Format)
	}
}
