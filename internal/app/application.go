package app

import (
	"fmt"
	"log/slog"

	"shadowgap.org/internal/appconf"
	"shadowgap.org/internal/countries"
)

// Application holds the dependencies shared by every pipeline stage: the
// run configuration, the logger and the validated country tables.
type Application struct {
	Config appconf.Config
	Logger *slog.Logger
	Tables *countries.Tables
}

// New validates cfg and loads the country tables, from cfg.TablesPath when
// set and from the embedded copy otherwise. Ambiguous tables are fatal.
func New(cfg appconf.Config, logger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	tables, err := countries.LoadTables(cfg.TablesPath)
	if err != nil {
		return nil, err
	}

	logger.Debug("country tables loaded",
		slog.String("source", tablesSource(cfg)),
		slog.Int("aliases", tables.AliasCount()),
	)

	return &Application{
		Config: cfg,
		Logger: logger,
		Tables: tables,
	}, nil
}

func tablesSource(cfg appconf.Config) string {
	if cfg.TablesPath == "" {
		return "embedded"
	}
	return cfg.TablesPath
}
