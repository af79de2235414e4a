package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"pavecraft/internal/config"
	"pavecraft/internal/network"
	"pavecraft/internal/store"
	"pavecraft/internal/store/postgres"
	"pavecraft/internal/store/sqlite"
)

const defaultConfigPath = config.FileName

var configPath = defaultConfigPath

// project is the per-invocation state shared by commands.
type project struct {
	cfg     *config.ProjectConfig
	logger  *slog.Logger
	cleanup func() error
}

// loadProject reads the project config. A missing default config is not
// an error so that file based commands work outside a project.
func loadProject() (*project, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || configPath != defaultConfigPath {
			return nil, err
		}
		cfg = &config.ProjectConfig{Version: 1}
	}

	level := slog.LevelInfo
	if cfg.Logging.Level != "" {
		if level, err = config.ParseLevel(cfg.Logging.Level); err != nil {
			return nil, err
		}
	}
	logger, cleanup := config.SetupLogger(cfg.Logging.File, level)
	return &project{cfg: cfg, logger: logger, cleanup: cleanup}, nil
}

func (p *project) Close() {
	if err := p.cleanup(); err != nil {
		fmt.Fprintf(os.Stderr, "closing log file: %v\n", err)
	}
}

func openDB(ctx context.Context, dsn string) (store.Store, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.New(ctx, dsn)
	case dsn == "":
		return nil, fmt.Errorf("no database configured; set database.dsn in %s", configPath)
	default:
		return nil, fmt.Errorf("unsupported database dsn: %s", dsn)
	}
}

// catalogSource picks the catalog from an explicit file, the configured
// file, or the configured database, in that order.
func (p *project) catalogSource(override string) func(ctx context.Context) ([]network.Performance, error) {
	path := override
	if path == "" {
		path = p.cfg.Catalog
	}
	if path != "" {
		return func(ctx context.Context) ([]network.Performance, error) {
			return config.LoadCatalog(path)
		}
	}
	return func(ctx context.Context) ([]network.Performance, error) {
		db, err := openDB(ctx, p.cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		defer db.Close(ctx)
		return db.ListPerformances(ctx, p.cfg.Database.ProjectID)
	}
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
