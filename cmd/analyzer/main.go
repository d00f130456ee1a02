// Command analyzer scans a legacy repository, extracts its structure into the
// metadata store, and runs the relationship passes plus the consistency
// validator over the result.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/codemap-labs/codemap/internal/config"
	"github.com/codemap-labs/codemap/internal/relationship"
	"github.com/codemap-labs/codemap/internal/store"
	"github.com/codemap-labs/codemap/internal/validate"
)

func main() {
	_ = godotenv.Load(".env")

	var (
		projectName = flag.String("project", "", "project name (required)")
		rootPath    = flag.String("root", ".", "repository root to scan")
		debug       = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if *projectName == "" {
		logger.Error("--project is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := store.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	s := store.New(pool)
	if err := s.Migrate(ctx); err != nil {
		logger.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	keywords, err := config.LoadKeywords(cfg.Analyzer.KeywordFile)
	if err != nil {
		logger.Error("failed to load keyword list", slog.String("error", err.Error()))
		os.Exit(1)
	}

	project, err := s.UpsertProject(ctx, *projectName, *rootPath)
	if err != nil {
		logger.Error("failed to register project", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("project registered",
		slog.String("project", project.Name),
		slog.String("id", project.ID.String()))

	builder := relationship.NewBuilder(s, keywords, project.ID, logger)

	total, err := newScanner(s, builder, project.ID, logger).walk(ctx, *rootPath)
	if err != nil {
		logger.Error("scan failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := s.UpdateProjectFileCount(ctx, project.ID, total); err != nil {
		logger.Error("failed to update file count", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("scan complete", slog.Int("files", total))

	stats, err := builder.BuildAll(ctx)
	if err != nil {
		logger.Error("relationship build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("relationships built",
		slog.Int("edges", stats.Total()),
		slog.Int("inferred_components", stats.InferredComponents),
		slog.Any("stats", stats))

	report, err := validate.New(s, logger).Run(ctx, project.ID)
	if err != nil {
		logger.Error("validation failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
	report.Print(os.Stdout)
	if report.Failed() {
		os.Exit(1)
	}
}
