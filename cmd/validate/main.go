// Command validate runs the consistency checks against an already-analyzed
// project and prints the report. Exit status is non-zero when any fatal
// violation is found, which makes it usable as a CI gate.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/codemap-labs/codemap/internal/config"
	"github.com/codemap-labs/codemap/internal/store"
	"github.com/codemap-labs/codemap/internal/validate"
)

func main() {
	_ = godotenv.Load(".env")

	var (
		projectName = flag.String("project", "", "project name")
		projectID   = flag.String("project-id", "", "project id (alternative to --project)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *projectName == "" && *projectID == "" {
		logger.Error("--project or --project-id is required")
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

	id, err := resolveProject(ctx, s, *projectName, *projectID)
	if err != nil {
		logger.Error("failed to resolve project", slog.String("error", err.Error()))
		os.Exit(1)
	}

	report, err := validate.New(s, logger).Run(ctx, id)
	if err != nil {
		logger.Error("validation failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
	report.Print(os.Stdout)
	if report.Failed() {
		os.Exit(1)
	}
}

func resolveProject(ctx context.Context, s *store.Store, name, rawID string) (uuid.UUID, error) {
	if rawID != "" {
		return uuid.Parse(rawID)
	}
	project, err := s.GetProjectByName(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	return project.ID, nil
}
