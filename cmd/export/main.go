// Command export pushes an analyzed project's files, components, and
// relationships into Neo4j for graph exploration.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/codemap-labs/codemap/internal/config"
	"github.com/codemap-labs/codemap/internal/graph"
	"github.com/codemap-labs/codemap/internal/store"
)

func main() {
	_ = godotenv.Load(".env")

	var (
		projectName = flag.String("project", "", "project name (required)")
		clear       = flag.Bool("clear", false, "delete the project's existing graph nodes before export")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

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

	project, err := s.GetProjectByName(ctx, *projectName)
	if err != nil {
		logger.Error("failed to resolve project", slog.String("error", err.Error()))
		os.Exit(1)
	}

	client, err := graph.NewClient(cfg.Neo4j)
	if err != nil {
		logger.Error("failed to connect to neo4j", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer client.Close(ctx)

	if err := client.Verify(ctx); err != nil {
		logger.Error("neo4j connectivity check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		logger.Error("neo4j ensure indexes failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *clear {
		if err := client.ClearProject(ctx, project.ID); err != nil {
			logger.Error("failed to clear project graph", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("cleared existing graph", slog.String("project", project.Name))
	}

	files, err := s.ListFilesByProject(ctx, project.ID)
	if err != nil {
		logger.Error("failed to load files", slog.String("error", err.Error()))
		os.Exit(1)
	}
	components, err := s.ListComponentsByProject(ctx, project.ID)
	if err != nil {
		logger.Error("failed to load components", slog.String("error", err.Error()))
		os.Exit(1)
	}
	relationships, err := s.ListRelationshipsByProject(ctx, project.ID)
	if err != nil {
		logger.Error("failed to load relationships", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := client.SyncFiles(ctx, project.ID, files); err != nil {
		logger.Error("file export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := client.SyncComponents(ctx, project.ID, components); err != nil {
		logger.Error("component export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := client.SyncRelationships(ctx, project.ID, relationships); err != nil {
		logger.Error("relationship export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("export complete",
		slog.String("project", project.Name),
		slog.Int("files", len(files)),
		slog.Int("components", len(components)),
		slog.Int("relationships", len(relationships)))
}
