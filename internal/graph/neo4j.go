// Package graph exports the built component graph to Neo4j for visual
// exploration. The relational store stays the source of truth; the export is
// one-way and re-runnable.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/codemap-labs/codemap/internal/config"
)

// Client wraps the Neo4j driver.
type Client struct {
	driver neo4j.DriverWithContext
}

func NewClient(cfg config.Neo4jConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return &Client{driver: driver}, nil
}

// EnsureIndexes creates the uniqueness constraints on Component(id) and
// File(id). The constraints back the indexes that keep MERGE by id fast.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	session := c.Session(ctx)
	defer session.Close(ctx)
	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, CreateConstraintComponentID, nil); err != nil {
			return struct{}{}, fmt.Errorf("create component id constraint: %w", err)
		}
		if _, err := tx.Run(ctx, CreateConstraintFileID, nil); err != nil {
			return struct{}{}, fmt.Errorf("create file id constraint: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// Close releases the driver resources.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Verify checks connectivity.
func (c *Client) Verify(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// Session returns a new write session.
func (c *Client) Session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}
