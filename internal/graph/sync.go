package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/codemap-labs/codemap/pkg/models"
)

const batchSize = 500

// SyncFiles upserts file nodes from the relational store.
func (c *Client) SyncFiles(ctx context.Context, projectID uuid.UUID, files []models.File) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(files); i += batchSize {
		end := min(i+batchSize, len(files))
		batch := files[i:end]

		params := make([]map[string]any, len(batch))
		for j, f := range batch {
			params[j] = map[string]any{
				"id":        f.ID.String(),
				"name":      f.Name,
				"path":      f.Path,
				"type":      string(f.Type),
				"projectId": projectID.String(),
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertFileNode, map[string]any{"files": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync files batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// SyncComponents upserts component nodes and their DEFINED_IN file links.
func (c *Client) SyncComponents(ctx context.Context, projectID uuid.UUID, components []models.Component) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(components); i += batchSize {
		end := min(i+batchSize, len(components))
		batch := components[i:end]

		params := make([]map[string]any, len(batch))
		for j, comp := range batch {
			params[j] = map[string]any{
				"id":        comp.ID.String(),
				"name":      comp.Name,
				"type":      string(comp.Type),
				"origin":    string(comp.Origin),
				"projectId": projectID.String(),
				"fileId":    comp.FileID.String(),
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			if _, err := tx.Run(ctx, UpsertComponentNode, map[string]any{"components": params}); err != nil {
				return struct{}{}, err
			}
			_, err := tx.Run(ctx, LinkComponentToFile, map[string]any{"components": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync components batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// SyncRelationships upserts the typed component edges.
func (c *Client) SyncRelationships(ctx context.Context, projectID uuid.UUID, relationships []models.Relationship) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(relationships); i += batchSize {
		end := min(i+batchSize, len(relationships))
		batch := relationships[i:end]

		params := make([]map[string]any, len(batch))
		for j, r := range batch {
			params[j] = map[string]any{
				"sourceId":   r.SourceID.String(),
				"targetId":   r.TargetID.String(),
				"relType":    string(r.Type),
				"confidence": r.Confidence,
				"projectId":  projectID.String(),
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertRelationship, map[string]any{"edges": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync relationships batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// ClearProject removes all graph data of one project before a full re-export.
func (c *Client) ClearProject(ctx context.Context, projectID uuid.UUID) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, DeleteProjectNodes, map[string]any{
			"projectId": projectID.String(),
		})
		return struct{}{}, err
	})
	return err
}
