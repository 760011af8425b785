package internal

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphAdmin manages the Neo4j graph backing the memory server's entity
// layer: index setup, clearing and status probes.
type GraphAdmin struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewGraphAdmin(cfg Neo4jConfig) (*GraphAdmin, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create Neo4j driver: %w", err)
	}

	return &GraphAdmin{driver: driver, database: cfg.Database}, nil
}

// Status reports whether the graph database is reachable.
func (g *GraphAdmin) Status(ctx context.Context) bool {
	return g.driver.VerifyConnectivity(ctx) == nil
}

// NodeCount returns the total number of nodes in the graph.
func (g *GraphAdmin) NodeCount(ctx context.Context) (int64, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: g.database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, "MATCH (n) RETURN count(n) AS c", nil)
	if err != nil {
		return 0, fmt.Errorf("count nodes: %w", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("collect count: %w", err)
	}

	val, _ := record.Get("c")
	count, _ := val.(int64)
	return count, nil
}

// Clear deletes every node and relationship.
func (g *GraphAdmin) Clear(ctx context.Context) error {
	return g.runWrite(ctx, "MATCH (n) DETACH DELETE n", nil)
}

// Init creates the entity indexes the memory server expects.
func (g *GraphAdmin) Init(ctx context.Context) error {
	statements := []string{
		"CREATE INDEX entity_name IF NOT EXISTS FOR (n:Entity) ON (n.name)",
		"CREATE INDEX entity_id IF NOT EXISTS FOR (n:Entity) ON (n.id)",
		"CREATE INDEX entity_agent_user IF NOT EXISTS FOR (n:Entity) ON (n.agent_id, n.user_id)",
	}

	for _, stmt := range statements {
		if err := g.runWrite(ctx, stmt, nil); err != nil {
			return err
		}
	}
	return nil
}

func (g *GraphAdmin) runWrite(ctx context.Context, cypher string, params map[string]any) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: g.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, cypher, params)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("cypher execution failed: %w", err)
	}
	return nil
}

// Close releases the underlying driver.
func (g *GraphAdmin) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}
