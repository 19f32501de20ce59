package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/graphconsole/internal/query"
)

// GraphDatabase runs queries against one configured data source.
type GraphDatabase interface {
	Execute(ctx context.Context, cypher string, params map[string]any) (*query.Result, error)
	Metadata(ctx context.Context) (*Metadata, error)
}

// Metadata describes the schema of a graph as reported by the data source.
type Metadata struct {
	Labels            []string `json:"labels"`
	RelationshipTypes []string `json:"relationship_types"`
	PropertyKeys      []string `json:"property_keys"`
}

// Opener creates a new driver handle for a target. BoltDatabase calls it once
// per execution.
type Opener func(ctx context.Context, target Target) (Conn, error)

type Conn interface {
	NewSession(ctx context.Context) Session
	Close(ctx context.Context) error
}

type Session interface {
	Run(ctx context.Context, cypher string, params map[string]any) (Cursor, error)
	Close(ctx context.Context) error
}

// Cursor is a streaming query result.
type Cursor interface {
	Keys() ([]string, error)
	Collect(ctx context.Context) ([]*neo4j.Record, error)
	Consume(ctx context.Context) (query.Summary, error)
}
