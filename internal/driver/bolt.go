package driver

import (
	"context"
	"log/slog"
	"time"

	"github.com/agenthands/graphconsole/internal/query"
)

// BoltDatabase talks to Neo4j 3.0+ over Bolt. Every Execute call opens its own
// driver and session; nothing is pooled between calls.
type BoltDatabase struct {
	target Target
	open   Opener
	logger *slog.Logger
}

type Option func(*BoltDatabase)

// WithOpener replaces the Neo4j driver factory.
func WithOpener(open Opener) Option {
	return func(d *BoltDatabase) {
		d.open = open
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *BoltDatabase) {
		d.logger = logger
	}
}

func NewBoltDatabase(cfg BoltConfig, opts ...Option) *BoltDatabase {
	d := &BoltDatabase{
		target: NewTarget(cfg),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.open == nil {
		d.open = Neo4jOpener(DriverLogging(d.logger))
	}
	return d
}

// NewBoltDatabaseFromMap builds a database from a data source configuration mapping.
func NewBoltDatabaseFromMap(cfg map[string]string, opts ...Option) (*BoltDatabase, error) {
	bc, err := ParseBoltConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewBoltDatabase(bc, opts...), nil
}

func (d *BoltDatabase) Target() Target {
	return d.target
}

// Execute runs cypher and returns the fully buffered result. It blocks until all
// rows and the summary have been read. Driver errors are returned unchanged
// except for name resolution failures, which become a *ClientError.
func (d *BoltDatabase) Execute(ctx context.Context, cypher string, params map[string]any) (*query.Result, error) {
	if params == nil {
		params = map[string]any{}
	}

	conn, err := d.open(ctx, d.target)
	if err != nil {
		return nil, translateError(err)
	}
	defer d.release(ctx, conn)

	result, err := d.run(ctx, conn, cypher, params)
	if err != nil {
		return nil, translateError(err)
	}
	return result, nil
}

func (d *BoltDatabase) run(ctx context.Context, conn Conn, cypher string, params map[string]any) (*query.Result, error) {
	session := conn.NewSession(ctx)
	defer func() {
		if err := session.Close(ctx); err != nil {
			d.logger.Warn("failed to close session", "url", d.target.URL, "error", err)
		}
	}()

	buf := query.NewBuffer()

	start := time.Now()
	cursor, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	keys, err := cursor.Keys()
	if err != nil {
		return nil, err
	}
	buf.AddColumns(keys)

	records, err := cursor.Collect(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		buf.AddRow(record.AsMap())
	}

	summary, err := cursor.Consume(ctx)
	if err != nil {
		return nil, err
	}
	buf.AddResultSummary(summary)
	elapsed := time.Since(start)

	return query.NewResult(elapsed, buf), nil
}

// release closes the driver in the background. Callers never wait for it and
// failures are only logged.
func (d *BoltDatabase) release(ctx context.Context, conn Conn) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := conn.Close(ctx); err != nil {
			d.logger.Warn("failed to close driver", "url", d.target.URL, "error", err)
		}
	}()
}

// Metadata is not supported over Bolt.
func (d *BoltDatabase) Metadata(ctx context.Context) (*Metadata, error) {
	return nil, ErrNotImplemented
}
