package datasource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/agenthands/graphconsole/internal/driver"
	"github.com/agenthands/graphconsole/internal/events"
	"github.com/agenthands/graphconsole/internal/query"
)

// TypeNeo4jBolt is the only supported data source type.
const TypeNeo4jBolt = "neo4j-bolt"

var (
	ErrUnknownDataSource = errors.New("unknown data source")
	ErrEmptyQuery        = errors.New("query is empty")
)

// Spec describes one configured data source.
type Spec struct {
	Name          string
	Type          string
	Configuration map[string]string
}

// Manager is safe for concurrent use; Add may be called while queries run.
type Manager struct {
	mu      sync.RWMutex
	sources map[string]driver.GraphDatabase
	bus     *events.Bus
	logger  *slog.Logger
}

// New builds a GraphDatabase for every spec. opts are passed to each bolt database.
func New(specs []Spec, bus *events.Bus, logger *slog.Logger, opts ...driver.Option) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if bus == nil {
		bus = events.NewBus()
	}

	m := &Manager{
		sources: make(map[string]driver.GraphDatabase, len(specs)),
		bus:     bus,
		logger:  logger,
	}

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("data source without a name")
		}
		if _, dup := m.sources[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate data source %q", spec.Name)
		}

		typ := spec.Type
		if typ == "" {
			typ = TypeNeo4jBolt
		}
		if typ != TypeNeo4jBolt {
			return nil, fmt.Errorf("data source %q: unsupported type %q", spec.Name, spec.Type)
		}

		dbOpts := append([]driver.Option{driver.WithLogger(logger.With("datasource", spec.Name))}, opts...)
		db, err := driver.NewBoltDatabaseFromMap(spec.Configuration, dbOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to configure data source %q: %w", spec.Name, err)
		}
		m.sources[spec.Name] = db
		logger.Debug("data source configured", "datasource", spec.Name, "target", db.Target().String())
	}

	return m, nil
}

// Add registers an already constructed database under name, replacing any
// existing one.
func (m *Manager) Add(name string, db driver.GraphDatabase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[name] = db
}

func (m *Manager) Bus() *events.Bus {
	return m.bus
}

func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) Database(name string) (driver.GraphDatabase, error) {
	m.mu.RLock()
	db, ok := m.sources[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataSource, name)
	}
	return db, nil
}

// Execute runs cypher on the named data source and publishes the execution on
// the bus: started, then result or error, then completed.
func (m *Manager) Execute(ctx context.Context, name, cypher string, params map[string]any) (*query.Result, error) {
	if strings.TrimSpace(cypher) == "" {
		return nil, ErrEmptyQuery
	}
	db, err := m.Database(name)
	if err != nil {
		return nil, err
	}

	p := events.NewPayload(name, cypher, params)
	m.bus.ExecutionStarted(p)
	defer m.bus.ExecutionCompleted(p)

	result, err := db.Execute(ctx, cypher, params)
	if err != nil {
		m.logger.Debug("query failed", "datasource", name, "id", p.ID, "error", err)
		m.bus.HandleError(p, err)
		return nil, err
	}

	m.logger.Debug("query executed", "datasource", name, "id", p.ID,
		"rows", result.RowCount(), "elapsed_ms", result.ExecutionTimeMs())
	m.bus.ResultReceived(p, result)
	return result, nil
}

// RefreshMetadata fetches the schema of the named data source, announcing the
// refresh on the bus.
func (m *Manager) RefreshMetadata(ctx context.Context, name string) (*driver.Metadata, error) {
	db, err := m.Database(name)
	if err != nil {
		return nil, err
	}

	m.bus.MetadataRefreshStarted(name)
	meta, err := db.Metadata(ctx)
	if err != nil {
		m.bus.MetadataRefreshFailed(name, err)
		return nil, err
	}
	m.bus.MetadataRefreshSucceeded(name)
	return meta, nil
}
