package driver

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/graphconsole/internal/query"
)

// MockOpener records every target it was asked to open and hands out MockConn.
type MockOpener struct {
	mu      sync.Mutex
	Targets []Target
	Conn    *MockConn
	Err     error
}

func (m *MockOpener) Open(ctx context.Context, target Target) (Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Targets = append(m.Targets, target)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Conn, nil
}

type MockConn struct {
	Session  *MockSession
	CloseErr error
	Closed   chan struct{}
}

func NewMockConn(session *MockSession) *MockConn {
	return &MockConn{Session: session, Closed: make(chan struct{})}
}

func (m *MockConn) NewSession(ctx context.Context) Session {
	return m.Session
}

func (m *MockConn) Close(ctx context.Context) error {
	close(m.Closed)
	return m.CloseErr
}

type MockSession struct {
	QueryExecuted string
	QueryParams   map[string]any
	Cursor        *MockCursor
	RunErr        error
	Closed        bool
}

func (m *MockSession) Run(ctx context.Context, cypher string, params map[string]any) (Cursor, error) {
	m.QueryExecuted = cypher
	m.QueryParams = params
	if m.RunErr != nil {
		return nil, m.RunErr
	}
	return m.Cursor, nil
}

func (m *MockSession) Close(ctx context.Context) error {
	m.Closed = true
	return nil
}

type MockCursor struct {
	Columns    []string
	Records    []*neo4j.Record
	Summary    query.Summary
	KeysErr    error
	CollectErr error
	ConsumeErr error
}

func (m *MockCursor) Keys() ([]string, error) {
	return m.Columns, m.KeysErr
}

func (m *MockCursor) Collect(ctx context.Context) ([]*neo4j.Record, error) {
	if m.CollectErr != nil {
		return nil, m.CollectErr
	}
	return m.Records, nil
}

func (m *MockCursor) Consume(ctx context.Context) (query.Summary, error) {
	if m.ConsumeErr != nil {
		return query.Summary{}, m.ConsumeErr
	}
	return m.Summary, nil
}

func record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}
