package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/graphconsole/internal/query"
)

func newMockDatabase(t *testing.T, cfg map[string]string, cursor *MockCursor) (*BoltDatabase, *MockOpener, *MockSession) {
	t.Helper()

	session := &MockSession{Cursor: cursor}
	opener := &MockOpener{Conn: NewMockConn(session)}

	db, err := NewBoltDatabaseFromMap(cfg, WithOpener(opener.Open))
	require.NoError(t, err)
	return db, opener, session
}

func waitClosed(t *testing.T, conn *MockConn) {
	t.Helper()
	select {
	case <-conn.Closed:
	case <-time.After(2 * time.Second):
		t.Fatal("driver was not released")
	}
}

func TestExecute_ReturnOne(t *testing.T) {
	cursor := &MockCursor{
		Columns: []string{"x"},
		Records: []*neo4j.Record{record([]string{"x"}, int64(1))},
	}
	db, opener, session := newMockDatabase(t, map[string]string{
		"host":   "localhost",
		"port":   "7687",
		"secure": "0",
	}, cursor)

	result, err := db.Execute(context.Background(), "RETURN 1 AS x", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, result.Columns())
	assert.Equal(t, []map[string]any{{"x": int64(1)}}, result.Rows())
	assert.GreaterOrEqual(t, result.ExecutionTimeMs(), int64(0))

	require.Len(t, opener.Targets, 1)
	assert.Equal(t, "bolt://localhost:7687", opener.Targets[0].URL)
	assert.False(t, opener.Targets[0].Encrypted)
	assert.Equal(t, AuthNone, opener.Targets[0].Auth)

	assert.Equal(t, "RETURN 1 AS x", session.QueryExecuted)
	assert.NotNil(t, session.QueryParams)
	assert.Empty(t, session.QueryParams)
	assert.True(t, session.Closed)
	waitClosed(t, opener.Conn)
}

func TestExecute_SecureTarget(t *testing.T) {
	db, opener, _ := newMockDatabase(t, map[string]string{
		"host":   "bolt+s://localhost",
		"port":   "7687",
		"secure": "1",
	}, &MockCursor{})

	_, err := db.Execute(context.Background(), "RETURN 1", nil)
	require.NoError(t, err)

	require.Len(t, opener.Targets, 1)
	assert.True(t, opener.Targets[0].Encrypted)
	assert.Equal(t, "bolt+s://localhost:7687", opener.Targets[0].URL)
}

func TestExecute_BasicAuthPassedToOpener(t *testing.T) {
	db, opener, _ := newMockDatabase(t, map[string]string{
		"host":     "localhost",
		"user":     "neo4j",
		"password": "secret",
	}, &MockCursor{})

	_, err := db.Execute(context.Background(), "RETURN 1", nil)
	require.NoError(t, err)

	require.Len(t, opener.Targets, 1)
	assert.Equal(t, AuthBasic, opener.Targets[0].Auth)
	assert.Equal(t, "neo4j", opener.Targets[0].Username)
	assert.Equal(t, "secret", opener.Targets[0].Password)
}

func TestExecute_NewDriverPerCall(t *testing.T) {
	db, opener, _ := newMockDatabase(t, map[string]string{"host": "localhost"}, &MockCursor{})

	_, err := db.Execute(context.Background(), "RETURN 1", nil)
	require.NoError(t, err)
	waitClosed(t, opener.Conn)

	opener.Conn = NewMockConn(&MockSession{Cursor: &MockCursor{}})
	_, err = db.Execute(context.Background(), "RETURN 2", nil)
	require.NoError(t, err)

	assert.Len(t, opener.Targets, 2)
}

func TestExecute_ZeroRows(t *testing.T) {
	cursor := &MockCursor{
		Columns: []string{"n"},
		Summary: query.Summary{Counters: query.Counters{NodesDeleted: 2}},
	}
	db, _, _ := newMockDatabase(t, map[string]string{"host": "localhost"}, cursor)

	result, err := db.Execute(context.Background(), "MATCH (n:Gone) DETACH DELETE n RETURN n", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"n"}, result.Columns())
	assert.Empty(t, result.Rows())
	assert.Equal(t, 2, result.Summary().Counters.NodesDeleted)
}

func TestExecute_ParamsAndRowOrder(t *testing.T) {
	keys := []string{"name", "age"}
	cursor := &MockCursor{
		Columns: keys,
		Records: []*neo4j.Record{
			record(keys, "Alice", int64(30)),
			record(keys, "Bob", int64(25)),
		},
	}
	db, _, session := newMockDatabase(t, map[string]string{"host": "localhost"}, cursor)

	params := map[string]any{"min": int64(18)}
	result, err := db.Execute(context.Background(), "MATCH (p:Person) WHERE p.age > $min RETURN p.name AS name, p.age AS age", params)
	require.NoError(t, err)

	assert.Equal(t, params, session.QueryParams)
	require.Equal(t, 2, result.RowCount())
	assert.Equal(t, "Alice", result.Rows()[0]["name"])
	assert.Equal(t, "Bob", result.Rows()[1]["name"])
}

func TestExecute_UnresolvedAddress(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "graph.invalid", IsNotFound: true}

	t.Run("while opening", func(t *testing.T) {
		opener := &MockOpener{Err: dnsErr}
		db := NewBoltDatabase(BoltConfig{Host: "graph.invalid", Port: 7687}, WithOpener(opener.Open))

		result, err := db.Execute(context.Background(), "RETURN 1", nil)
		require.Error(t, err)
		assert.Nil(t, result)

		var clientErr *ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.Equal(t, dnsErr.Error(), clientErr.Error())
	})

	t.Run("wrapped by the driver while running", func(t *testing.T) {
		session := &MockSession{RunErr: fmt.Errorf("ConnectivityError: %w", &net.OpError{Op: "dial", Net: "tcp", Err: dnsErr})}
		opener := &MockOpener{Conn: NewMockConn(session)}
		db := NewBoltDatabase(BoltConfig{Host: "graph.invalid", Port: 7687}, WithOpener(opener.Open))

		_, err := db.Execute(context.Background(), "RETURN 1", nil)

		var clientErr *ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.Equal(t, "lookup graph.invalid: no such host", clientErr.Message)
		assert.ErrorIs(t, err, dnsErr)
		assert.True(t, session.Closed)
	})
}

func TestExecute_DriverErrorsPropagateUnchanged(t *testing.T) {
	syntaxErr := &neo4j.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError", Msg: "Invalid input"}
	plainErr := errors.New("authentication failure")

	tests := []struct {
		name   string
		cursor *MockCursor
		runErr error
		want   error
	}{
		{"run fails", &MockCursor{}, syntaxErr, syntaxErr},
		{"keys fail", &MockCursor{KeysErr: plainErr}, nil, plainErr},
		{"collect fails", &MockCursor{CollectErr: plainErr}, nil, plainErr},
		{"consume fails", &MockCursor{ConsumeErr: plainErr}, nil, plainErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &MockSession{Cursor: tt.cursor, RunErr: tt.runErr}
			opener := &MockOpener{Conn: NewMockConn(session)}
			db := NewBoltDatabase(BoltConfig{Host: "localhost", Port: 7687}, WithOpener(opener.Open))

			result, err := db.Execute(context.Background(), "RETURN", nil)

			assert.Nil(t, result)
			assert.Same(t, tt.want, err)
			assert.True(t, session.Closed, "session must be closed on error")
			waitClosed(t, opener.Conn)
		})
	}
}

func TestExecute_OpenErrorPropagates(t *testing.T) {
	openErr := errors.New("unsupported scheme")
	opener := &MockOpener{Err: openErr}
	db := NewBoltDatabase(BoltConfig{Host: "localhost", Port: 7687}, WithOpener(opener.Open))

	_, err := db.Execute(context.Background(), "RETURN 1", nil)
	assert.Same(t, openErr, err)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestExecute_TeardownFailureIsLoggedNotReturned(t *testing.T) {
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	conn := NewMockConn(&MockSession{Cursor: &MockCursor{Columns: []string{"x"}}})
	conn.CloseErr = errors.New("socket already closed")
	opener := &MockOpener{Conn: conn}

	db := NewBoltDatabase(BoltConfig{Host: "localhost", Port: 7687}, WithOpener(opener.Open), WithLogger(logger))

	result, err := db.Execute(context.Background(), "RETURN 1 AS x", nil)
	require.NoError(t, err)
	require.NotNil(t, result)

	waitClosed(t, conn)
	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(logs.String()), []byte("failed to close driver"))
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMetadata_NotImplemented(t *testing.T) {
	configs := []map[string]string{
		{"host": "localhost"},
		{"host": "bolt+s://secure", "secure": "1", "user": "neo4j", "password": "pw"},
	}
	for _, cfg := range configs {
		db, err := NewBoltDatabaseFromMap(cfg)
		require.NoError(t, err)

		meta, err := db.Metadata(context.Background())
		assert.Nil(t, meta)
		assert.ErrorIs(t, err, ErrNotImplemented)
	}
}
