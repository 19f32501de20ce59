package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/graphconsole/internal/events"
	"github.com/agenthands/graphconsole/internal/query"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	bus := events.NewBus()
	bus.SubscribeQuery(rec)

	buf := query.NewBuffer()
	buf.AddColumns([]string{"x"})
	buf.AddRow(map[string]any{"x": int64(1)})
	buf.AddRow(map[string]any{"x": int64(2)})
	result := query.NewResult(5*time.Millisecond, buf)

	ok := events.NewPayload("local", "UNWIND [1,2] AS x RETURN x", nil)
	bus.ExecutionStarted(ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.inFlight.WithLabelValues("local")))
	bus.ResultReceived(ok, result)
	bus.ExecutionCompleted(ok)

	failed := events.NewPayload("local", "RETURN", nil)
	bus.ExecutionStarted(failed)
	bus.HandleError(failed, errors.New("syntax error"))
	bus.ExecutionCompleted(failed)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.executions.WithLabelValues("local", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.executions.WithLabelValues("local", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.rows.WithLabelValues("local")))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.inFlight.WithLabelValues("local")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.duration))
}

func TestNewRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}
