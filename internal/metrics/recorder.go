package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agenthands/graphconsole/internal/events"
	"github.com/agenthands/graphconsole/internal/query"
)

const (
	namespace = "graphconsole"
	subsystem = "query"
)

// Recorder is an events.QueryListener that keeps Prometheus metrics about
// query executions per data source.
type Recorder struct {
	executions *prometheus.CounterVec   // completed executions by outcome
	duration   *prometheus.HistogramVec // execution time reported by the result
	rows       *prometheus.CounterVec   // rows returned
	inFlight   *prometheus.GaugeVec     // executions started but not completed
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "executions_total",
			Help:      "Total number of query executions by outcome",
		}, []string{"datasource", "status"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Time spent running queries and buffering their results",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"datasource"}),

		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rows_total",
			Help:      "Total number of rows returned",
		}, []string{"datasource"}),

		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "in_flight",
			Help:      "Number of queries currently executing",
		}, []string{"datasource"}),
	}

	for _, c := range []prometheus.Collector{r.executions, r.duration, r.rows, r.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ExecutionStarted(p events.Payload) {
	r.inFlight.WithLabelValues(p.DataSource).Inc()
}

func (r *Recorder) ResultReceived(p events.Payload, result *query.Result) {
	r.executions.WithLabelValues(p.DataSource, "ok").Inc()
	r.duration.WithLabelValues(p.DataSource).Observe(result.ExecutionTime().Seconds())
	r.rows.WithLabelValues(p.DataSource).Add(float64(result.RowCount()))
}

func (r *Recorder) HandleError(p events.Payload, err error) {
	r.executions.WithLabelValues(p.DataSource, "error").Inc()
}

func (r *Recorder) ExecutionCompleted(p events.Payload) {
	r.inFlight.WithLabelValues(p.DataSource).Dec()
}
