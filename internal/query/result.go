package query

import "time"

// Result is the outcome of one query execution. It is built once from a
// Buffer and never modified afterwards.
type Result struct {
	executionTime time.Duration
	columns       []string
	rows          []map[string]any
	summary       Summary
}

// NewResult snapshots the buffer. Later writes to the buffer do not show up
// in the returned result.
func NewResult(elapsed time.Duration, buf *Buffer) *Result {
	if elapsed < 0 {
		elapsed = 0
	}

	rows := make([]map[string]any, 0, len(buf.rows))
	for _, row := range buf.rows {
		copied := make(map[string]any, len(row))
		for k, v := range row {
			copied[k] = v
		}
		rows = append(rows, copied)
	}

	summary := buf.summary
	summary.Notifications = append([]Notification(nil), buf.summary.Notifications...)

	return &Result{
		executionTime: elapsed,
		columns:       append([]string{}, buf.columns...),
		rows:          rows,
		summary:       summary,
	}
}

func (r *Result) ExecutionTime() time.Duration {
	return r.executionTime
}

// ExecutionTimeMs returns the elapsed wall-clock time in whole milliseconds.
func (r *Result) ExecutionTimeMs() int64 {
	return r.executionTime.Milliseconds()
}

func (r *Result) Columns() []string {
	return append([]string(nil), r.columns...)
}

func (r *Result) Rows() []map[string]any {
	rows := make([]map[string]any, len(r.rows))
	for i, row := range r.rows {
		copied := make(map[string]any, len(row))
		for k, v := range row {
			copied[k] = v
		}
		rows[i] = copied
	}
	return rows
}

func (r *Result) RowCount() int {
	return len(r.rows)
}

func (r *Result) Summary() Summary {
	return r.summary
}

// View is the serialisable form of a Result.
type View struct {
	ExecutionTimeMs int64            `json:"execution_time_ms"`
	Columns         []string         `json:"columns"`
	Rows            []map[string]any `json:"rows"`
	Summary         Summary          `json:"summary"`
	SummaryText     string           `json:"summary_text"`
}

func (r *Result) View() View {
	return View{
		ExecutionTimeMs: r.ExecutionTimeMs(),
		Columns:         r.Columns(),
		Rows:            r.Rows(),
		Summary:         r.summary,
		SummaryText:     r.summary.String(),
	}
}
