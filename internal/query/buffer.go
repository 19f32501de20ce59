package query

// Buffer accumulates a tabular result while the driver streams it.
// It is not safe for concurrent use; one buffer belongs to one execution.
type Buffer struct {
	columns    []string
	hasColumns bool
	rows       []map[string]any
	summary    Summary
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// AddColumns records the column names in driver order. Only the first call
// has an effect.
func (b *Buffer) AddColumns(columns []string) {
	if b.hasColumns {
		return
	}
	b.columns = append([]string(nil), columns...)
	b.hasColumns = true
}

func (b *Buffer) AddRow(row map[string]any) {
	b.rows = append(b.rows, row)
}

func (b *Buffer) AddResultSummary(summary Summary) {
	b.summary = summary
}

func (b *Buffer) Columns() []string {
	return b.columns
}

func (b *Buffer) Rows() []map[string]any {
	return b.rows
}

func (b *Buffer) Summary() Summary {
	return b.summary
}
