package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agenthands/graphconsole/internal/query"
)

// WriteTable prints the columns and rows of result as an aligned table,
// followed by a row count.
func WriteTable(w io.Writer, result *query.Result) error {
	columns := result.Columns()
	if len(columns) == 0 {
		return nil
	}

	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).PaddingRight(2)
	cell := r.NewStyle().PaddingRight(2)

	rows := make([][]string, 0, result.RowCount())
	for _, row := range result.Rows() {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = formatValue(row[c])
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	_, err := fmt.Fprintf(w, "%s\n(%s)\n", t.Render(), rowCount(result.RowCount()))
	return err
}

func rowCount(n int) string {
	if n == 1 {
		return "1 row"
	}
	return fmt.Sprintf("%d rows", n)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return strings.Join(strings.Fields(fmt.Sprintf("%v", val)), " ")
	}
}
