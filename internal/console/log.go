// Package console renders query executions as a human readable log, the way
// an editor's query console shows them.
package console

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/agenthands/graphconsole/internal/events"
	"github.com/agenthands/graphconsole/internal/query"
)

// Log writes execution and metadata events to w. It implements both
// events.QueryListener and events.MetadataListener.
type Log struct {
	mu sync.Mutex
	w  io.Writer

	input lipgloss.Style
	info  lipgloss.Style
	err   lipgloss.Style
}

// NewLog styles its output for w; on anything that is not a colour terminal
// the output is plain text.
func NewLog(w io.Writer) *Log {
	r := lipgloss.NewRenderer(w)
	return &Log{
		w:     w,
		input: r.NewStyle().Bold(true),
		info:  r.NewStyle(),
		err:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (l *Log) ExecutionStarted(p events.Payload) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.print(l.info, "Executing query: ")
	l.print(l.input, p.Query)
	l.newLine()
}

func (l *Log) ResultReceived(p events.Payload, result *query.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.print(l.info, fmt.Sprintf("Query executed in %dms. %s", result.ExecutionTimeMs(), result.Summary()))
	l.newLine()
}

func (l *Log) HandleError(p events.Payload, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.print(l.err, "Error occurred: ")
	l.printError(err)
}

func (l *Log) ExecutionCompleted(p events.Payload) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.newLine()
}

func (l *Log) MetadataRefreshStarted(dataSource string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.print(l.info, fmt.Sprintf("DataSource[%s] - refreshing metadata...", dataSource))
	l.newLine()
}

func (l *Log) MetadataRefreshSucceeded(dataSource string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.print(l.info, fmt.Sprintf("DataSource[%s] - metadata refreshed successfully!", dataSource))
	l.newLine()
	l.newLine()
}

func (l *Log) MetadataRefreshFailed(dataSource string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.print(l.err, fmt.Sprintf("DataSource[%s] - metadata refresh failed. Reason: ", dataSource))
	l.printError(err)
	l.newLine()
}

// printError prints the error and then every wrapped cause whose message adds
// something, one per line.
func (l *Log) printError(err error) {
	last := ""
	for cause := err; cause != nil; cause = errors.Unwrap(cause) {
		msg := cause.Error()
		if msg == last {
			continue
		}
		l.print(l.err, msg)
		l.newLine()
		last = msg
	}
}

func (l *Log) print(style lipgloss.Style, s string) {
	fmt.Fprint(l.w, style.Render(s))
}

func (l *Log) newLine() {
	fmt.Fprintln(l.w)
}
