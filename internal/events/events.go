// Package events carries query execution and metadata refresh notifications
// from the data source manager to any number of listeners (console log,
// metrics, HTTP handlers).
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/graphconsole/internal/query"
)

// Payload identifies one query execution.
type Payload struct {
	ID         string
	DataSource string
	Query      string
	Params     map[string]any
	StartedAt  time.Time
}

func NewPayload(dataSource, cypher string, params map[string]any) Payload {
	return Payload{
		ID:         uuid.New().String(),
		DataSource: dataSource,
		Query:      cypher,
		Params:     params,
		StartedAt:  time.Now().UTC(),
	}
}

// QueryListener observes query executions. For every execution a listener sees
// ExecutionStarted, then exactly one of ResultReceived or HandleError, then
// ExecutionCompleted.
type QueryListener interface {
	ExecutionStarted(p Payload)
	ResultReceived(p Payload, result *query.Result)
	HandleError(p Payload, err error)
	ExecutionCompleted(p Payload)
}

type MetadataListener interface {
	MetadataRefreshStarted(dataSource string)
	MetadataRefreshSucceeded(dataSource string)
	MetadataRefreshFailed(dataSource string, err error)
}
