package query

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Counters holds the update statistics reported by the database after a query.
type Counters struct {
	NodesCreated         int `json:"nodes_created"`
	NodesDeleted         int `json:"nodes_deleted"`
	RelationshipsCreated int `json:"relationships_created"`
	RelationshipsDeleted int `json:"relationships_deleted"`
	PropertiesSet        int `json:"properties_set"`
	LabelsAdded          int `json:"labels_added"`
	LabelsRemoved        int `json:"labels_removed"`
	IndexesAdded         int `json:"indexes_added"`
	IndexesRemoved       int `json:"indexes_removed"`
	ConstraintsAdded     int `json:"constraints_added"`
	ConstraintsRemoved   int `json:"constraints_removed"`
	SystemUpdates        int `json:"system_updates"`
}

type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Notification is a warning or hint the server attached to the query, such as
// a deprecation or a cartesian product in the plan.
type Notification struct {
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Position    *Position `json:"position,omitempty"`
}

type Summary struct {
	Counters             Counters       `json:"counters"`
	Notifications        []Notification `json:"notifications"`
	ResultAvailableAfter time.Duration  `json:"-"`
	ResultConsumedAfter  time.Duration  `json:"-"`
}

// MarshalJSON writes the server timings in milliseconds.
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		ResultAvailableAfterMs int64 `json:"result_available_after_ms"`
		ResultConsumedAfterMs  int64 `json:"result_consumed_after_ms"`
	}{
		plain:                  plain(s),
		ResultAvailableAfterMs: s.ResultAvailableAfter.Milliseconds(),
		ResultConsumedAfterMs:  s.ResultConsumedAfter.Milliseconds(),
	})
}

// String renders the non-zero counters, e.g. "Nodes created: 1, Properties set: 2".
func (s Summary) String() string {
	c := s.Counters
	stats := []struct {
		label string
		value int
	}{
		{"Nodes created", c.NodesCreated},
		{"Nodes deleted", c.NodesDeleted},
		{"Relationships created", c.RelationshipsCreated},
		{"Relationships deleted", c.RelationshipsDeleted},
		{"Properties set", c.PropertiesSet},
		{"Labels added", c.LabelsAdded},
		{"Labels removed", c.LabelsRemoved},
		{"Indexes added", c.IndexesAdded},
		{"Indexes removed", c.IndexesRemoved},
		{"Constraints added", c.ConstraintsAdded},
		{"Constraints removed", c.ConstraintsRemoved},
		{"System updates", c.SystemUpdates},
	}

	var parts []string
	for _, st := range stats {
		if st.value != 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", st.label, st.value))
		}
	}
	if len(parts) == 0 {
		return "No changes"
	}
	return strings.Join(parts, ", ")
}
