package driver

import (
	"context"
	"net"
	"net/url"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/graphconsole/internal/query"
)

var newDriver = neo4j.NewDriverWithContext

// Neo4jOpener returns an Opener backed by the official Neo4j Go driver.
// The target host is resolved before the driver is created so that an unknown
// host fails fast with a *net.DNSError.
func Neo4jOpener(configurers ...func(*neo4j.Config)) Opener {
	return func(ctx context.Context, target Target) (Conn, error) {
		uri := dialURL(target)
		if err := resolveHost(ctx, net.DefaultResolver, uri); err != nil {
			return nil, err
		}

		drv, err := newDriver(uri, target.authToken(), configurers...)
		if err != nil {
			return nil, err
		}
		return &neo4jConn{driver: drv}, nil
	}
}

// dialURL maps the target URL onto a scheme the v5 driver accepts.
// bolt+routing is the pre-4.0 name of neo4j://, and an encrypted target on a
// plain scheme is dialled on the +s variant.
func dialURL(t Target) string {
	uri := t.URL
	if rest, ok := strings.CutPrefix(uri, "bolt+routing://"); ok {
		uri = "neo4j://" + rest
	}
	if !t.Encrypted {
		return uri
	}
	if rest, ok := strings.CutPrefix(uri, "bolt://"); ok {
		return "bolt+s://" + rest
	}
	if rest, ok := strings.CutPrefix(uri, "neo4j://"); ok {
		return "neo4j+s://" + rest
	}
	return uri
}

type hostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

func resolveHost(ctx context.Context, r hostResolver, uri string) error {
	u, err := url.Parse(uri)
	if err != nil || u.Hostname() == "" {
		// leave malformed URLs to the driver
		return nil
	}
	_, err = r.LookupHost(ctx, u.Hostname())
	return err
}

type neo4jConn struct {
	driver neo4j.DriverWithContext
}

func (c *neo4jConn) NewSession(ctx context.Context) Session {
	return &neo4jSession{session: c.driver.NewSession(ctx, neo4j.SessionConfig{})}
}

func (c *neo4jConn) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

type neo4jSession struct {
	session neo4j.SessionWithContext
}

func (s *neo4jSession) Run(ctx context.Context, cypher string, params map[string]any) (Cursor, error) {
	result, err := s.session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return &neo4jCursor{result: result}, nil
}

func (s *neo4jSession) Close(ctx context.Context) error {
	return s.session.Close(ctx)
}

type neo4jCursor struct {
	result neo4j.ResultWithContext
}

func (c *neo4jCursor) Keys() ([]string, error) {
	return c.result.Keys()
}

func (c *neo4jCursor) Collect(ctx context.Context) ([]*neo4j.Record, error) {
	return c.result.Collect(ctx)
}

func (c *neo4jCursor) Consume(ctx context.Context) (query.Summary, error) {
	summary, err := c.result.Consume(ctx)
	if err != nil {
		return query.Summary{}, err
	}
	return summaryFrom(summary), nil
}

func summaryFrom(s neo4j.ResultSummary) query.Summary {
	if s == nil {
		return query.Summary{}
	}

	out := query.Summary{
		ResultAvailableAfter: s.ResultAvailableAfter(),
		ResultConsumedAfter:  s.ResultConsumedAfter(),
	}

	if c := s.Counters(); c != nil {
		out.Counters = query.Counters{
			NodesCreated:         c.NodesCreated(),
			NodesDeleted:         c.NodesDeleted(),
			RelationshipsCreated: c.RelationshipsCreated(),
			RelationshipsDeleted: c.RelationshipsDeleted(),
			PropertiesSet:        c.PropertiesSet(),
			LabelsAdded:          c.LabelsAdded(),
			LabelsRemoved:        c.LabelsRemoved(),
			IndexesAdded:         c.IndexesAdded(),
			IndexesRemoved:       c.IndexesRemoved(),
			ConstraintsAdded:     c.ConstraintsAdded(),
			ConstraintsRemoved:   c.ConstraintsRemoved(),
			SystemUpdates:        c.SystemUpdates(),
		}
	}

	for _, n := range s.Notifications() {
		note := query.Notification{
			Code:        n.Code(),
			Title:       n.Title(),
			Description: n.Description(),
			Severity:    n.RawSeverityLevel(),
		}
		if pos := n.Position(); pos != nil {
			note.Position = &query.Position{
				Offset: pos.Offset(),
				Line:   pos.Line(),
				Column: pos.Column(),
			}
		}
		out.Notifications = append(out.Notifications, note)
	}

	return out
}
