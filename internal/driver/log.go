package driver

import (
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neo4jlog "github.com/neo4j/neo4j-go-driver/v5/neo4j/log"
)

// DriverLogging routes the Neo4j driver's internal log through logger.
// Driver info and debug output is emitted at debug level.
func DriverLogging(logger *slog.Logger) func(*neo4j.Config) {
	return func(c *neo4j.Config) {
		c.Log = &driverLog{logger: logger}
	}
}

type driverLog struct {
	logger *slog.Logger
}

var _ neo4jlog.Logger = (*driverLog)(nil)

func (l *driverLog) Error(name, id string, err error) {
	l.logger.Error("neo4j driver error", "component", name, "id", id, "error", err)
}

func (l *driverLog) Warnf(name, id, msg string, args ...any) {
	l.logger.Warn(fmt.Sprintf(msg, args...), "component", name, "id", id)
}

func (l *driverLog) Infof(name, id, msg string, args ...any) {
	l.logger.Debug(fmt.Sprintf(msg, args...), "component", name, "id", id)
}

func (l *driverLog) Debugf(name, id, msg string, args ...any) {
	l.logger.Debug(fmt.Sprintf(msg, args...), "component", name, "id", id)
}
