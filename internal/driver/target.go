package driver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	DefaultHost = "localhost"
	DefaultPort = 7687
)

// Configuration keys understood by ParseBoltConfig.
const (
	KeyHost     = "host"
	KeyPort     = "port"
	KeyUser     = "user"
	KeyPassword = "password"
	KeySecure   = "secure"
)

// Hosts starting with one of these are used as-is.
var schemes = []string{"bolt://", "bolt+s://", "bolt+ssc://", "bolt+routing://"}

type AuthMode string

const (
	AuthBasic AuthMode = "basic"
	AuthNone  AuthMode = "none"
)

type BoltConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Secure   bool
}

// ParseBoltConfig reads a data source configuration mapping. Unknown keys are
// ignored; "secure" is true only when it equals "1".
func ParseBoltConfig(cfg map[string]string) (BoltConfig, error) {
	bc := BoltConfig{
		Host:     strings.TrimSpace(cfg[KeyHost]),
		Port:     DefaultPort,
		User:     cfg[KeyUser],
		Password: cfg[KeyPassword],
		Secure:   strings.TrimSpace(cfg[KeySecure]) == "1",
	}
	if bc.Host == "" {
		bc.Host = DefaultHost
	}

	if raw := strings.TrimSpace(cfg[KeyPort]); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return BoltConfig{}, fmt.Errorf("invalid port %q: %w", raw, err)
		}
		if port <= 0 || port > 65535 {
			return BoltConfig{}, fmt.Errorf("invalid port %d: out of range", port)
		}
		bc.Port = port
	}

	return bc, nil
}

// Target is where and how to connect. It is derived once from a BoltConfig.
type Target struct {
	URL       string
	Auth      AuthMode
	Username  string
	Password  string
	Encrypted bool
}

func NewTarget(cfg BoltConfig) Target {
	t := Target{
		URL:       buildURL(cfg.Host, cfg.Port),
		Auth:      AuthNone,
		Encrypted: cfg.Secure,
	}
	if cfg.User != "" && cfg.Password != "" {
		t.Auth = AuthBasic
		t.Username = cfg.User
		t.Password = cfg.Password
	}
	return t
}

func buildURL(host string, port int) string {
	if hasScheme(host) {
		return fmt.Sprintf("%s:%d", host, port)
	}
	return fmt.Sprintf("bolt://%s:%d", host, port)
}

func hasScheme(host string) bool {
	for _, s := range schemes {
		if strings.HasPrefix(host, s) {
			return true
		}
	}
	return false
}

func (t Target) authToken() neo4j.AuthToken {
	if t.Auth == AuthBasic {
		return neo4j.BasicAuth(t.Username, t.Password, "")
	}
	return neo4j.NoAuth()
}

// String omits credentials.
func (t Target) String() string {
	if t.Auth == AuthBasic {
		return fmt.Sprintf("%s (user %s, encrypted=%t)", t.URL, t.Username, t.Encrypted)
	}
	return fmt.Sprintf("%s (anonymous, encrypted=%t)", t.URL, t.Encrypted)
}
