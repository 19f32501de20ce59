package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTarget_URL(t *testing.T) {
	tests := []struct {
		name string
		host string
		port int
		want string
	}{
		{"plain host", "localhost", 7687, "bolt://localhost:7687"},
		{"ip address", "10.0.0.5", 7000, "bolt://10.0.0.5:7000"},
		{"bolt scheme", "bolt://db.example.com", 7687, "bolt://db.example.com:7687"},
		{"secure scheme", "bolt+s://localhost", 7687, "bolt+s://localhost:7687"},
		{"self-signed scheme", "bolt+ssc://db", 7688, "bolt+ssc://db:7688"},
		{"routing scheme", "bolt+routing://cluster", 7687, "bolt+routing://cluster:7687"},
		{"unrecognized scheme", "neo4j://cluster", 7687, "bolt://neo4j://cluster:7687"},
		{"scheme not at start", "my-bolt://host", 7687, "bolt://my-bolt://host:7687"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewTarget(BoltConfig{Host: tt.host, Port: tt.port})
			assert.Equal(t, tt.want, target.URL)
		})
	}
}

func TestNewTarget_Auth(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		want     AuthMode
	}{
		{"both set", "neo4j", "secret", AuthBasic},
		{"no credentials", "", "", AuthNone},
		{"user only", "neo4j", "", AuthNone},
		{"password only", "", "secret", AuthNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewTarget(BoltConfig{Host: "localhost", Port: 7687, User: tt.user, Password: tt.password})
			assert.Equal(t, tt.want, target.Auth)
			if tt.want == AuthNone {
				assert.Empty(t, target.Username)
				assert.Empty(t, target.Password)
			}
		})
	}
}

func TestParseBoltConfig(t *testing.T) {
	t.Run("full mapping", func(t *testing.T) {
		cfg, err := ParseBoltConfig(map[string]string{
			"host":     "bolt+s://localhost",
			"port":     "7687",
			"user":     "neo4j",
			"password": "secret",
			"secure":   "1",
		})
		require.NoError(t, err)
		assert.Equal(t, BoltConfig{
			Host:     "bolt+s://localhost",
			Port:     7687,
			User:     "neo4j",
			Password: "secret",
			Secure:   true,
		}, cfg)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := ParseBoltConfig(map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, DefaultHost, cfg.Host)
		assert.Equal(t, DefaultPort, cfg.Port)
		assert.False(t, cfg.Secure)
	})

	t.Run("secure only when 1", func(t *testing.T) {
		for _, v := range []string{"0", "true", "yes", ""} {
			cfg, err := ParseBoltConfig(map[string]string{"secure": v})
			require.NoError(t, err)
			assert.False(t, cfg.Secure, "secure=%q", v)
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		_, err := ParseBoltConfig(map[string]string{"port": "seven"})
		assert.Error(t, err)

		_, err = ParseBoltConfig(map[string]string{"port": "70000"})
		assert.Error(t, err)
	})
}

func TestTarget_StringHidesPassword(t *testing.T) {
	target := NewTarget(BoltConfig{Host: "localhost", Port: 7687, User: "neo4j", Password: "hunter2"})
	assert.NotContains(t, target.String(), "hunter2")
	assert.Contains(t, target.String(), "bolt://localhost:7687")
}
