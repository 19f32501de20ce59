package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/graphconsole/internal/datasource"
)

// DefaultDataSource is the data source defined by the NEO4J_* environment variables.
const DefaultDataSource = "default"

type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

type AssistConfig struct {
	Provider string `toml:"provider" yaml:"provider"`
	Model    string `toml:"model" yaml:"model"`
	APIKey   string `toml:"api_key" yaml:"api_key"`
	BaseURL  string `toml:"base_url" yaml:"base_url"`
	Prompt   string `toml:"prompt" yaml:"prompt"`
}

// Enabled reports whether an assistant provider has been configured.
func (a AssistConfig) Enabled() bool {
	return a.Provider != ""
}

// DataSourceConfig is one [datasources.<name>] table. Type defaults to
// neo4j-bolt; every other key is passed to the driver as a string.
type DataSourceConfig map[string]any

type Config struct {
	Server      ServerConfig                `toml:"server" yaml:"server"`
	Log         LogConfig                   `toml:"log" yaml:"log"`
	DataSources map[string]DataSourceConfig `toml:"datasources" yaml:"datasources"`
	Assist      AssistConfig                `toml:"assist" yaml:"assist"`
}

func Default() *Config {
	return &Config{
		Server:      ServerConfig{Addr: ":8080"},
		Log:         LogConfig{Level: "info", Format: "text"},
		DataSources: map[string]DataSourceConfig{},
	}
}

// Load reads a TOML or YAML file (by extension) on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}
	if cfg.DataSources == nil {
		cfg.DataSources = map[string]DataSourceConfig{}
	}

	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// ApplyEnv overrides file settings with environment variables.
func (c *Config) ApplyEnv() {
	c.ApplyEnvFunc(os.Getenv)
}

func (c *Config) ApplyEnvFunc(getenv func(string) string) {
	if v := getenv("GRAPHCONSOLE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	if v := getenv("LLM_PROVIDER"); v != "" {
		c.Assist.Provider = v
	}
	if v := getenv("LLM_MODEL"); v != "" {
		c.Assist.Model = v
	}
	if v := getenv("LLM_API_KEY"); v != "" {
		c.Assist.APIKey = v
	}
	if v := getenv("LLM_BASE_URL"); v != "" {
		c.Assist.BaseURL = v
	}

	keys := map[string]string{
		"NEO4J_HOST":     "host",
		"NEO4J_PORT":     "port",
		"NEO4J_USER":     "user",
		"NEO4J_PASSWORD": "password",
		"NEO4J_SECURE":   "secure",
	}
	for env, key := range keys {
		v := getenv(env)
		if v == "" {
			continue
		}
		if c.DataSources == nil {
			c.DataSources = map[string]DataSourceConfig{}
		}
		ds := c.DataSources[DefaultDataSource]
		if ds == nil {
			ds = DataSourceConfig{}
			c.DataSources[DefaultDataSource] = ds
		}
		ds[key] = v
	}
}

// DataSourceSpecs converts the configured data sources into manager specs,
// sorted by name.
func (c *Config) DataSourceSpecs() []datasource.Spec {
	names := make([]string, 0, len(c.DataSources))
	for name := range c.DataSources {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]datasource.Spec, 0, len(names))
	for _, name := range names {
		spec := datasource.Spec{Name: name, Configuration: map[string]string{}}
		for k, v := range c.DataSources[name] {
			if k == "type" {
				spec.Type = fmt.Sprint(v)
				continue
			}
			spec.Configuration[k] = stringify(v)
		}
		specs = append(specs, spec)
	}
	return specs
}

// stringify renders scalar config values the way a user typed them, so that
// port = 7687 and port = "7687" mean the same thing.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return "0"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprint(val)
	default:
		return fmt.Sprint(val)
	}
}
