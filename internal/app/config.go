package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/raysh454/phishview/internal/analysis"
	"github.com/raysh454/phishview/internal/demoserver"
	"github.com/raysh454/phishview/internal/webclient"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PHISHVIEW_"

// ServerConfig configures the frontend.
type ServerConfig struct {
	ListenAddr     string   `yaml:"listen_addr"`
	Title          string   `yaml:"title"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "json" or "text".
	Format string `yaml:"format"`
}

// Config is the whole runtime configuration. Precedence, lowest first:
// DefaultConfig, the YAML file, PHISHVIEW_* environment (a .env file in the
// working directory is read first), then command line flags.
type Config struct {
	Server    ServerConfig      `yaml:"server"`
	Analysis  analysis.Config   `yaml:"analysis"`
	WebClient webclient.Config  `yaml:"webclient"`
	Demo      demoserver.Config `yaml:"demo"`
	Log       LogConfig         `yaml:"log"`
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Analysis: analysis.Config{
			BackendURL:  "http://localhost:5000",
			AnalyzePath: analysis.DefaultAnalyzePath,
		},
		WebClient: webclient.DefaultConfig(),
		Demo:      demoserver.DefaultConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig builds a Config from defaults, the optional YAML file at path,
// .env and the process environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays PHISHVIEW_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("LISTEN_ADDR"); ok {
		c.Server.ListenAddr = v
	}
	if v, ok := get("TITLE"); ok {
		c.Server.Title = v
	}
	if v, ok := get("ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := get("BACKEND_URL"); ok {
		c.Analysis.BackendURL = v
	}
	if v, ok := get("ANALYZE_PATH"); ok {
		c.Analysis.AnalyzePath = v
	}
	if v, ok := get("WEBCLIENT"); ok {
		c.WebClient.Client = webclient.Client(strings.ToLower(v))
	}
	if v, ok := get("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		c.WebClient.Timeout = d
	}
	if v, ok := get("HEADLESS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sHEADLESS: %w", EnvPrefix, err)
		}
		c.WebClient.Headless = b
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := get("DEMO_ADDR"); ok {
		c.Demo.Addr = v
	}
	if v, ok := get("DEMO_FIXTURES"); ok {
		c.Demo.FixturesPath = v
	}
	return nil
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Analysis.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("analysis.backend_url must be an absolute URL, got %q", c.Analysis.BackendURL)
	}
	if c.WebClient.Timeout < 0 {
		return fmt.Errorf("webclient.timeout must not be negative")
	}
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
