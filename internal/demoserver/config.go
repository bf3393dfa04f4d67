package demoserver

// Config holds configuration for the demo backend.
type Config struct {
	// Addr is the listen address, e.g. ":5000".
	Addr string `yaml:"addr"`

	// FixturesPath is a YAML fixture file. Empty uses the built-in set.
	FixturesPath string `yaml:"fixtures"`

	// DisableLatency ignores every fixture's latency. Tests set it.
	DisableLatency bool `yaml:"disable_latency"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr: ":5000",
	}
}
