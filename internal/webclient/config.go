package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

// DefaultMaxBodyBytes caps a verdict body. Real verdicts are a few KB.
const DefaultMaxBodyBytes int64 = 1 << 20

// Config selects and tunes a WebClient backend.
type Config struct {
	Client Client `yaml:"client"`

	// Timeout bounds a whole exchange. Zero means no client-side timeout.
	Timeout time.Duration `yaml:"timeout"`

	// MaxBodyBytes caps the response body; zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// Headless is only read by the chromedp backend.
	Headless bool `yaml:"headless"`
}

// DefaultConfig returns the nethttp backend with no timeout.
func DefaultConfig() Config {
	return Config{
		Client:       ClientNetHTTP,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Headless:     true,
	}
}

func (c Config) bodyLimit() int64 {
	if c.MaxBodyBytes > 0 {
		return c.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}
