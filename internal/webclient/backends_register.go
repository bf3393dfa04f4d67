package webclient

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/raysh454/phishview/internal/logging"
)

var registerOnce sync.Once

// RegisterDefaultBackends registers the nethttp and chromedp backends. It is
// safe to call more than once.
func RegisterDefaultBackends() {
	registerOnce.Do(func() {
		RegisterBackend(string(ClientNetHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
			return NewNetHTTPClient(cfg, logger, &http.Client{Timeout: cfg.Timeout})
		})

		RegisterBackend(string(ClientChromedp), func(cfg Config, logger logging.Logger) (WebClient, error) {
			client, err := NewChromedpClient(cfg, logger)
			if err != nil {
				return nil, fmt.Errorf("create chromedp client: %w", err)
			}
			return client, nil
		})
	})
}
