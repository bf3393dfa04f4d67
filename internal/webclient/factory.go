package webclient

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/raysh454/phishview/internal/logging"
)

// BackendConstructor builds a WebClient from cfg.
type BackendConstructor func(cfg Config, logger logging.Logger) (WebClient, error)

var backends = struct {
	sync.RWMutex
	byName map[string]BackendConstructor
}{byName: map[string]BackendConstructor{}}

func backendName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// RegisterBackend makes ctor available under name (case-insensitive). A later
// registration under the same name wins; empty names and nil ctors are ignored.
func RegisterBackend(name string, ctor BackendConstructor) {
	name = backendName(name)
	if name == "" || ctor == nil {
		return
	}
	backends.Lock()
	backends.byName[name] = ctor
	backends.Unlock()
}

// NewWebClient builds the backend named by cfg.Client, nethttp when empty.
func NewWebClient(cfg Config, logger logging.Logger) (WebClient, error) {
	name := backendName(string(cfg.Client))
	if name == "" {
		name = string(ClientNetHTTP)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	backends.RLock()
	ctor := backends.byName[name]
	backends.RUnlock()
	if ctor == nil {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownBackend, name, strings.Join(ListBackends(), ", "))
	}

	wc, err := ctor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("webclient %s: %w", name, err)
	}
	if wc == nil {
		return nil, fmt.Errorf("webclient %s: constructor returned nil", name)
	}
	return wc, nil
}

// ListBackends returns the registered names in order.
func ListBackends() []string {
	backends.RLock()
	defer backends.RUnlock()
	return slices.Sorted(maps.Keys(backends.byName))
}
