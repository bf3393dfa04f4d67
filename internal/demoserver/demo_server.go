// Package demoserver is a stand-in analysis backend that answers from canned
// fixtures. It speaks the same wire format as the real backend, so the
// frontend can be exercised without a model.
package demoserver

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/phishview/internal/logging"
)

const maxBodyBytes = 64 << 10

// DemoServer serves fixture verdicts.
type DemoServer struct {
	cfg    Config
	logger logging.Logger
	loaded *FixtureSet

	mu       sync.RWMutex
	fixtures map[string]Fixture // url -> fixture
	fallback Fixture
}

// NewDemoServer loads the configured fixtures.
func NewDemoServer(cfg Config, logger logging.Logger) (*DemoServer, error) {
	if logger == nil {
		logger = logging.NewStdoutLogger("DemoServer")
	}
	set, err := LoadFixtures(cfg.FixturesPath)
	if err != nil {
		return nil, err
	}

	s := &DemoServer{cfg: cfg, logger: logger, loaded: set}
	s.reset()
	return s, nil
}

func (s *DemoServer) reset() { s.install(s.loaded) }

// install makes set the active fixtures.
func (s *DemoServer) install(set *FixtureSet) {
	fixtures := make(map[string]Fixture, len(set.Fixtures))
	for _, f := range set.Fixtures {
		fixtures[f.URL] = f
	}
	s.mu.Lock()
	s.fixtures = fixtures
	s.fallback = set.Default
	s.mu.Unlock()
}

// Active returns the fixtures currently served, sorted by URL.
func (s *DemoServer) Active() FixtureSet {
	s.mu.RLock()
	set := FixtureSet{Default: s.fallback, Fixtures: make([]Fixture, 0, len(s.fixtures))}
	for _, f := range s.fixtures {
		set.Fixtures = append(set.Fixtures, f)
	}
	s.mu.RUnlock()

	sort.Slice(set.Fixtures, func(i, j int) bool { return set.Fixtures[i].URL < set.Fixtures[j].URL })
	return set
}

// Handler returns the backend's routes.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze", s.analyzeFormHandler)
	mux.HandleFunc("POST /api/analyze", s.analyzeJSONHandler)

	// Control endpoints for swapping verdicts on the fly
	mux.HandleFunc("GET /demo/fixtures", s.listFixturesHandler)
	mux.HandleFunc("POST /demo/fixtures", s.upsertFixtureHandler)
	mux.HandleFunc("PUT /demo/fixtures", s.replaceFixturesHandler)
	mux.HandleFunc("POST /demo/reset", s.resetHandler)

	return mux
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *DemoServer) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Start blocks serving on the configured address.
func (s *DemoServer) Start() error {
	s.logger.Info("demo backend starting",
		logging.Field{Key: "addr", Value: s.cfg.Addr},
		logging.Field{Key: "fixtures", Value: len(s.loaded.Fixtures)},
	)
	return s.HTTPServer().ListenAndServe()
}

// Lookup returns the fixture for url, or the default one.
func (s *DemoServer) Lookup(url string) (Fixture, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fixtures[url]
	if !ok {
		return s.fallback, false
	}
	return f, true
}

func (s *DemoServer) analyzeFormHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	s.respond(w, r, r.PostFormValue("url"))
}

func (s *DemoServer) analyzeJSONHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	s.respond(w, r, body.URL)
}

func (s *DemoServer) respond(w http.ResponseWriter, r *http.Request, raw string) {
	url := strings.TrimSpace(raw)
	if url == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	f, known := s.Lookup(url)
	if f.Latency > 0 && !s.cfg.DisableLatency {
		select {
		case <-time.After(time.Duration(f.Latency)):
		case <-r.Context().Done():
			return
		}
	}

	res := f.Result(url)
	s.logger.Info("served verdict",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "known", Value: known},
		logging.Field{Key: "probability", Value: res.Probability},
	)
	writeJSON(w, http.StatusOK, res)
}

func (s *DemoServer) listFixturesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Active())
}

// replaceFixturesHandler swaps in a whole fixture set, in the same YAML or
// JSON shape the list endpoint returns.
func (s *DemoServer) replaceFixturesHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body")
		return
	}
	set, err := ParseFixtures(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.install(set)
	s.logger.Info("fixtures replaced", logging.Field{Key: "fixtures", Value: len(set.Fixtures)})
	writeJSON(w, http.StatusOK, s.Active())
}

// upsertFixtureHandler adds or replaces one fixture. The body is YAML, which
// also accepts JSON.
func (s *DemoServer) upsertFixtureHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body")
		return
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid fixture")
		return
	}
	f.URL = strings.TrimSpace(f.URL)
	if f.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if err := f.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	s.fixtures[f.URL] = f
	s.mu.Unlock()

	s.logger.Info("fixture updated", logging.Field{Key: "url", Value: f.URL})
	writeJSON(w, http.StatusOK, f)
}

func (s *DemoServer) resetHandler(w http.ResponseWriter, r *http.Request) {
	s.reset()
	s.logger.Info("fixtures reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
