package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/raysh454/phishview/internal/dom"
	"github.com/raysh454/phishview/internal/logging"
	"github.com/raysh454/phishview/internal/render"
	_ "github.com/raysh454/phishview/internal/server/docs"
	"github.com/raysh454/phishview/internal/submit"
)

// maxBodyBytes bounds every POST body, proxied ones included.
const maxBodyBytes = 1 << 20

// Server is the HTTP + WebSocket frontend for phishview.
type Server struct {
	cfg      Config
	page     dom.PageData
	router   chi.Router
	upgrader websocket.Upgrader
	proxy    *httputil.ReverseProxy
	logger   logging.Logger
}

// NewServer validates cfg and mounts every route.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Analyzer == nil {
		return nil, errors.New("server requires an analyzer")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	page := dom.DefaultPageData()
	if cfg.Title != "" {
		page.Title = cfg.Title
	}

	s := &Server{
		cfg:    cfg,
		page:   page,
		router: chi.NewRouter(),
		logger: logger,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.originAllowed}

	if cfg.AnalyzeEndpoint != "" {
		target, err := url.Parse(cfg.AnalyzeEndpoint)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("invalid analyze endpoint %q", cfg.AnalyzeEndpoint)
		}
		s.proxy = s.newProxy(target)
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	r.Options("/*", s.optionsHandler("GET, POST"))

	r.Get("/", s.handleIndex)
	r.Group(func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/", s.handleSubmitForm)
		r.Post("/analyze", s.handleProxyAnalyze)
		r.Post("/api/render", s.handleRender)
	})
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealth)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) originAllowed(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(s.cfg.AllowedOrigins, origin)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.cfg.AllowedOrigins) == 0 {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin := r.Header.Get("Origin"); slices.Contains(s.cfg.AllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

// limitBody answers 413 for bodies over maxBodyBytes. A declared length is
// rejected up front; chunked bodies fail on the read that crosses the limit.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxBodyBytes {
			s.writeTooLarge(w, r.ContentLength)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeTooLarge(w http.ResponseWriter, size int64) {
	s.logger.Warn("request body too large",
		logging.Field{Key: "content_length", Value: size},
		logging.Field{Key: "limit", Value: maxBodyBytes})
	writeError(w, http.StatusRequestEntityTooLarge, "request body too large", "")
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.ContentLength > 0 {
		fields = append(fields, logging.Field{Key: "content_length", Value: r.ContentLength})
	}

	start := time.Now()
	s.router.ServeHTTP(w, r)
	fields = append(fields, logging.Field{Key: "elapsed_ms", Value: time.Since(start).Milliseconds()})
	s.logger.Info("http_request", fields...)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket sessions and slow backends
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Detail: detail})
}

// --- HTTP handlers ---

// handleIndex serves the analysis page.
//
//	@Summary	Analysis page
//	@Produce	html
//	@Success	200	{string}	string	"HTML page"
//	@Router		/ [get]
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	body, err := dom.RenderIndex(s.page)
	if err != nil {
		s.logger.Error("rendering index", logging.Field{Key: "error", Value: err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

// handleSubmitForm runs a submission server side and answers with the page
// as it looks afterwards.
//
//	@Summary	Submit a URL from the page form
//	@Accept		x-www-form-urlencoded
//	@Produce	html
//	@Param		url	formData	string	true	"URL to analyze"
//	@Success	200	{string}	string	"Page with the verdict rendered"
//	@Failure	400	{string}	string	"Page with the URL field marked invalid"
//	@Failure	413	{object}	ErrorResponse
//	@Failure	502	{string}	string	"Page with the error banner shown"
//	@Router		/ [post]
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		if isTooLarge(err) {
			s.writeTooLarge(w, r.ContentLength)
			return
		}
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	raw := r.PostFormValue("url")

	page, err := dom.NewPage(s.page)
	if err != nil {
		s.logger.Error("building page", logging.Field{Key: "error", Value: err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	renderer, err := page.Renderer()
	if err != nil {
		s.logger.Error("binding renderer", logging.Field{Key: "error", Value: err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	page.SetInputValue(raw)

	ctrl, err := submit.NewController(s.cfg.Analyzer, page, renderer, page, submit.WithLogger(s.logger))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if _, err := ctrl.Submit(r.Context(), raw); err != nil {
		status = http.StatusBadGateway
		if errors.Is(err, submit.ErrEmptyURL) {
			status = http.StatusBadRequest
		}
	}

	out, err := page.HTML()
	if err != nil {
		s.logger.Error("serialising page", logging.Field{Key: "error", Value: err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, out)
}

// handleRender runs a submission against an in-memory view and returns it.
//
//	@Summary	Analyze a URL and return the rendered view
//	@Accept		json
//	@Produce	json
//	@Param		body	body		RenderRequest	true	"URL to analyze"
//	@Success	200		{object}	render.State
//	@Failure	400		{object}	ErrorResponse
//	@Failure	413		{object}	ErrorResponse
//	@Failure	502		{object}	ErrorResponse
//	@Router		/api/render [post]
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var body RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if isTooLarge(err) {
			s.writeTooLarge(w, r.ContentLength)
			return
		}
		s.logger.Warn("decoding render body", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "invalid JSON", "")
		return
	}

	state := render.NewState()
	rec := &submit.Recorder{}
	ctrl, err := submit.NewController(s.cfg.Analyzer, rec, state.Renderer(), rec, submit.WithLogger(s.logger))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	if _, err := ctrl.Submit(r.Context(), body.URL); err != nil {
		if errors.Is(err, submit.ErrEmptyURL) {
			writeError(w, http.StatusBadRequest, "URL is required", "")
			return
		}
		writeError(w, http.StatusBadGateway, submit.AlertMessage, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state.Snapshot())
}

// handleProxyAnalyze forwards same-origin browser clients to the analysis backend.
//
//	@Summary	Proxy to the analysis backend
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Param		url	formData	string	true	"URL to analyze"
//	@Success	200	{object}	model.Result
//	@Failure	413	{object}	ErrorResponse
//	@Failure	502	{object}	ErrorResponse
//	@Router		/analyze [post]
func (s *Server) handleProxyAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.proxy == nil {
		writeError(w, http.StatusNotFound, "no analysis backend configured", "")
		return
	}
	s.proxy.ServeHTTP(w, r)
}

// handleHealth reports liveness.
//
//	@Summary	Liveness probe
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) newProxy(target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			out := *target
			out.RawQuery = pr.In.URL.RawQuery
			pr.Out.URL = &out
			pr.Out.Host = target.Host
			pr.SetXForwarded()
			if id := middleware.GetReqID(pr.In.Context()); id != "" {
				pr.Out.Header.Set("X-Request-ID", id)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if isTooLarge(err) {
				s.writeTooLarge(w, r.ContentLength)
				return
			}
			s.logger.Warn("proxying to analysis backend", logging.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusBadGateway, submit.AlertMessage, err.Error())
		},
	}
}
