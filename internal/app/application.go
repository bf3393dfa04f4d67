package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/raysh454/phishview/internal/analysis"
	"github.com/raysh454/phishview/internal/logging"
	"github.com/raysh454/phishview/internal/model"
	"github.com/raysh454/phishview/internal/render"
	"github.com/raysh454/phishview/internal/server"
	"github.com/raysh454/phishview/internal/submit"
	"github.com/raysh454/phishview/internal/webclient"
)

// Application is the global runtime state container. It owns the webclient
// and the analysis client built on it; pass it to commands rather than
// rebuilding either.
type Application struct {
	Config *Config
	Logger logging.Logger

	WebClient webclient.WebClient
	Analysis  *analysis.Client
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg LogConfig, component string) logging.Logger {
	return logging.New(logging.Options{
		Component: component,
		Level:     cfg.Level,
		Output:    os.Stderr,
		Text:      cfg.Format == "text",
	})
}

// NewApplication constructs the webclient backend named in cfg and the
// analysis client on top of it.
func NewApplication(cfg *Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("application config is nil")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	webclient.RegisterDefaultBackends()
	wc, err := webclient.NewWebClient(cfg.WebClient, logger)
	if err != nil {
		return nil, err
	}

	client, err := analysis.NewClient(cfg.Analysis, wc, logger)
	if err != nil {
		_ = wc.Close()
		return nil, err
	}

	return NewApplicationWith(cfg, logger, wc, client), nil
}

// NewApplicationWith assembles an Application from already-constructed parts.
func NewApplicationWith(cfg *Config, logger logging.Logger, wc webclient.WebClient, client *analysis.Client) *Application {
	return &Application{
		Config:    cfg,
		Logger:    logger,
		WebClient: wc,
		Analysis:  client,
	}
}

// NewServer builds the frontend server over the application's analysis client.
func (a *Application) NewServer() (*server.Server, error) {
	return server.NewServer(server.Config{
		ListenAddr:      a.Config.Server.ListenAddr,
		Title:           a.Config.Server.Title,
		Analyzer:        a.Analysis,
		AnalyzeEndpoint: a.Analysis.Endpoint(),
		AllowedOrigins:  a.Config.Server.AllowedOrigins,
		Logger:          a.Logger.With(logging.Field{Key: "component", Value: "server"}),
	})
}

// Report is the outcome of a one-shot analysis.
type Report struct {
	Result *model.Result `json:"result"`
	View   render.State  `json:"view"`
}

// Analyze runs one submission against an in-memory view.
func (a *Application) Analyze(ctx context.Context, rawURL string) (*Report, error) {
	state := render.NewState()
	rec := &submit.Recorder{}

	var result *model.Result
	ctrl, err := submit.NewController(a.Analysis, rec, state.Renderer(), rec,
		submit.WithLogger(a.Logger),
		submit.WithRenderHook(func(_ uint64, res *model.Result) { result = res }),
	)
	if err != nil {
		return nil, err
	}

	if _, err := ctrl.Submit(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("analyzing %q: %w", rawURL, err)
	}
	return &Report{Result: result, View: state.Snapshot()}, nil
}

// Shutdown releases the webclient.
func (a *Application) Shutdown(_ context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application shutdown initiated")
	if a.WebClient != nil {
		if err := a.WebClient.Close(); err != nil {
			a.Logger.Warn("closing webclient", logging.Field{Key: "error", Value: err.Error()})
			return err
		}
	}
	return nil
}
