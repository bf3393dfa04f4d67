package server

import (
	"github.com/raysh454/phishview/internal/logging"
	"github.com/raysh454/phishview/internal/submit"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the frontend.
	ListenAddr string

	// Title is shown in the page heading and <title>.
	Title string

	// Analyzer produces verdicts for every submission surface (form, JSON, ws).
	Analyzer submit.Analyzer

	// AnalyzeEndpoint is the backend URL that POST /analyze is proxied to.
	// Empty disables the proxy route.
	AnalyzeEndpoint string

	// AllowedOrigins is echoed in CORS headers and checked on websocket
	// upgrades. Empty allows any origin.
	AllowedOrigins []string

	Logger logging.Logger
}
