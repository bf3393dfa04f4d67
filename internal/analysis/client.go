package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/raysh454/phishview/internal/logging"
	"github.com/raysh454/phishview/internal/model"
	"github.com/raysh454/phishview/internal/utils"
	"github.com/raysh454/phishview/internal/webclient"
)

// DefaultAnalyzePath is the backend route that accepts form submissions.
const DefaultAnalyzePath = "/analyze"

// Config locates the analysis backend.
type Config struct {
	// BackendURL is the backend's base URL, e.g. http://localhost:5001.
	BackendURL string `yaml:"backend_url"`

	// AnalyzePath is joined onto BackendURL. Defaults to /analyze.
	AnalyzePath string `yaml:"analyze_path"`
}

// Client submits URLs to the analysis backend and decodes its verdicts.
type Client struct {
	wc       webclient.WebClient
	endpoint string
	logger   logging.Logger
}

// NewClient resolves the analyze endpoint from cfg. The WebClient is borrowed:
// closing the Client does not close it.
func NewClient(cfg Config, wc webclient.WebClient, logger logging.Logger) (*Client, error) {
	if wc == nil {
		return nil, errors.New("analysis client requires a webclient")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	path := cfg.AnalyzePath
	if path == "" {
		path = DefaultAnalyzePath
	}
	endpoint, err := utils.JoinURL(cfg.BackendURL, path)
	if err != nil {
		return nil, fmt.Errorf("resolving analyze endpoint: %w", err)
	}

	return &Client{
		wc:       wc,
		endpoint: endpoint,
		logger:   logger.With(logging.Field{Key: "component", Value: "analysis"}),
	}, nil
}

// Endpoint returns the fully resolved analyze URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Analyze posts target as the single form field "url" and returns the decoded
// verdict. Errors are *TransportError or *SchemaError. There is no retry.
func (c *Client) Analyze(ctx context.Context, target string) (*model.Result, error) {
	requestID := uuid.New().String()
	req := webclient.NewFormRequest(c.endpoint,
		url.Values{"url": {target}},
		http.Header{"X-Request-ID": {requestID}},
	)

	fields := []logging.Field{
		{Key: "request_id", Value: requestID},
		{Key: "host", Value: utils.DisplayHost(target)},
	}
	c.logger.Debug("submitting url for analysis", fields...)

	resp, err := c.wc.Do(ctx, req)
	if err != nil {
		c.logger.Warn("analysis request failed", append(fields, logging.Field{Key: "error", Value: err.Error()})...)
		return nil, &TransportError{Kind: KindNetwork, Err: err}
	}

	if !resp.OK() {
		c.logger.Warn("analysis backend returned error status", append(fields, logging.Field{Key: "status", Value: resp.StatusCode})...)
		return nil, &TransportError{Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	res, err := Decode(resp.Body)
	if err != nil {
		c.logger.Warn("rejecting analysis response", append(fields, logging.Field{Key: "error", Value: err.Error()})...)
		return nil, err
	}

	c.logger.Info("analysis received", append(fields,
		logging.Field{Key: "probability", Value: res.Probability},
		logging.Field{Key: "is_phishing", Value: res.IsPhishing},
		logging.Field{Key: "threats", Value: len(res.SafeBrowsing.Threats)},
		logging.Field{Key: "content_type", Value: resp.ContentType()},
		logging.Field{Key: "elapsed_ms", Value: resp.Elapsed.Milliseconds()},
	)...)
	return res, nil
}
