package webclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/raysh454/phishview/internal/logging"
)

// NetHTTPClient sends requests with a plain *http.Client.
type NetHTTPClient struct {
	client  *http.Client
	maxBody int64
	logger  logging.Logger
}

// NewNetHTTPClient wraps httpClient, or a new client bounded by cfg.Timeout
// when httpClient is nil.
func NewNetHTTPClient(cfg Config, logger logging.Logger, httpClient *http.Client) (*NetHTTPClient, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger = logger.With(logging.Field{Key: "backend", Value: string(ClientNetHTTP)})
	logger.Debug("nethttp webclient ready",
		logging.Field{Key: "timeout", Value: httpClient.Timeout.String()},
		logging.Field{Key: "max_body_bytes", Value: cfg.bodyLimit()})

	return &NetHTTPClient{client: httpClient, maxBody: cfg.bodyLimit(), logger: logger}, nil
}

func (nhc *NetHTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	method := req.method()
	log := nhc.logger.With(
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL},
	)

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Headers {
		httpReq.Header[k] = append(httpReq.Header[k], vs...)
	}

	start := time.Now()
	resp, err := nhc.client.Do(httpReq)
	if err != nil {
		log.Warn("request failed", logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("%s %s: %w", method, req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, nhc.maxBody+1))
	if err != nil {
		log.Warn("reading response failed", logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > nhc.maxBody {
		log.Warn("response too large", logging.Field{Key: "limit", Value: nhc.maxBody})
		return nil, fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, nhc.maxBody)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		Elapsed:    time.Since(start),
	}
	log.Debug("response received",
		logging.Field{Key: "status", Value: out.StatusCode},
		logging.Field{Key: "elapsed_ms", Value: out.Elapsed.Milliseconds()})
	return out, nil
}

func (nhc *NetHTTPClient) Close() error {
	nhc.client.CloseIdleConnections()
	return nil
}

// Timeout is the client-side bound on one exchange; zero means none.
func (nhc *NetHTTPClient) Timeout() time.Duration {
	return nhc.client.Timeout
}
