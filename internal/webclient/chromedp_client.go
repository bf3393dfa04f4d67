package webclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/phishview/internal/logging"
)

// ChromedpClient performs requests from inside a headless browser tab. The tab
// is first pointed at the target's origin so the request is a same-origin
// fetch(), carrying whatever cookies and headers the browser would add.
type ChromedpClient struct {
	cfg    Config
	logger logging.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// fetchResult is what the in-page script hands back to Go.
type fetchResult struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// NewChromedpClient starts a browser. It fails when no Chrome binary can be
// launched, so callers can fall back to nethttp.
func NewChromedpClient(cfg Config, logger logging.Logger) (*ChromedpClient, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientChromedp)})

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Running with no actions launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	componentLogger.Debug("created chromedp webclient",
		logging.Field{Key: "headless", Value: cfg.Headless})

	return &ChromedpClient{
		cfg:           cfg,
		logger:        componentLogger,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

func (cdc *ChromedpClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	origin, err := originOf(req.URL)
	if err != nil {
		return nil, err
	}

	method := req.method()
	script, err := fetchScript(method, req)
	if err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(cdc.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if cdc.cfg.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		tabCtx, timeoutCancel = context.WithTimeout(tabCtx, cdc.cfg.Timeout)
		defer timeoutCancel()
	}

	cdc.logger.Debug("sending in-page fetch",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL})

	start := time.Now()
	var out fetchResult
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(origin),
		chromedp.Evaluate(script, &out, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		cdc.logger.Warn("in-page fetch failed",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("chromedp fetch: %w", err)
	}

	if limit := cdc.cfg.bodyLimit(); int64(len(out.Body)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, limit)
	}

	headers := make(http.Header, len(out.Headers))
	for k, v := range out.Headers {
		headers.Set(k, v)
	}

	return &Response{
		StatusCode: out.Status,
		Headers:    headers,
		Body:       []byte(out.Body),
		Elapsed:    time.Since(start),
	}, nil
}

func (cdc *ChromedpClient) Close() error {
	cdc.browserCancel()
	cdc.allocCancel()
	return nil
}

func originOf(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("scheme %q not supported by chromedp backend", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}
	return u.Scheme + "://" + u.Host + "/", nil
}

// fetchScript builds the async expression evaluated in the tab. All request
// data is embedded as JSON literals.
func fetchScript(method string, req *Request) (string, error) {
	headers := make(map[string]string, len(req.Headers))
	for k, vs := range req.Headers {
		headers[k] = strings.Join(vs, ", ")
	}

	var body any
	if len(req.Body) > 0 && method != http.MethodGet && method != http.MethodHead {
		body = string(req.Body)
	}

	args, err := json.Marshal(map[string]any{
		"url":     req.URL,
		"method":  method,
		"headers": headers,
		"body":    body,
	})
	if err != nil {
		return "", fmt.Errorf("encode fetch args: %w", err)
	}

	return fmt.Sprintf(`(async (a) => {
  const resp = await fetch(a.url, {method: a.method, headers: a.headers, body: a.body, credentials: "same-origin"});
  const headers = {};
  resp.headers.forEach((v, k) => { headers[k] = v; });
  return {status: resp.status, headers: headers, body: await resp.text()};
})(%s)`, args), nil
}
