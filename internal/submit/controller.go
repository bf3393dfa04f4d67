// Package submit drives one analysis page: it validates the URL, holds the
// busy indicator while requests are in flight, and renders only the newest
// submission's result.
package submit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/raysh454/phishview/internal/logging"
	"github.com/raysh454/phishview/internal/model"
)

// AlertMessage is shown for every failed analysis.
const AlertMessage = "An error occurred while analyzing the URL. Please try again."

// ErrEmptyURL is returned for a blank submission. No request is sent.
var ErrEmptyURL = errors.New("url is required")

// Analyzer obtains a verdict for a URL.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*model.Result, error)
}

// Controls are the form-side elements the controller toggles.
type Controls interface {
	MarkInvalid()
	ClearInvalid()
	SetBusy(busy bool)
}

// Renderer paints a verdict. *render.Renderer satisfies it.
type Renderer interface {
	Render(res *model.Result)
}

// Alerter tells the user a submission failed.
type Alerter interface {
	Alert(msg string)
}

// Outcome says what became of a submission.
type Outcome int

const (
	OutcomeRejected Outcome = iota
	OutcomeRendered
	OutcomeStale
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeRendered:
		return "rendered"
	case OutcomeStale:
		return "stale"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Submission identifies one call to Submit. Seq is zero for rejected input.
type Submission struct {
	Seq     uint64
	URL     string
	Outcome Outcome
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRenderHook registers fn to run right after a result is rendered, while
// the view is still locked. seq is the rendered submission.
func WithRenderHook(fn func(seq uint64, res *model.Result)) Option {
	return func(c *Controller) { c.onRender = fn }
}

// Controller serialises every view mutation behind one mutex. Requests
// themselves run concurrently.
type Controller struct {
	analyzer Analyzer
	controls Controls
	renderer Renderer
	alerter  Alerter
	logger   logging.Logger
	onRender func(seq uint64, res *model.Result)

	mu       sync.Mutex
	latest   atomic.Uint64 // written under mu
	inflight int
}

// NewController wires the collaborators together. All four are required.
func NewController(analyzer Analyzer, controls Controls, renderer Renderer, alerter Alerter, opts ...Option) (*Controller, error) {
	if analyzer == nil || controls == nil || renderer == nil || alerter == nil {
		return nil, errors.New("submit: analyzer, controls, renderer and alerter are required")
	}
	c := &Controller{
		analyzer: analyzer,
		controls: controls,
		renderer: renderer,
		alerter:  alerter,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit analyses rawURL and renders the verdict unless a newer submission was
// issued meanwhile. A failed request alerts the user and leaves the current
// view untouched. The busy state is held until no request is in flight, even
// if rendering panics.
func (c *Controller) Submit(ctx context.Context, rawURL string) (Submission, error) {
	target := strings.TrimSpace(rawURL)

	c.mu.Lock()
	if target == "" {
		c.controls.MarkInvalid()
		c.mu.Unlock()
		c.logger.Debug("rejected empty submission")
		return Submission{Outcome: OutcomeRejected}, ErrEmptyURL
	}
	c.controls.ClearInvalid()
	seq := c.latest.Add(1)
	c.inflight++
	if c.inflight == 1 {
		c.controls.SetBusy(true)
	}
	c.mu.Unlock()

	defer c.release()

	sub := Submission{Seq: seq, URL: target}
	log := c.logger.With(logging.Field{Key: "seq", Value: seq})
	log.Debug("submitting")

	res, err := c.analyzer.Analyze(ctx, target)

	c.mu.Lock()
	defer c.mu.Unlock()

	if latest := c.latest.Load(); seq != latest {
		log.Debug("discarding stale response", logging.Field{Key: "latest", Value: latest})
		sub.Outcome = OutcomeStale
		return sub, nil
	}

	if err != nil {
		log.Warn("analysis failed", logging.Field{Key: "error", Value: err.Error()})
		c.alerter.Alert(AlertMessage)
		sub.Outcome = OutcomeFailed
		return sub, err
	}

	c.renderer.Render(res)
	if c.onRender != nil {
		c.onRender(seq, res)
	}
	sub.Outcome = OutcomeRendered
	return sub, nil
}

// Latest returns the sequence number of the newest accepted submission. It
// does not take the view lock, so collaborators may call it from inside
// MarkInvalid, SetBusy or Alert.
func (c *Controller) Latest() uint64 {
	return c.latest.Load()
}

// InFlight returns the number of requests not yet completed.
func (c *Controller) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight
}

func (c *Controller) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.inflight == 0 {
		c.controls.SetBusy(false)
	}
}

// Recorder is a Controls and Alerter for views with no form: it only
// remembers what it was told. It is not safe for concurrent use on its own;
// the controller serialises calls to it.
type Recorder struct {
	Invalid bool
	Busy    bool
	Alerts  []string
}

func (r *Recorder) MarkInvalid()      { r.Invalid = true }
func (r *Recorder) ClearInvalid()     { r.Invalid = false }
func (r *Recorder) SetBusy(busy bool) { r.Busy = busy }
func (r *Recorder) Alert(msg string)  { r.Alerts = append(r.Alerts, msg) }
