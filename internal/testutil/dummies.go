// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/raysh454/phishview/internal/logging"
	"github.com/raysh454/phishview/internal/model"
	"github.com/raysh454/phishview/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// WarnCount returns the number of recorded warnings.
func (l *DummyLogger) WarnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Warns)
}

// ─── Analyzer ──────────────────────────────────────────────────────────

// Reply is a scripted answer for DummyAnalyzer.
type Reply struct {
	Result *model.Result
	Err    error
	// Gate, when set, blocks the reply until it is closed or ctx ends.
	Gate chan struct{}
}

// DummyAnalyzer implements submit.Analyzer. Replies are looked up by URL;
// unknown URLs get a low-risk result.
type DummyAnalyzer struct {
	mu      sync.Mutex
	Replies map[string]Reply
	Calls   []string
	// Started receives each URL as its call begins, if non-nil.
	Started chan string
}

func (d *DummyAnalyzer) Analyze(ctx context.Context, url string) (*model.Result, error) {
	d.mu.Lock()
	d.Calls = append(d.Calls, url)
	reply, ok := d.Replies[url]
	d.mu.Unlock()

	if d.Started != nil {
		d.Started <- url
	}

	if reply.Gate != nil {
		select {
		case <-reply.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return LowRiskResult(), nil
	}
	return reply.Result, reply.Err
}

// CallCount returns how many times Analyze was invoked.
func (d *DummyAnalyzer) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Calls)
}

// HighRiskResult is the canonical phishing verdict used across tests.
func HighRiskResult() *model.Result {
	return &model.Result{
		Probability: 75.3,
		RiskLevel:   "High",
		IsPhishing:  true,
		SafeBrowsing: model.SafeBrowsing{
			IsSafe:  false,
			Threats: []model.Threat{{ThreatType: "MALWARE", PlatformType: "WINDOWS"}},
		},
		Features: model.Features{{Name: "https", Value: 1.0}},
	}
}

// LowRiskResult is a clean verdict.
func LowRiskResult() *model.Result {
	return &model.Result{
		Probability:  4.2,
		RiskLevel:    "Low",
		SafeBrowsing: model.SafeBrowsing{IsSafe: true, Threats: []model.Threat{}},
		Features:     model.Features{{Name: "Has HTTPS", Value: 1.0}, {Name: "URL Length", Value: 19.0}},
	}
}

// ─── Controls / Alerter ────────────────────────────────────────────────

// RecordingControls implements submit.Controls and records every call.
type RecordingControls struct {
	mu      sync.Mutex
	Invalid bool
	Busy    bool
	Events  []string
}

func (r *RecordingControls) MarkInvalid() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Invalid = true
	r.Events = append(r.Events, "invalid")
}

func (r *RecordingControls) ClearInvalid() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Invalid = false
	r.Events = append(r.Events, "valid")
}

func (r *RecordingControls) SetBusy(busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Busy = busy
	r.Events = append(r.Events, fmt.Sprintf("busy=%v", busy))
}

// State returns the current invalid and busy flags.
func (r *RecordingControls) State() (invalid, busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Invalid, r.Busy
}

// RecordingAlerter implements submit.Alerter.
type RecordingAlerter struct {
	mu     sync.Mutex
	Alerts []string
}

func (r *RecordingAlerter) Alert(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Alerts = append(r.Alerts, msg)
}

// Count returns the number of alerts raised.
func (r *RecordingAlerter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Alerts)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements webclient.WebClient with a fixed response.
type DummyWebClient struct {
	mu         sync.Mutex
	StatusCode int
	Body       []byte
	Err        error
	Requests   []*webclient.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.Err != nil {
		return nil, d.Err
	}
	status := d.StatusCode
	if status == 0 {
		status = 200
	}
	return &webclient.Response{StatusCode: status, Body: d.Body}, nil
}

func (d *DummyWebClient) Close() error { return nil }
