package submit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/raysh454/phishview/internal/analysis"
	"github.com/raysh454/phishview/internal/model"
	"github.com/raysh454/phishview/internal/submit"
	"github.com/raysh454/phishview/internal/testutil"
)

type recordingRenderer struct {
	mu       sync.Mutex
	rendered []*model.Result
	panicOn  *model.Result
}

func (r *recordingRenderer) Render(res *model.Result) {
	if r.panicOn != nil && res == r.panicOn {
		panic("render failed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered = append(r.rendered, res)
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rendered)
}

type fixture struct {
	analyzer *testutil.DummyAnalyzer
	controls *testutil.RecordingControls
	renderer *recordingRenderer
	alerter  *testutil.RecordingAlerter
	ctrl     *submit.Controller
}

func newFixture(t *testing.T, replies map[string]testutil.Reply, opts ...submit.Option) *fixture {
	t.Helper()
	f := &fixture{
		analyzer: &testutil.DummyAnalyzer{Replies: replies, Started: make(chan string, 8)},
		controls: &testutil.RecordingControls{},
		renderer: &recordingRenderer{},
		alerter:  &testutil.RecordingAlerter{},
	}
	opts = append(opts, submit.WithLogger(&testutil.DummyLogger{}))
	ctrl, err := submit.NewController(f.analyzer, f.controls, f.renderer, f.alerter, opts...)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	f.ctrl = ctrl
	return f
}

func waitStarted(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("expected %q to start, got %q", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q to start", want)
	}
}

func TestNewController_RequiresCollaborators(t *testing.T) {
	t.Parallel()
	if _, err := submit.NewController(nil, &testutil.RecordingControls{}, &recordingRenderer{}, &testutil.RecordingAlerter{}); err == nil {
		t.Fatal("expected error for nil analyzer")
	}
}

func TestSubmit_EmptyInputRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	for _, in := range []string{"", "   ", "\t\n"} {
		sub, err := f.ctrl.Submit(context.Background(), in)
		if !errors.Is(err, submit.ErrEmptyURL) {
			t.Fatalf("%q: expected ErrEmptyURL, got %v", in, err)
		}
		if sub.Outcome != submit.OutcomeRejected || sub.Seq != 0 {
			t.Errorf("%q: unexpected submission %+v", in, sub)
		}
	}

	if f.analyzer.CallCount() != 0 {
		t.Errorf("no request should be sent, got %d", f.analyzer.CallCount())
	}
	invalid, busy := f.controls.State()
	if !invalid || busy {
		t.Errorf("expected invalid and idle, got invalid=%v busy=%v", invalid, busy)
	}
	if f.renderer.count() != 0 || f.alerter.Count() != 0 {
		t.Error("rejected input must not render or alert")
	}
}

func TestSubmit_RendersAndClearsInvalid(t *testing.T) {
	t.Parallel()
	res := testutil.HighRiskResult()
	f := newFixture(t, map[string]testutil.Reply{"https://bad.example": {Result: res}})

	_, _ = f.ctrl.Submit(context.Background(), "")
	sub, err := f.ctrl.Submit(context.Background(), "  https://bad.example ")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Outcome != submit.OutcomeRendered || sub.Seq != 1 || sub.URL != "https://bad.example" {
		t.Errorf("unexpected submission %+v", sub)
	}
	if f.renderer.count() != 1 || f.renderer.rendered[0] != res {
		t.Error("expected the result to be rendered once")
	}

	want := []string{"invalid", "valid", "busy=true", "busy=false"}
	if len(f.controls.Events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, f.controls.Events)
	}
	for i := range want {
		if f.controls.Events[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], f.controls.Events[i])
		}
	}
}

func TestSubmit_FailureAlertsAndKeepsView(t *testing.T) {
	t.Parallel()
	f := newFixture(t, map[string]testutil.Reply{
		"https://down.example":   {Err: &analysis.TransportError{Kind: analysis.KindStatus, StatusCode: 500}},
		"https://broken.example": {Err: &analysis.SchemaError{Field: "probability", Reason: "missing"}},
	})

	for _, u := range []string{"https://down.example", "https://broken.example"} {
		sub, err := f.ctrl.Submit(context.Background(), u)
		if err == nil {
			t.Fatalf("%s: expected error", u)
		}
		if sub.Outcome != submit.OutcomeFailed {
			t.Errorf("%s: expected failed outcome, got %s", u, sub.Outcome)
		}
	}

	if f.alerter.Count() != 2 {
		t.Fatalf("expected 2 alerts, got %d", f.alerter.Count())
	}
	if f.alerter.Alerts[0] != submit.AlertMessage {
		t.Errorf("unexpected alert %q", f.alerter.Alerts[0])
	}
	if f.renderer.count() != 0 {
		t.Error("failed submissions must not render")
	}
	if _, busy := f.controls.State(); busy {
		t.Error("expected busy released after failure")
	}
}

func TestSubmit_StaleResponseDiscarded(t *testing.T) {
	t.Parallel()
	gate := make(chan struct{})
	first, second := testutil.HighRiskResult(), testutil.LowRiskResult()
	f := newFixture(t, map[string]testutil.Reply{
		"https://first.example":  {Result: first, Gate: gate},
		"https://second.example": {Result: second},
	})

	done := make(chan submit.Submission, 1)
	go func() {
		sub, _ := f.ctrl.Submit(context.Background(), "https://first.example")
		done <- sub
	}()
	waitStarted(t, f.analyzer.Started, "https://first.example")

	sub, err := f.ctrl.Submit(context.Background(), "https://second.example")
	if err != nil || sub.Outcome != submit.OutcomeRendered {
		t.Fatalf("second submission: %+v %v", sub, err)
	}
	waitStarted(t, f.analyzer.Started, "https://second.example")

	if _, busy := f.controls.State(); !busy {
		t.Error("expected busy while the first request is in flight")
	}

	close(gate)
	stale := <-done
	if stale.Outcome != submit.OutcomeStale || stale.Seq != 1 {
		t.Errorf("expected stale first submission, got %+v", stale)
	}

	if f.renderer.count() != 1 || f.renderer.rendered[0] != second {
		t.Error("only the newest result should be rendered")
	}
	if _, busy := f.controls.State(); busy {
		t.Error("expected idle once every request completed")
	}
	if f.ctrl.InFlight() != 0 || f.ctrl.Latest() != 2 {
		t.Errorf("unexpected counters inflight=%d latest=%d", f.ctrl.InFlight(), f.ctrl.Latest())
	}
}

func TestSubmit_StaleFailureDoesNotAlert(t *testing.T) {
	t.Parallel()
	gate := make(chan struct{})
	f := newFixture(t, map[string]testutil.Reply{
		"https://slow.example": {Err: errors.New("boom"), Gate: gate},
	})

	done := make(chan error, 1)
	go func() {
		_, err := f.ctrl.Submit(context.Background(), "https://slow.example")
		done <- err
	}()
	waitStarted(t, f.analyzer.Started, "https://slow.example")

	if _, err := f.ctrl.Submit(context.Background(), "https://fast.example"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitStarted(t, f.analyzer.Started, "https://fast.example")
	close(gate)

	if err := <-done; err != nil {
		t.Errorf("stale failure should be swallowed, got %v", err)
	}
	if f.alerter.Count() != 0 {
		t.Errorf("stale failure must not alert, got %v", f.alerter.Alerts)
	}
}

func TestSubmit_RenderHookSeesSeq(t *testing.T) {
	t.Parallel()
	var gotSeq uint64
	var gotRes *model.Result
	f := newFixture(t, nil, submit.WithRenderHook(func(seq uint64, res *model.Result) {
		gotSeq, gotRes = seq, res
	}))

	sub, err := f.ctrl.Submit(context.Background(), "https://ok.example")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gotSeq != sub.Seq || gotRes == nil {
		t.Errorf("hook saw seq=%d res=%v, want seq=%d", gotSeq, gotRes, sub.Seq)
	}
}

func TestSubmit_BusyReleasedWhenRenderPanics(t *testing.T) {
	t.Parallel()
	res := testutil.HighRiskResult()
	f := newFixture(t, map[string]testutil.Reply{"https://panic.example": {Result: res}})
	f.renderer.panicOn = res

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected render panic to propagate")
			}
		}()
		_, _ = f.ctrl.Submit(context.Background(), "https://panic.example")
	}()

	if _, busy := f.controls.State(); busy {
		t.Error("busy must be released after a panic")
	}
	if f.ctrl.InFlight() != 0 {
		t.Errorf("expected no requests in flight, got %d", f.ctrl.InFlight())
	}

	// The controller stays usable.
	if _, err := f.ctrl.Submit(context.Background(), "https://next.example"); err != nil {
		t.Fatalf("Submit after panic: %v", err)
	}
}

func TestSubmit_ContextCancelled(t *testing.T) {
	t.Parallel()
	gate := make(chan struct{})
	defer close(gate)
	f := newFixture(t, map[string]testutil.Reply{"https://hang.example": {Gate: gate}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.ctrl.Submit(ctx, "https://hang.example")
		done <- err
	}()
	waitStarted(t, f.analyzer.Started, "https://hang.example")
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if f.alerter.Count() != 1 {
		t.Errorf("expected one alert, got %d", f.alerter.Count())
	}
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()
	cases := map[submit.Outcome]string{
		submit.OutcomeRejected: "rejected",
		submit.OutcomeRendered: "rendered",
		submit.OutcomeStale:    "stale",
		submit.OutcomeFailed:   "failed",
		submit.Outcome(42):     "unknown",
	}
	for o, want := range cases {
		if o.String() != want {
			t.Errorf("%d: expected %q, got %q", int(o), want, o.String())
		}
	}
}

func TestRecorder_WithStateRenderer(t *testing.T) {
	t.Parallel()
	rec := &submit.Recorder{}
	r := &recordingRenderer{}
	ctrl, err := submit.NewController(&testutil.DummyAnalyzer{}, rec, r, rec)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	if _, err := ctrl.Submit(context.Background(), ""); !errors.Is(err, submit.ErrEmptyURL) || !rec.Invalid {
		t.Fatalf("expected rejection recorded, got err=%v invalid=%v", err, rec.Invalid)
	}
	if _, err := ctrl.Submit(context.Background(), "https://ok.example"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rec.Invalid || rec.Busy || len(rec.Alerts) != 0 {
		t.Errorf("unexpected recorder state %+v", rec)
	}
}
