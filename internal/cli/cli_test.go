package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/phishview/internal/cli"
	"github.com/raysh454/phishview/internal/demoserver"
	"github.com/raysh454/phishview/internal/render"
	"github.com/raysh454/phishview/internal/testutil"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := demoserver.DefaultConfig()
	cfg.DisableLatency = true
	ds, err := demoserver.NewDemoServer(cfg, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("NewDemoServer: %v", err)
	}
	ts := httptest.NewServer(ds.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func run(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestAnalyze_Text(t *testing.T) {
	t.Parallel()
	backend := newBackend(t)

	out, err := run(t, context.Background(), "analyze", "--backend", backend.URL, "http://paypa1-secure-login.example.net/verify")
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	for _, want := range []string{
		render.HeadingPhishing,
		"87.46%",
		"High (high)",
		render.NarrativeHigh,
		"  - SOCIAL_ENGINEERING (ANY_PLATFORM)",
		"Features:",
		"Domain Age (days)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "URL Length") > strings.Index(out, "Domain Age (days)") {
		t.Error("features printed out of order")
	}
}

func TestAnalyze_JSON(t *testing.T) {
	t.Parallel()
	backend := newBackend(t)

	out, err := run(t, context.Background(), "analyze", "--json", "--backend", backend.URL, "https://example.com")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var rep struct {
		Result map[string]any `json:"result"`
		View   render.State   `json:"view"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if rep.Result["risk_level"] != "Low" || rep.View.Heading != render.HeadingSafe {
		t.Errorf("unexpected report %+v", rep)
	}
	if !strings.Contains(out, `"URL Length": 19`) {
		t.Errorf("features should be an ordered object:\n%s", out)
	}
}

func TestAnalyze_Failures(t *testing.T) {
	t.Parallel()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)

	cases := []struct {
		name string
		args []string
	}{
		{"empty url", []string{"analyze", "--backend", down.URL, "  "}},
		{"backend error", []string{"analyze", "--backend", down.URL, "https://example.com"}},
		{"unknown client", []string{"analyze", "--backend", down.URL, "--client", "telnet", "https://example.com"}},
		{"relative backend", []string{"analyze", "--backend", "/nowhere", "https://example.com"}},
		{"missing arg", []string{"analyze"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, context.Background(), tc.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if strings.Contains(out, "Error:") {
				t.Errorf("error should be left to the caller to print, got:\n%s", out)
			}
		})
	}
}

func TestDemoBackend_StopsWithContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := run(t, ctx, "demo-backend", "--addr", "127.0.0.1:0", "--no-latency")
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("demo-backend: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("demo-backend did not stop")
	}
}

func TestWriteView_Hidden(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := cli.WriteView(&buf, *render.NewState()); err != nil {
		t.Fatalf("WriteView: %v", err)
	}
	if buf.String() != "No result.\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWriteView_MeterBar(t *testing.T) {
	t.Parallel()
	st := render.NewState()
	st.Renderer().Render(testutil.LowRiskResult())

	var buf bytes.Buffer
	if err := cli.WriteView(&buf, *st); err != nil {
		t.Fatalf("WriteView: %v", err)
	}
	if !strings.Contains(buf.String(), "[#-------------------] 4.2%") {
		t.Errorf("unexpected meter:\n%s", buf.String())
	}
}
