package webclient_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/phishview/internal/logging"
	"github.com/raysh454/phishview/internal/webclient"
)

func init() {
	webclient.RegisterDefaultBackends()
}

// TestNewWebClient_DefaultBackend verifies that empty backend defaults to nethttp
func TestNewWebClient_DefaultBackend(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{}, logging.Nop())
	if err != nil {
		t.Fatalf("Failed to create default client: %v", err)
	}
	defer client.Close()

	if _, ok := client.(*webclient.NetHTTPClient); !ok {
		t.Fatalf("expected *NetHTTPClient, got %T", client)
	}
}

func TestNewWebClient_TimeoutPassedToHTTPClient(t *testing.T) {
	t.Parallel()
	cfg := webclient.Config{Client: webclient.ClientNetHTTP, Timeout: 7 * time.Second}
	client, err := webclient.NewWebClient(cfg, logging.Nop())
	if err != nil {
		t.Fatalf("NewWebClient: %v", err)
	}
	nh := client.(*webclient.NetHTTPClient)
	if nh.Timeout() != cfg.Timeout {
		t.Errorf("expected timeout %v, got %v", cfg.Timeout, nh.Timeout())
	}
}

// Chromedp may fail to initialize in headless CI environments.
func TestNewWebClient_ChromeDP(t *testing.T) {
	t.Parallel()
	cfg := webclient.Config{Client: webclient.ClientChromedp, Headless: true}

	client, err := webclient.NewWebClient(cfg, logging.Nop())
	if err != nil {
		t.Skipf("Skipping chromedp test: %v", err)
	}
	defer client.Close()
}

func TestNewWebClient_UnknownBackend(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{Client: "carrier-pigeon"}, logging.Nop())
	if err == nil {
		t.Fatal("Expected error for unknown backend, got nil")
	}
	if client != nil {
		t.Fatal("Expected nil client for unknown backend")
	}
	if !errors.Is(err, webclient.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
	if !strings.Contains(err.Error(), "nethttp") {
		t.Errorf("expected available backends in error, got %v", err)
	}
}

type stubClient struct{}

func (stubClient) Do(context.Context, *webclient.Request) (*webclient.Response, error) {
	return &webclient.Response{StatusCode: 204}, nil
}
func (stubClient) Close() error { return nil }

func TestRegisterBackend_CaseInsensitive(t *testing.T) {
	t.Parallel()
	webclient.RegisterBackend("StubBackend", func(webclient.Config, logging.Logger) (webclient.WebClient, error) {
		return stubClient{}, nil
	})

	client, err := webclient.NewWebClient(webclient.Config{Client: "STUBBACKEND"}, nil)
	if err != nil {
		t.Fatalf("NewWebClient: %v", err)
	}
	if _, ok := client.(stubClient); !ok {
		t.Fatalf("expected stubClient, got %T", client)
	}

	found := false
	for _, name := range webclient.ListBackends() {
		if name == "stubbackend" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected stubbackend in %v", webclient.ListBackends())
	}
}

func TestRegisterBackend_IgnoresEmpty(t *testing.T) {
	t.Parallel()
	webclient.RegisterBackend("", func(webclient.Config, logging.Logger) (webclient.WebClient, error) { return stubClient{}, nil })
	webclient.RegisterBackend("nilctor", nil)
	for _, name := range webclient.ListBackends() {
		if name == "" || name == "nilctor" {
			t.Fatalf("unexpected registration %q", name)
		}
	}
}
