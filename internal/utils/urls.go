package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmptyURL    = errors.New("empty url")
	ErrMissingHost = errors.New("missing host")
)

// JoinURL resolves ref against base and returns an absolute URL. base must be
// absolute (scheme and host); ref is normally a path such as "/analyze".
//
// Examples:
//
//	JoinURL("http://localhost:5001", "/analyze")      → "http://localhost:5001/analyze"
//	JoinURL("http://localhost:5001/api/", "analyze")  → "http://localhost:5001/api/analyze"
//	JoinURL("http://localhost:5001/api", "/analyze")  → "http://localhost:5001/analyze"
func JoinURL(base, ref string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", ErrEmptyURL
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("couldn't parse url %s: %w", base, err)
	}
	if b.Scheme == "" || b.Host == "" {
		return "", fmt.Errorf("%s: %w", base, ErrMissingHost)
	}

	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("couldn't parse url %s: %w", ref, err)
	}

	return b.ResolveReference(r).String(), nil
}

// DisplayHost returns the host part of raw in Unicode form for logs and
// terminal output. Schemeless input is treated as a bare host. Anything that
// does not parse yields "".
func DisplayHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	if uni, err := idna.Display.ToUnicode(host); err == nil {
		return uni
	}
	return host
}
