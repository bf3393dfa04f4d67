package webclient

import (
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Request is one exchange with the analysis backend. Headers are sent as
// given; Body is sent verbatim.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// NewFormRequest builds a urlencoded POST of form to endpoint. Extra headers
// are copied over the defaults.
func NewFormRequest(endpoint string, form url.Values, extra http.Header) *Request {
	h := http.Header{}
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	h.Set("Accept", "application/json")
	for k, vs := range extra {
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	return &Request{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: h,
		Body:    []byte(form.Encode()),
	}
}

func (r *Request) method() string {
	if m := strings.ToUpper(strings.TrimSpace(r.Method)); m != "" {
		return m
	}
	return http.MethodGet
}

type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Elapsed    time.Duration
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ContentType returns the lower-cased media type without parameters, or ""
// when the header is absent or unparsable.
func (r *Response) ContentType() string {
	mt, _, err := mime.ParseMediaType(r.Headers.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}
