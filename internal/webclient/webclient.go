package webclient

import (
	"context"
	"errors"
)

var (
	// ErrNilRequest is returned when Do is called without a request.
	ErrNilRequest = errors.New("webclient: nil request")
	// ErrBodyTooLarge is returned when a response body exceeds Config.MaxBodyBytes.
	ErrBodyTooLarge = errors.New("webclient: response body too large")
	// ErrUnknownBackend is returned by NewWebClient for unregistered names.
	ErrUnknownBackend = errors.New("webclient: unknown backend")
)

// WebClient executes a single HTTP exchange. Implementations must honour ctx
// cancellation and be safe for concurrent use.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	Close() error
}
