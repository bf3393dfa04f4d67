package analysis

import "fmt"

// Kind classifies a TransportError.
type Kind string

const (
	KindNetwork   Kind = "network"
	KindStatus    Kind = "status"
	KindMalformed Kind = "malformed"
)

// TransportError covers every way the exchange with the backend can fail
// before a JSON document is in hand: network errors, non-2xx statuses and
// bodies that are not JSON.
type TransportError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("analysis backend returned status %d", e.StatusCode)
	case KindMalformed:
		if e.Err != nil {
			return "analysis backend returned malformed JSON: " + e.Err.Error()
		}
		return "analysis backend returned malformed JSON"
	default:
		if e.Err != nil {
			return "analysis request failed: " + e.Err.Error()
		}
		return "analysis request failed"
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// SchemaError reports a well-formed JSON document that does not have the
// Analysis Result shape. Field is a dotted path such as
// "safe_browsing.threats.0.platform_type".
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid analysis result: %s: %s", e.Field, e.Reason)
}
