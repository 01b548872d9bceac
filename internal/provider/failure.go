package provider

import "fmt"

// Failure reasons reported by the market API client.
const (
	ReasonUpstream  = "upstream_error"
	ReasonTransport = "transport_error"
)

// Failure is returned for every request the upstream API did not answer with
// a 2xx. Status and Body are set for upstream errors, Detail for transport
// errors.
type Failure struct {
	Reason string
	Path   string
	Status int
	Body   string
	Detail string
}

func (f *Failure) Error() string {
	if f.Reason == ReasonUpstream {
		return fmt.Sprintf("vestige %s: %s %d: %s", f.Path, f.Reason, f.Status, f.Body)
	}
	return fmt.Sprintf("vestige %s: %s: %s", f.Path, f.Reason, f.Detail)
}

// Retryable reports whether repeating the request could succeed.
func (f *Failure) Retryable() bool {
	if f.Reason == ReasonTransport {
		return true
	}
	return f.Status == 429 || f.Status >= 500
}

// DecodeError is returned when a 2xx body does not match the expected schema.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("vestige %s: decode response: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
