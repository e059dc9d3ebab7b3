package platform

import (
	"fmt"
	"strings"
)

// TransportError covers HTTP-level failures: dial/timeout trouble, non-200
// statuses, and bodies that could not be read. Body carries whatever raw
// response text was available for diagnosis.
type TransportError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a response that arrived but did not carry the expected
// shape: undecodable JSON, a missing field, or a pattern that never matched.
type ParseError struct {
	Op   string
	Body string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: response missing expected data", e.Op)
}

func (e *ParseError) Unwrap() error { return e.Err }

// excerpt trims a response body down to a log-friendly size.
func excerpt(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
