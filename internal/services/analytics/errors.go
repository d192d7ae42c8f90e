package analytics

import "fmt"

// FetchError marks a failed fetch from one analytics source: transport
// failure, non-2xx status, or a body that does not decode. It is scoped to a
// single source so the caller can degrade that panel alone.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("analytics: fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
