package remote

import "fmt"

// FetchError reports a failed read from the remote service. Callers degrade
// to cached or empty data; the error never propagates as a crash.
type FetchError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError reports a failed write to the remote service. The local cache
// has already been committed by the time this surfaces; it is logged and
// reported through the mutation's remote status, never rolled back.
type WriteError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *WriteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("write %s: unexpected status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("write %s: %v", e.Endpoint, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
