package api

import "fmt"

// FetchError wraps a failure on one of the read endpoints. The engine
// recovers by skipping the tick and keeping prior state.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError wraps a failure on one of the write endpoints. The engine
// recovers by proceeding with the local optimistic update.
type MutationError struct {
	Endpoint string
	Err      error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("mutation %s: %v", e.Endpoint, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }
