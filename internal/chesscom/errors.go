package chesscom

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for a 404 from the provider. It is never retried.
	ErrNotFound = errors.New("chesscom: resource not found")
	// ErrPlayerNotFound is returned by ListArchives when the player does not exist.
	ErrPlayerNotFound = errors.New("chesscom: player not found")
)

// FetchError is returned once a request has failed on every allowed attempt.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("chesscom: fetch %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("unexpected status %d", e.code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}
