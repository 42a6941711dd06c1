package teams

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed marks any failure to load the team list.
	ErrFetchFailed = errors.New("team list fetch failed")
	// ErrNoRootTeam is returned by Build when no team lacks a parent.
	ErrNoRootTeam = errors.New("team list has no root team")
)

// FetchError wraps the underlying transport, HTTP or decode error.
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch teams from %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrFetchFailed) match any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
