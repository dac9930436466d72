package session

import (
	"errors"
	"fmt"

	"burrow/gopher"
)

var (
	// ErrInvalidSelection is returned for an ordinal outside the item list.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrNoData is returned by S when there is no reply payload to save.
	ErrNoData = errors.New("no data to save")
	// ErrBusy is returned for commands issued while a fetch is outstanding.
	ErrBusy = errors.New("a request is already in progress")
	// ErrQuit is returned when the user asked to leave.
	ErrQuit = errors.New("quit")
)

// FetchError reports a failed fetch of Resource.
type FetchError struct {
	Resource *gopher.Resource
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Resource.ShortURI(), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SaveError reports a reply payload that could not be written to Path.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("saving to %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
