package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrNoEmbeddedState means none of the known embedded JSON formats
	// were found in the page. The page may be geo-blocked, private, or
	// require session cookies.
	ErrNoEmbeddedState = errors.New("no embedded state found in page")

	ErrEmptyResponse = errors.New("empty response body")
	ErrInvalidURL    = errors.New("invalid URL")

	// ErrProfileEmpty means a profile page yielded no video entries.
	ErrProfileEmpty = errors.New("profile has no resolvable videos")

	// ErrNoResults means a discovery query returned nothing usable.
	ErrNoResults = errors.New("no results")
)

// FetchError wraps errors that occur while fetching a page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractError wraps errors that occur while extracting metadata.
type ExtractError struct {
	URL    string
	Format string
	Err    error
}

func (e *ExtractError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("extract error for %s (format=%s): %v", e.URL, e.Format, e.Err)
	}
	return fmt.Sprintf("extract error for %s: %v", e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during result export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
