package types

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Request represents a single HTTP request to be fetched.
type Request struct {
	// URL is the target URL to fetch.
	URL *url.URL

	// Method is the HTTP method. Defaults to GET.
	Method string

	// Headers are custom HTTP headers to send with the request.
	Headers http.Header

	// Timeout overrides the global request timeout for this request.
	Timeout time.Duration

	// CreatedAt is when this request was created.
	CreatedAt time.Time
}

// NewRequest creates a GET Request for the given URL.
func NewRequest(rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	return &Request{
		URL:       u,
		Method:    http.MethodGet,
		Headers:   make(http.Header),
		CreatedAt: time.Now(),
	}, nil
}

// URLString returns the string representation of the request URL.
func (r *Request) URLString() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}

// Domain returns the hostname of the request URL.
func (r *Request) Domain() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Hostname()
}
