package fetcher

import (
	"context"

	"github.com/tokmeter/tokmeter/internal/types"
)

// Fetcher is the interface for all page fetcher implementations.
type Fetcher interface {
	// Fetch retrieves the content at the given request's URL. A response
	// is returned for any HTTP status; callers check IsSuccess. An error
	// means the request could not be completed at all.
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}
