// Package pinning uploads bytes to a content-addressed store and returns a
// stable public URL. Both user artwork and the metadata JSON document go
// through here.
package pinning

import (
	"context"
	"errors"
)

// ErrMissingCredentials indicates the pinning store is not configured; this
// is an operator problem, not a user one.
var ErrMissingCredentials = errors.New("pinning: credentials are not configured")

// Client pins content and returns a publicly fetchable URL for it.
type Client interface {
	// Pin uploads raw bytes under the given filename and content type.
	Pin(ctx context.Context, data []byte, filename, contentType string) (string, error)
	// PinJSON uploads v serialized as a JSON document under name.
	PinJSON(ctx context.Context, v any, name string) (string, error)
}
