package storage

import (
	"context"
	"io"
)

// Storage keeps uploaded files. A reference is a slash separated relative
// path that URL turns into something a client can fetch.
type Storage interface {
	Store(ctx context.Context, r io.Reader, dir, suggestedName string) (string, error)
	URL(ref string) string
	Delete(ctx context.Context, ref string) error
}

var _ Storage = (*Local)(nil)
