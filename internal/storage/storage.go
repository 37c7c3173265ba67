// Package storage keeps list view instances between requests so a view can
// be re-rendered, or mutated locally, without fetching from the API again.
package storage

import (
	"context"
	"errors"
)

// ErrGone reports a view instance that was disposed or has expired.
var ErrGone = errors.New("view instance gone")

// Mutator receives a decoder for the stored instance and returns the value
// to write back. An error aborts the update and leaves the instance as is.
// It may run more than once, so it must build its result from decode alone.
type Mutator func(decode func(dst any) error) (any, error)

// Storage persists JSON-encodable view state under an instance id.
// Implementations expire entries after their TTL.
type Storage interface {
	Create(ctx context.Context, id string, v any) error
	// Load decodes the instance into dst or returns ErrGone.
	Load(ctx context.Context, id string, dst any) error
	// Update runs a read-modify-write of a live instance that no other
	// Update or Dispose of the same id can interleave with. A disposed or
	// expired instance yields ErrGone and stays gone.
	Update(ctx context.Context, id string, fn Mutator) error
	Dispose(ctx context.Context, id string) error
}
