package quotes

import (
	"context"

	"github.com/me/spq/pkg/model"
)

// FetchFunc supplies the full quote list from the external source.
// Stores call it at most once, when seeding an empty dataset.
type FetchFunc func(ctx context.Context) ([]model.Quote, error)

// Store is the persistence contract for the quotes dataset.
//
// Two backings implement it: a sqlite database and a plain JSON file.
// Both preserve insertion order on read and never delete records.
type Store interface {
	// EnsureSeeded populates an empty dataset from fetch and is a no-op
	// otherwise, so it is safe to call on every page load. A concurrent
	// first seed may fetch twice; writes are idempotent by id, so the race
	// costs redundant work, not corruption.
	EnsureSeeded(ctx context.Context, fetch FetchFunc) error

	// ReadAll returns every record in stable insertion order.
	ReadAll(ctx context.Context) ([]model.Quote, error)

	// Update overwrites the two mutable fields of the record with the
	// given id and returns the result. It is a strict update: when the id
	// is absent it fails with model.ErrNotFound and writes nothing.
	Update(ctx context.Context, id, quote, character string) (*model.Quote, error)

	Close() error
}
