package client

import "context"

// Repository persists the whole client collection at once. The storage
// format is opaque to the domain.
type Repository interface {
	// Load returns the stored collection, or an empty one if nothing was saved yet.
	Load(ctx context.Context) ([]*Client, error)
	// Save overwrites the stored collection.
	Save(ctx context.Context, clients []*Client) error
}
