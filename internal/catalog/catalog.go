// Package catalog loads product catalogues used to seed the store.
//
// A catalogue file is gzip-compressed JSON lines, one product per line, in the same
// shape the API returns. Files can come from the local disk or from S3.
package catalog

import (
	"context"

	"resinstore/internal/model"
)

// Loader defines the interface for loading catalogue files.
type Loader interface {
	// Load reads a catalogue file and returns its products in file order.
	Load(ctx context.Context, path string) ([]model.Product, error)
}
