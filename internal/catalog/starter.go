package catalog

import (
	"bytes"
	"context"
	_ "embed"

	"resinstore/internal/model"
)

//go:embed starter.jsonl
var starterCatalogue []byte

// starterLoader serves the built-in catalogue of twelve resin-art products.
type starterLoader struct{}

// NewStarterLoader returns a Loader for the built-in catalogue. The path is ignored.
func NewStarterLoader() Loader {
	return starterLoader{}
}

func (starterLoader) Load(ctx context.Context, _ string) ([]model.Product, error) {
	return Decode(ctx, bytes.NewReader(starterCatalogue))
}
