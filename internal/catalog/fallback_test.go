package catalog

import (
	"context"
	"errors"
	"testing"

	"resinstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, path string) ([]model.Product, error)
}

func (m *mockLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, path)
	}
	return nil, errors.New("not implemented")
}

func productsNamed(names ...string) []model.Product {
	products := make([]model.Product, len(names))
	for i, name := range names {
		products[i] = model.Product{ID: name, Name: name, Category: "test"}
	}
	return products
}

func TestFallbackLoader(t *testing.T) {
	tests := []struct {
		name      string
		s3Enabled bool
		s3Err     error
		nilS3     bool
		expectS3  bool
		expected  string
	}{
		{name: "S3 succeeds", s3Enabled: true, expectS3: true, expected: "from-s3"},
		{name: "S3 fails, falls back to local", s3Enabled: true, s3Err: errors.New("S3 connection failed"), expectS3: true, expected: "from-disk"},
		{name: "S3 disabled", s3Enabled: false, expected: "from-disk"},
		{name: "S3 loader nil", s3Enabled: true, nilS3: true, expected: "from-disk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s3Called := false
			var s3 Loader = &mockLoader{
				loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
					s3Called = true
					assert.Equal(t, "catalog/spring.jsonl.gz", path, "S3 key should have prefix")
					if tt.s3Err != nil {
						return nil, tt.s3Err
					}
					return productsNamed("from-s3"), nil
				},
			}
			if tt.nilS3 {
				s3 = nil
			}
			local := &mockLoader{
				loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
					assert.Equal(t, "spring.jsonl.gz", path, "local path should not have prefix")
					return productsNamed("from-disk"), nil
				},
			}

			loader := NewFallbackLoader(s3, local, "catalog/", tt.s3Enabled, zerolog.Nop())
			products, err := loader.Load(context.Background(), "spring.jsonl.gz")

			require.NoError(t, err)
			require.Len(t, products, 1)
			assert.Equal(t, tt.expected, products[0].Name)
			assert.Equal(t, tt.expectS3, s3Called)
		})
	}
}

func TestLoadAll(t *testing.T) {
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			switch path {
			case "a":
				return productsNamed("A1", "SHARED"), nil
			case "b":
				return productsNamed("SHARED", "B1"), nil
			default:
				return nil, errors.New("missing")
			}
		},
	}

	products, err := LoadAll(context.Background(), loader, []string{"a", "b"}, zerolog.Nop())
	require.NoError(t, err)

	var ids []string
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"A1", "SHARED", "B1"}, ids)

	_, err = LoadAll(context.Background(), loader, []string{"a", "c"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalogue c")
}
