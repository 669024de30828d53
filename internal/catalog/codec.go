package catalog

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"resinstore/internal/model"

	"github.com/google/uuid"
)

// checkEvery is how many lines are decoded between context checks.
const checkEvery = 1_000

// Decode reads JSON lines from r. Blank lines are skipped, products without an ID get a
// fresh UUID, and later duplicates of an ID are dropped.
func Decode(ctx context.Context, r io.Reader) ([]model.Product, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	seen := make(map[string]struct{})
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		if lineNo%checkEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var p model.Product
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("line %d: invalid product: %w", lineNo, err)
		}
		if err := model.ValidateProduct(&p); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalogue: %w", err)
	}

	return products, nil
}

// DecodeGzip decodes a gzip-compressed catalogue.
func DecodeGzip(ctx context.Context, r io.Reader) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	return Decode(ctx, gzipReader)
}

// Write encodes products as gzip-compressed JSON lines.
func Write(w io.Writer, products []model.Product) error {
	gzipWriter := gzip.NewWriter(w)
	enc := json.NewEncoder(gzipWriter)
	for i := range products {
		if err := enc.Encode(&products[i]); err != nil {
			gzipWriter.Close()
			return fmt.Errorf("failed to encode product %s: %w", products[i].ID, err)
		}
	}
	return gzipWriter.Close()
}
