//go:build ignore

// Generates gzip catalogue seed files under data/catalog for CATALOG_SEED_FILES.
//
//	go run scripts/generate_catalog.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"resinstore/internal/catalog"
	"resinstore/internal/model"

	"github.com/shopspring/decimal"
)

type family struct {
	file      string
	category  string
	prefix    string
	names     []string
	basePrice string
	step      string
	materials string
	sizes     []string
	colors    []string
}

func main() {
	dataDir := "data/catalog"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	families := []family{
		{
			file:      "varmala.jsonl.gz",
			category:  "varmala",
			prefix:    "VM",
			names:     []string{"Rose Petal Varmala Block", "Jaimala Keepsake Frame", "Marigold Wedding Slab", "Floral Memory Cube"},
			basePrice: "149.99",
			step:      "20.00",
			materials: "Epoxy resin, preserved wedding flowers",
			sizes:     []string{"8x10 inches", "10x12 inches"},
			colors:    []string{"Red", "Gold", "Clear"},
		},
		{
			file:      "clocks.jsonl.gz",
			category:  "clocks",
			prefix:    "CL",
			names:     []string{"Ocean Wave Wall Clock", "Geode Agate Clock", "Galaxy Swirl Clock", "Teakwood River Clock"},
			basePrice: "89.99",
			step:      "15.00",
			materials: "Epoxy resin, MDF base, silent quartz movement",
			sizes:     []string{"12 inch diameter", "18 inch diameter"},
			colors:    []string{"Blue", "White", "Teal"},
		},
		{
			file:      "frames.jsonl.gz",
			category:  "photo-frames",
			prefix:    "PF",
			names:     []string{"Pressed Flower Photo Frame", "Gold Leaf Couple Frame", "Pebble Beach Frame"},
			basePrice: "34.99",
			step:      "5.00",
			materials: "Epoxy resin, dried flowers",
			sizes:     []string{"5x7 inches", "6x8 inches"},
			colors:    []string{"Pink", "Gold", "Natural"},
		},
	}

	now := time.Now().UTC()
	for _, f := range families {
		products := f.products(now)
		path := filepath.Join(dataDir, f.file)
		if err := writeCatalogue(path, products); err != nil {
			log.Fatalf("Failed to create %s: %v", f.file, err)
		}
		fmt.Printf("Created %s with %d products\n", path, len(products))
	}

	fmt.Println("\nSet CATALOG_SEED_FILES to seed from these files, e.g.")
	fmt.Println("  CATALOG_SEED_FILES=data/catalog/varmala.jsonl.gz,data/catalog/clocks.jsonl.gz,data/catalog/frames.jsonl.gz")
}

func (f family) products(createdAt time.Time) []model.Product {
	base := decimal.RequireFromString(f.basePrice)
	step := decimal.RequireFromString(f.step)

	products := make([]model.Product, 0, len(f.names))
	for i, name := range f.names {
		size := f.sizes[i%len(f.sizes)]
		materials := f.materials
		products = append(products, model.Product{
			ID:          fmt.Sprintf("%s%03d", f.prefix, i+1),
			Name:        name,
			Description: fmt.Sprintf("Handmade %s piece, cast and polished to order.", f.category),
			Price:       model.Money{Decimal: base.Add(step.Mul(decimal.NewFromInt(int64(i))))},
			Category:    f.category,
			ImageURL:    fmt.Sprintf("/assets/images/%s-%d.png", f.category, i+1),
			Rating:      decimal.NewFromFloat(4.5).Add(decimal.NewFromFloat(0.1).Mul(decimal.NewFromInt(int64(i % 5)))),
			ReviewCount: 12 + i*7,
			InStock:     3 + i*2,
			Colors:      f.colors,
			Dimensions:  &size,
			Materials:   &materials,
			CreatedAt:   createdAt,
		})
	}
	return products
}

func writeCatalogue(path string, products []model.Product) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := catalog.Write(file, products); err != nil {
		return err
	}
	return file.Sync()
}
