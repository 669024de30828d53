package repository

import (
	"context"
	"errors"
	"fmt"

	"resinstore/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// seedLockKey identifies the advisory lock held while seeding the catalogue.
const seedLockKey int64 = 7_340_112_001

const productColumns = `id, name, description, price, category, image_url, rating,
	review_count, in_stock, colors, dimensions, materials, created_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.ImageURL,
		&p.Rating,
		&p.ReviewCount,
		&p.InStock,
		&p.Colors,
		&p.Dimensions,
		&p.Materials,
		&p.CreatedAt,
	)
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY seq`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *productRepository) SeedIfEmpty(ctx context.Context, products []model.Product) (inserted int, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin seed transaction")
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback seed transaction")
			}
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
		return 0, fmt.Errorf("failed to acquire seed lock: %w", err)
	}

	var exists bool
	if err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products)`).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check products: %w", err)
	}
	if exists {
		r.logger.Debug().Msg("catalogue already seeded")
		return 0, tx.Commit(ctx)
	}

	query := `
		INSERT INTO products (id, name, description, price, category, image_url, rating,
			review_count, in_stock, colors, dimensions, materials)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		colors := p.Colors
		if colors == nil {
			colors = []string{}
		}
		batch.Queue(query, p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL,
			p.Rating, p.ReviewCount, p.InStock, colors, p.Dimensions, p.Materials)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range products {
		if _, err = results.Exec(); err != nil {
			_ = results.Close()
			r.logger.Error().Err(err).Str("product_id", products[i].ID).Msg("failed to insert product")
			return 0, fmt.Errorf("failed to insert product %s: %w", products[i].ID, err)
		}
	}
	if err = results.Close(); err != nil {
		return 0, fmt.Errorf("failed to insert products: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit seed transaction")
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info().Int("count", len(products)).Msg("catalogue seeded")
	return len(products), nil
}
