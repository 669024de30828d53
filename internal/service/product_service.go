package service

import (
	"context"
	"errors"

	"resinstore/internal/cache"
	"resinstore/internal/model"
	"resinstore/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	cache       cache.ProductCache
	logger      zerolog.Logger
}

// NewProductService creates a new product service. A nil cache disables caching.
func NewProductService(productRepo repository.ProductRepository, productCache cache.ProductCache, logger zerolog.Logger) ProductService {
	if productCache == nil {
		productCache = cache.NewNoopProductCache()
	}
	return &productService{
		productRepo: productRepo,
		cache:       productCache,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves every product in insertion order.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	if products, ok := s.cache.GetProducts(ctx); ok {
		s.logger.Debug().Int("count", len(products)).Msg("products served from cache")
		return products, nil
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, model.NewStoreError("fetch products", err)
	}
	if products == nil {
		products = []model.Product{}
	}

	s.cache.SetProducts(ctx, products)
	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	if product, ok := s.cache.GetProduct(ctx, id); ok {
		return product, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, model.NewStoreError("fetch product", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	s.cache.SetProduct(ctx, product)
	return product, nil
}

// SeedIfEmpty loads and inserts the catalogue only when the products table is empty.
// The repository re-checks emptiness under a lock, so concurrent processes seed once.
func (s *productService) SeedIfEmpty(ctx context.Context, source CatalogueSource) (int, error) {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count products")
		return 0, model.NewStoreError("count products", err)
	}
	if count > 0 {
		s.logger.Info().Int("count", count).Msg("catalogue already seeded")
		return 0, nil
	}

	products, err := source(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load seed catalogue")
		return 0, err
	}
	if len(products) == 0 {
		return 0, errors.New("seed catalogue is empty")
	}

	inserted, err := s.productRepo.SeedIfEmpty(ctx, products)
	if err != nil {
		s.logger.Error().Err(err).Int("products", len(products)).Msg("failed to seed catalogue")
		return 0, model.NewStoreError("seed products", err)
	}

	if inserted > 0 {
		s.cache.Invalidate(ctx)
	}

	s.logger.Info().Int("inserted", inserted).Msg("catalogue seed finished")
	return inserted, nil
}
