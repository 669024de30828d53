package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"resinstore/internal/cache"
	"resinstore/internal/catalog"
	"resinstore/internal/config"
	"resinstore/internal/database"
	"resinstore/internal/handler"
	"resinstore/internal/model"
	"resinstore/internal/notify"
	"resinstore/internal/payment"
	"resinstore/internal/repository"
	"resinstore/internal/router"
	"resinstore/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAPIKey         = "test-api-key"
	testWhatsAppNumber = "919876543210"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// SetupTestDB starts a PostgreSQL container and applies the storefront schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// testStack is the service graph cmd/api builds, minus the network listener.
type testStack struct {
	Server   http.Handler
	Products service.ProductService
	Redis    *miniredis.Miniredis
}

// setupTestServer wires real repositories, a Redis product cache and rate limiter backed
// by miniredis, and the WhatsApp confirmation strategy.
func setupTestServer(t *testing.T, testDB *TestDB) *testStack {
	t.Helper()

	logger := zerolog.Nop()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	productService := service.NewProductService(productRepo, cache.NewRedisProductCache(rdb, time.Minute, logger), logger)
	checkoutService := service.NewCheckoutService(orderRepo, notify.NoopNotifier{}, logger)
	adminService := service.NewAdminService(orderRepo, logger)
	paymentService := service.NewPaymentService(payment.NewWhatsAppConfirmation(testWhatsAppNumber, "₹", logger), orderRepo, logger)

	handlers := router.Handlers{
		Product: handler.NewProductHandler(productService, logger),
		Order:   handler.NewOrderHandler(checkoutService, logger),
		Admin:   handler.NewAdminHandler(adminService, logger),
		Payment: handler.NewPaymentHandler(paymentService, logger),
	}

	return &testStack{
		Server: router.New(handlers, router.Options{
			APIKey:      testAPIKey,
			RateLimiter: rdb,
			RateLimit:   100,
			RateWindow:  time.Minute,
		}, logger),
		Products: productService,
		Redis:    mr,
	}
}

// seedStarter loads the built-in catalogue the way cmd/api does on an empty database.
func seedStarter(t *testing.T, stack *testStack) int {
	t.Helper()

	loader := catalog.NewStarterLoader()
	inserted, err := stack.Products.SeedIfEmpty(context.Background(), func(ctx context.Context) ([]model.Product, error) {
		return loader.Load(ctx, "")
	})
	require.NoError(t, err)
	return inserted
}
