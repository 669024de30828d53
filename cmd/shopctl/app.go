package main

import (
	"fmt"
	"io"

	"resinstore/internal/cart"
	"resinstore/internal/client"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "shopctl",
		Usage:     "browse the resin art catalogue, manage your cart and check out",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "storefront API base URL",
				Value:   "http://localhost:8080",
				EnvVars: []string{"SHOP_API_URL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "admin API key",
				EnvVars: []string{"API_KEY"},
			},
			&cli.StringFlag{
				Name:    "cart-file",
				Usage:   "cart file path (default: user config directory)",
				EnvVars: []string{"SHOP_CART_FILE"},
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "keep the cart in Redis at this address instead of a file",
				EnvVars: []string{"SHOP_REDIS_ADDR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			productsCommand(),
			cartCommand(),
			checkoutCommand(),
			orderCommand(),
			adminCommand(),
		},
	}
}

func newLogger(c *cli.Context) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.String("log-level"))
	if err != nil {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: c.App.ErrWriter}).
		Level(level).
		With().
		Timestamp().
		Str("app", "shopctl").
		Logger()
}

func apiClient(c *cli.Context) *client.Client {
	return client.New(c.String("api-url"), c.String("api-key"), nil)
}

// openLedger returns the cart ledger and a func releasing its store.
func openLedger(c *cli.Context) (*cart.Ledger, func(), error) {
	logger := newLogger(c)

	if addr := c.String("redis-addr"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(c.Context).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
		}
		return cart.NewLedger(cart.NewRedisStore(rdb, cart.DefaultKey), logger), func() { _ = rdb.Close() }, nil
	}

	path := c.String("cart-file")
	if path == "" {
		var err error
		if path, err = cart.DefaultFilePath(); err != nil {
			return nil, nil, err
		}
	}
	return cart.NewLedger(cart.NewFileStore(path), logger), func() {}, nil
}
