package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"resinstore/internal/cart"
	"resinstore/internal/model"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "browse the catalogue",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list every product",
				Action: func(c *cli.Context) error {
					products, err := apiClient(c).ListProducts(c.Context)
					if err != nil {
						return err
					}
					w := newTable(c.App.Writer)
					fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tIN STOCK")
					for _, p := range products {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, p.Price, p.InStock)
					}
					return w.Flush()
				},
			},
			{
				Name:      "show",
				Usage:     "show one product",
				ArgsUsage: "<productId>",
				Action: func(c *cli.Context) error {
					id, err := requireArg(c, 0, "productId")
					if err != nil {
						return err
					}
					p, err := apiClient(c).GetProduct(c.Context, id)
					if err != nil {
						return err
					}
					out := c.App.Writer
					fmt.Fprintf(out, "%s\n%s\n\n", p.Name, p.Description)
					fmt.Fprintf(out, "Price:     %s\n", p.Price)
					fmt.Fprintf(out, "Category:  %s\n", p.Category)
					fmt.Fprintf(out, "Rating:    %s (%d reviews)\n", p.Rating.StringFixed(1), p.ReviewCount)
					fmt.Fprintf(out, "In stock:  %d\n", p.InStock)
					if len(p.Colors) > 0 {
						fmt.Fprintf(out, "Colours:   %v\n", p.Colors)
					}
					if p.Dimensions != nil {
						fmt.Fprintf(out, "Size:      %s\n", *p.Dimensions)
					}
					if p.Materials != nil {
						fmt.Fprintf(out, "Materials: %s\n", *p.Materials)
					}
					return nil
				},
			},
		},
	}
}

func cartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "manage the local cart",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "add a product, merging with an existing line",
				ArgsUsage: "<productId>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "qty", Aliases: []string{"q"}, Value: 1, Usage: "quantity to add"},
				},
				Action: withLedger(func(c *cli.Context, ledger *cart.Ledger) error {
					id, err := requireArg(c, 0, "productId")
					if err != nil {
						return err
					}
					p, err := apiClient(c).GetProduct(c.Context, id)
					if err != nil {
						return err
					}
					lines, err := ledger.Add(c.Context, model.CartLine{
						ProductID: p.ID,
						Name:      p.Name,
						Price:     p.Price,
						ImageURL:  p.ImageURL,
						Quantity:  c.Int("qty"),
					})
					if err != nil {
						return err
					}
					return printCart(c.App.Writer, lines)
				}),
			},
			{
				Name:  "list",
				Usage: "show the cart with a price quote",
				Action: withLedger(func(c *cli.Context, ledger *cart.Ledger) error {
					lines, err := ledger.Get(c.Context)
					if err != nil {
						return err
					}
					return printCart(c.App.Writer, lines)
				}),
			},
			{
				Name:      "update",
				Usage:     "set a line's quantity; zero or less removes it",
				ArgsUsage: "<productId> <qty>",
				Action: withLedger(func(c *cli.Context, ledger *cart.Ledger) error {
					id, err := requireArg(c, 0, "productId")
					if err != nil {
						return err
					}
					raw, err := requireArg(c, 1, "qty")
					if err != nil {
						return err
					}
					qty, err := strconv.Atoi(raw)
					if err != nil {
						return fmt.Errorf("qty must be a whole number: %q", raw)
					}
					lines, err := ledger.Update(c.Context, id, qty)
					if err != nil {
						return err
					}
					return printCart(c.App.Writer, lines)
				}),
			},
			{
				Name:      "remove",
				Usage:     "remove a line",
				ArgsUsage: "<productId>",
				Action: withLedger(func(c *cli.Context, ledger *cart.Ledger) error {
					id, err := requireArg(c, 0, "productId")
					if err != nil {
						return err
					}
					lines, err := ledger.Remove(c.Context, id)
					if err != nil {
						return err
					}
					return printCart(c.App.Writer, lines)
				}),
			},
			{
				Name:  "clear",
				Usage: "empty the cart",
				Action: withLedger(func(c *cli.Context, ledger *cart.Ledger) error {
					if err := ledger.Clear(c.Context); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "Cart cleared.")
					return nil
				}),
			},
		},
	}
}

func checkoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "checkout",
		Usage: "place an order for the cart, then start payment",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email"},
			&cli.StringFlag{Name: "phone"},
			&cli.StringFlag{Name: "street", Required: true},
			&cli.StringFlag{Name: "city", Required: true},
			&cli.StringFlag{Name: "state", Required: true},
			&cli.StringFlag{Name: "zip", Required: true},
		},
		Action: withLedger(func(c *cli.Context, ledger *cart.Ledger) error {
			lines, err := ledger.Get(c.Context)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return model.ErrEmptyCart
			}

			quote := cart.QuoteFor(lines)
			api := apiClient(c)

			orderID, err := api.PlaceOrder(c.Context, &model.OrderRequest{
				CustomerInfo: model.CustomerInfo{
					Name:  c.String("name"),
					Email: c.String("email"),
					Phone: c.String("phone"),
				},
				ShippingAddress: model.ShippingAddress{
					Street: c.String("street"),
					City:   c.String("city"),
					State:  c.String("state"),
					Zip:    model.PostalCode(c.String("zip")),
				},
				TotalAmount: quote.Total.Ptr(),
				Items:       lines,
			})
			if err != nil {
				// The cart is kept so the shopper can retry.
				return err
			}

			if err := ledger.Clear(c.Context); err != nil {
				logger := newLogger(c)
				logger.Warn().Err(err).Msg("order placed but the cart could not be cleared")
			}

			out := c.App.Writer
			fmt.Fprintf(out, "Order %s placed. Total %s\n", orderID, quote.Total)

			session, err := api.StartPayment(c.Context, &model.PaymentIntentRequest{
				Amount:  quote.Total,
				OrderID: orderID.String(),
			})
			if err != nil {
				return fmt.Errorf("order %s was placed but payment could not be started: %w", orderID, err)
			}

			switch {
			case session.ClientSecret != "":
				fmt.Fprintf(out, "Complete card payment with client secret: %s\n", session.ClientSecret)
			case session.RedirectURL != "":
				fmt.Fprintf(out, "Confirm your order on WhatsApp: %s\n", session.RedirectURL)
			}
			return nil
		}),
	}
}

func orderCommand() *cli.Command {
	return &cli.Command{
		Name:  "order",
		Usage: "look up orders",
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "show an order with its items",
				ArgsUsage: "<orderId>",
				Action: func(c *cli.Context) error {
					raw, err := requireArg(c, 0, "orderId")
					if err != nil {
						return err
					}
					id, err := uuid.Parse(raw)
					if err != nil {
						return model.ErrOrderNotFound
					}
					detail, err := apiClient(c).GetOrder(c.Context, id)
					if err != nil {
						return err
					}
					printOrder(c.App.Writer, detail)
					return nil
				},
			},
		},
	}
}

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "order status console (needs --api-key)",
		Subcommands: []*cli.Command{
			{
				Name:  "orders",
				Usage: "list every order, newest first",
				Action: func(c *cli.Context) error {
					orders, err := apiClient(c).ListAllOrders(c.Context)
					if err != nil {
						return err
					}
					w := newTable(c.App.Writer)
					fmt.Fprintln(w, "ID\tCREATED\tCUSTOMER\tTOTAL\tSTATUS")
					for _, o := range orders {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
							o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), o.CustomerInfo.Name, o.TotalAmount, o.Status)
					}
					return w.Flush()
				},
			},
			{
				Name:      "set-status",
				Usage:     "change an order's status (pending, processing, shipped, delivered, cancelled)",
				ArgsUsage: "<orderId> <status>",
				Action: func(c *cli.Context) error {
					id, err := requireArg(c, 0, "orderId")
					if err != nil {
						return err
					}
					status, err := requireArg(c, 1, "status")
					if err != nil {
						return err
					}
					updated, err := apiClient(c).UpdateOrderStatus(c.Context, id, model.OrderStatus(status))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Order %s is now %s\n", updated.ID, updated.Status)
					return nil
				},
			},
		},
	}
}

func withLedger(fn func(c *cli.Context, ledger *cart.Ledger) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ledger, release, err := openLedger(c)
		if err != nil {
			return err
		}
		defer release()
		return fn(c, ledger)
	}
}

func requireArg(c *cli.Context, i int, name string) (string, error) {
	v := c.Args().Get(i)
	if v == "" {
		return "", fmt.Errorf("missing argument <%s>", name)
	}
	return v, nil
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printCart(out io.Writer, lines []model.CartLine) error {
	if len(lines) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return nil
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE\tLINE TOTAL")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", l.ProductID, l.Name, l.Quantity, l.Price, l.LineTotal())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	q := cart.QuoteFor(lines)
	fmt.Fprintf(out, "\nSubtotal: %s\nTax:      %s\nShipping: %s\nTotal:    %s\n", q.Subtotal, q.Tax, q.Shipping, q.Total)
	return nil
}

func printOrder(out io.Writer, o *model.OrderDetail) {
	fmt.Fprintf(out, "Order %s (%s)\n", o.ID, o.Status)
	fmt.Fprintf(out, "Placed:   %s\n", o.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "Customer: %s %s %s\n", o.CustomerInfo.Name, o.CustomerInfo.Email, o.CustomerInfo.Phone)
	a := o.ShippingAddress
	fmt.Fprintf(out, "Ship to:  %s, %s, %s %s\n\n", a.Street, a.City, a.State, a.Zip)

	w := newTable(out)
	fmt.Fprintln(w, "PRODUCT\tQTY\tPRICE")
	for _, item := range o.Items {
		fmt.Fprintf(w, "%s\t%d\t%s\n", item.ProductName, item.Quantity, item.ProductPrice)
	}
	_ = w.Flush()
	fmt.Fprintf(out, "\nTotal: %s\n", o.TotalAmount)
}
