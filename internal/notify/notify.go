// Package notify sends order confirmation emails through Postmark.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"resinstore/internal/model"

	"github.com/keighl/postmark"
	"github.com/rs/zerolog"
)

// OrderNotifier tells the buyer their order was placed.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *model.OrderDetail) error
}

// Sender is the subset of the Postmark client used here.
type Sender interface {
	SendEmail(email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkNotifier emails order confirmations.
type PostmarkNotifier struct {
	sender Sender
	from   string
	logger zerolog.Logger
}

// NewPostmarkNotifier creates a notifier authenticated with a Postmark server token.
func NewPostmarkNotifier(serverToken, from string, logger zerolog.Logger) *PostmarkNotifier {
	return NewPostmarkNotifierWithSender(postmark.NewClient(serverToken, ""), from, logger)
}

func NewPostmarkNotifierWithSender(sender Sender, from string, logger zerolog.Logger) *PostmarkNotifier {
	return &PostmarkNotifier{
		sender: sender,
		from:   from,
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

// OrderPlaced sends the confirmation. Orders without an email address are skipped.
func (n *PostmarkNotifier) OrderPlaced(ctx context.Context, order *model.OrderDetail) error {
	if order.CustomerInfo.Email == "" {
		n.logger.Debug().Str("order_id", order.ID.String()).Msg("no email on order, skipping confirmation")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := n.sender.SendEmail(postmark.Email{
		From:     n.from,
		To:       order.CustomerInfo.Email,
		Subject:  fmt.Sprintf("Order confirmation #%s", shortID(order)),
		Tag:      "order-confirmation",
		HtmlBody: renderHTML(order),
		TextBody: renderText(order),
	})
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	n.logger.Info().
		Str("order_id", order.ID.String()).
		Str("message_id", res.MessageID).
		Msg("confirmation email sent")
	return nil
}

func shortID(order *model.OrderDetail) string {
	return strings.ToUpper(order.ID.String()[:8])
}

func renderText(order *model.OrderDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", order.CustomerInfo.Name)
	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s x%d @ %s\n", item.ProductName, item.Quantity, item.ProductPrice)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", order.TotalAmount)
	addr := order.ShippingAddress
	fmt.Fprintf(&b, "Shipping to: %s, %s, %s %s\n", addr.Street, addr.City, addr.State, addr.Zip)
	return b.String()
}

func renderHTML(order *model.OrderDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(order.CustomerInfo.Name))
	fmt.Fprintf(&b, "<p>Thank you for your order <strong>%s</strong>.</p><ul>", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<li>%s x%d @ %s</li>", html.EscapeString(item.ProductName), item.Quantity, item.ProductPrice)
	}
	fmt.Fprintf(&b, "</ul><p>Total: <strong>%s</strong></p>", order.TotalAmount)
	return b.String()
}

// NoopNotifier drops every notification.
type NoopNotifier struct{}

func (NoopNotifier) OrderPlaced(context.Context, *model.OrderDetail) error { return nil }
