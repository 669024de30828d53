package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"resinstore/internal/model"

	"github.com/rs/zerolog"
)

const ProviderWhatsApp = "whatsapp"

// WhatsAppConfirmation hands the shopper a wa.me link with the order summary prefilled.
type WhatsAppConfirmation struct {
	businessNumber string
	currencySymbol string
	logger         zerolog.Logger
}

// NewWhatsAppConfirmation creates the WhatsApp strategy. businessNumber includes the
// country code and no leading plus sign.
func NewWhatsAppConfirmation(businessNumber, currencySymbol string, logger zerolog.Logger) *WhatsAppConfirmation {
	return &WhatsAppConfirmation{
		businessNumber: strings.TrimPrefix(strings.TrimSpace(businessNumber), "+"),
		currencySymbol: currencySymbol,
		logger:         logger.With().Str("component", "whatsapp").Logger(),
	}
}

func (w *WhatsAppConfirmation) Provider() string { return ProviderWhatsApp }

func (w *WhatsAppConfirmation) RequiresOrder() bool { return true }

func (w *WhatsAppConfirmation) Start(ctx context.Context, req Request) (*Session, error) {
	if req.Order == nil {
		return nil, model.NewValidationError("orderId is required for WhatsApp confirmation")
	}

	message := w.Message(req.Order)
	// Match encodeURIComponent: spaces as %20, not '+'.
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	redirect := fmt.Sprintf("https://wa.me/%s?text=%s", w.businessNumber, text)

	w.logger.Info().Str("order_id", req.Order.ID.String()).Msg("whatsapp hand-off prepared")

	return &Session{
		Provider:    ProviderWhatsApp,
		RedirectURL: redirect,
	}, nil
}

// Message renders the order summary sent to the shop.
func (w *WhatsAppConfirmation) Message(order *model.OrderDetail) string {
	email := order.CustomerInfo.Email
	if email == "" {
		email = "N/A"
	}
	addr := order.ShippingAddress

	var b strings.Builder
	b.WriteString("🛒 *My order Details*\n\n")
	fmt.Fprintf(&b, "📦 *Order ID:* %s\n\n", order.ID)
	fmt.Fprintf(&b, "👤 *Customer:* %s\n", order.CustomerInfo.Name)
	fmt.Fprintf(&b, "📞 *Phone:* %s\n", order.CustomerInfo.Phone)
	fmt.Fprintf(&b, "📧 *Email:* %s\n\n", email)
	b.WriteString("🏠 *Address:*\n")
	fmt.Fprintf(&b, "%s\n%s, %s - %s\n\n", addr.Street, addr.City, addr.State, addr.Zip)
	b.WriteString("🧾 *Items:*\n")
	for i, item := range order.Items {
		fmt.Fprintf(&b, "%d. %s x%d - %s%s\n", i+1, item.ProductName, item.Quantity, w.currencySymbol, item.ProductPrice)
	}
	fmt.Fprintf(&b, "\n💰 *Total:* %s%s", w.currencySymbol, order.TotalAmount)

	return b.String()
}
