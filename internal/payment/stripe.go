package payment

import (
	"context"
	"strings"

	"resinstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

const ProviderStripe = "stripe"

// IntentCreator is the subset of the Stripe PaymentIntents client used here.
type IntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeConfirmation creates Stripe PaymentIntents.
type StripeConfirmation struct {
	intents  IntentCreator
	currency string
	logger   zerolog.Logger
}

// NewStripeConfirmation creates a Stripe strategy authenticated with secretKey.
func NewStripeConfirmation(secretKey, currency string, logger zerolog.Logger) *StripeConfirmation {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return NewStripeConfirmationWithClient(sc.PaymentIntents, currency, logger)
}

// NewStripeConfirmationWithClient creates a Stripe strategy around an existing client.
func NewStripeConfirmationWithClient(intents IntentCreator, currency string, logger zerolog.Logger) *StripeConfirmation {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeConfirmation{
		intents:  intents,
		currency: strings.ToLower(currency),
		logger:   logger.With().Str("component", "stripe").Logger(),
	}
}

func (s *StripeConfirmation) Provider() string { return ProviderStripe }

func (s *StripeConfirmation) RequiresOrder() bool { return false }

// Start creates a PaymentIntent for the amount in minor units and returns its client secret.
func (s *StripeConfirmation) Start(ctx context.Context, req Request) (*Session, error) {
	cents := req.Amount.Cents()
	if cents <= 0 {
		return nil, model.ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(cents),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.Order != nil {
		params.AddMetadata("order_id", req.Order.ID.String())
	}

	intent, err := s.intents.New(params)
	if err != nil {
		s.logger.Error().Err(err).Int64("amount_cents", cents).Msg("failed to create payment intent")
		return nil, model.NewUpstreamPaymentError("create payment intent", err)
	}

	s.logger.Info().
		Str("intent_id", intent.ID).
		Int64("amount_cents", cents).
		Msg("payment intent created")

	return &Session{
		Provider:     ProviderStripe,
		ClientSecret: intent.ClientSecret,
	}, nil
}
