package booking

import (
	"context"
	"fmt"

	"chairhop/models"
	"chairhop/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentIntentResult carries what the client needs to collect payment.
type PaymentIntentResult struct {
	IntentID     string  `json:"intent_id"`
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
}

// CreatePaymentIntent quotes the slot and opens a Stripe PaymentIntent for
// the occupant. Only the occupant of a booked slot may pay.
func (s *DefaultBookingService) CreatePaymentIntent(ctx context.Context, actor Actor, id string) (*PaymentIntentResult, error) {
	apt, err := s.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status != models.StatusBooked {
		return nil, ErrNotAvailable
	}
	if actor.Role != models.RoleAdmin && apt.CustomerID != actor.ID {
		return nil, ErrNotOccupant
	}

	quote, err := s.Quote(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.TotalPrice <= 0 {
		return nil, fmt.Errorf("slot %s has no priced service to charge for", id)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(quote.TotalPrice * 100)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("appointmentId", apt.ID)
	params.AddMetadata("customerId", apt.CustomerID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	utils.GetLogger().Info("payment intent created",
		zap.String("appointmentId", apt.ID),
		zap.String("intentId", intent.ID),
		zap.Float64("amount", quote.TotalPrice))

	return &PaymentIntentResult{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       quote.TotalPrice,
	}, nil
}

// MarkPaid records a successful charge against the slot. The payment tag is
// an opaque annotation; it never gates lifecycle transitions.
func (s *DefaultBookingService) MarkPaid(ctx context.Context, id string) error {
	return s.Repo.SetPaymentStatus(ctx, id, models.PaymentPaid)
}

// MarkRefunded records a refund against the slot.
func (s *DefaultBookingService) MarkRefunded(ctx context.Context, id string) error {
	return s.Repo.SetPaymentStatus(ctx, id, models.PaymentRefunded)
}
