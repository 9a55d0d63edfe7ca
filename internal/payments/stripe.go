package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Stripe is the secondary gateway driver, used by hotels that settle in
// card networks Moyasar does not cover.
type Stripe struct {
	api *client.API
}

func NewStripe(secretKey string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) Charge(ctx context.Context, c Charge) (ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:        stripe.Int64(c.AmountCents),
		Currency:      stripe.String(strings.ToLower(c.Currency)),
		Description:   stripe.String(c.Description),
		PaymentMethod: stripe.String(c.Source),
		Confirm:       stripe.Bool(true),
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("stripe charge failed: %w", err)
	}

	return ChargeResult{
		Ref:      pi.ID,
		Captured: pi.Status == stripe.PaymentIntentStatusSucceeded,
		Message:  string(pi.Status),
	}, nil
}
