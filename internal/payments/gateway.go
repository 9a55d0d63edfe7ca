// Package payments charges invoices through a configured gateway. The wire
// protocol belongs to the processor; this package only initiates a charge and
// records the outcome.
package payments

import (
	"context"
	"strings"
)

type Charge struct {
	AmountCents int64
	Currency    string
	Description string
	// Source is the tokenized payment method collected client-side.
	Source string
}

type ChargeResult struct {
	Ref      string
	Captured bool
	Message  string
}

type Gateway interface {
	Name() string
	Charge(ctx context.Context, c Charge) (ChargeResult, error)
}

// Select resolves the configured gateway name to a driver, defaulting to
// Moyasar.
func Select(name string, moyasar, stripe Gateway) Gateway {
	if strings.EqualFold(name, "stripe") {
		return stripe
	}
	return moyasar
}
