// Package payment wraps the payment provider's hosted-checkout API.
// The booking handler talks to the small CheckoutCreator interface so
// tests can substitute a fake without network access.
package payment

import (
	"context"
	"math"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// CheckoutParams describes one hosted-checkout session: a single line
// item at the listing's room price, redirect URLs and the metadata keys
// downstream reconciliation depends on. Metadata values must be
// strings; the provider's API rejects anything else.
type CheckoutParams struct {
	Amount      float64 // price in major currency units
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession is the subset of the provider's session object the
// application cares about.
type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutCreator creates hosted-checkout sessions.
type CheckoutCreator interface {
	CreateSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error)
}

// StripeClient implements CheckoutCreator against Stripe Checkout.
type StripeClient struct {
	api *client.API
}

// NewStripeClient builds a client bound to the given secret key.
func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{api: client.New(secretKey, nil)}
}

// MinorUnits converts a major-unit price to the provider's integer
// minor units, rounding to the nearest integer so float noise in the
// stored price cannot shave a unit off the charge.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateSession creates a payment-mode checkout session with one line
// item of quantity 1.
func (c *StripeClient) CreateSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ProductName),
					},
					UnitAmount: stripe.Int64(MinorUnits(p.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}
