package orders

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// CheckoutSessionCreator abstracts Stripe Checkout Session creation so
// handlers can be tested with a fake. The order exists before the session:
// payment confirmation arrives later through the webhook.
type CheckoutSessionCreator interface {
	Create(amountCents int64, currency, productName string, metadata map[string]string) (*CheckoutSessionResult, error)
}

type CheckoutSessionResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// StripeCheckoutCreator creates real Checkout Sessions via the Stripe SDK.
type StripeCheckoutCreator struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
}

func (r *StripeCheckoutCreator) Create(amountCents int64, currency, productName string, metadata map[string]string) (*CheckoutSessionResult, error) {
	stripe.Key = r.SecretKey
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(productName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(r.SuccessURL),
		CancelURL:  stripe.String(r.CancelURL),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSessionResult{ID: sess.ID, URL: sess.URL}, nil
}
