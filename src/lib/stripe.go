package lib

import (
	"buspass/src/lifecycle"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// StripeGateway charges the pass fee through Stripe PaymentIntents. Selected
// with PAYMENT_GATEWAY=stripe; the simulated gateway remains the default.
type StripeGateway struct{}

func (StripeGateway) Charge(ctx context.Context, req lifecycle.ChargeRequest) error {
	sc := GetStripeClient()
	params := stripe.PaymentIntentCreateParams{
		Amount:      stripe.Int64(req.Amount * 100),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Description),
		Confirm:     stripe.Bool(true),
		Metadata: map[string]string{
			"reference_id": req.ReferenceID,
			"mode":         req.Mode,
		},
	}
	intent, err := sc.V1PaymentIntents.Create(ctx, &params)
	if err != nil {
		return err
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("payment intent %s not completed: %s", intent.ID, intent.Status)
	}
	return nil
}
