package libraries

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// CheckoutSessions reads completed checkout sessions from Stripe.
type CheckoutSessions struct {
	api *client.API
}

func NewCheckoutSessions(secretKey string) (*CheckoutSessions, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY not set")
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &CheckoutSessions{api: api}, nil
}

// CustomerEmail returns the email the customer entered at checkout, or "".
func (s *CheckoutSessions) CustomerEmail(ctx context.Context, sessionID string) (string, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return "", err
	}
	if session.CustomerDetails == nil {
		return "", nil
	}
	return session.CustomerDetails.Email, nil
}
