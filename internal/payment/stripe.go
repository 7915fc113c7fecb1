package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

type intentCreator func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)

// StripeGateway captures by creating and confirming a PaymentIntent in one call.
type StripeGateway struct {
	MinAmount int64
	create    intentCreator
}

func NewStripeGateway(secretKey string, minAmount int64) *StripeGateway {
	client := &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}
	return &StripeGateway{MinAmount: minAmount, create: client.New}
}

func (g *StripeGateway) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	if err := Validate(req, g.MinAmount); err != nil {
		return nil, err
	}
	if req.Token == "" {
		return nil, fmt.Errorf("payment token required: %w", ErrInvalid)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.AmountMinor),
		Currency:      stripe.String(req.Currency),
		PaymentMethod: stripe.String(req.Token),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.AddMetadata("userId", req.CustomerRef)
	params.AddMetadata("paymentMethod", req.PaymentMethod)
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := g.create(params)
	if err != nil {
		return nil, translateStripeError(err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture:
		return &CaptureResult{Reference: pi.ID, ClientSecret: pi.ClientSecret}, nil
	default:
		return nil, &DeclineError{Reason: fmt.Sprintf("payment not completed (%s)", pi.Status)}
	}
}

func translateStripeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var se *stripe.Error
	if errors.As(err, &se) {
		switch se.Type {
		case stripe.ErrorTypeCard:
			reason := se.Msg
			if reason == "" {
				reason = string(se.Code)
			}
			return &DeclineError{Reason: reason}
		case stripe.ErrorTypeInvalidRequest:
			return fmt.Errorf("%s: %w", se.Msg, ErrInvalid)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
