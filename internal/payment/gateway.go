// Package payment is the boundary to the card processor.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBelowMinimum = errors.New("amount below minimum chargeable amount")
	ErrUnavailable  = errors.New("payment processor unavailable")
	ErrInvalid      = errors.New("invalid capture request")
)

type CaptureRequest struct {
	AmountMinor    int64
	Currency       string
	CustomerRef    string
	PaymentMethod  string
	Token          string
	IdempotencyKey string
}

type CaptureResult struct {
	Reference    string
	ClientSecret string
}

// DeclineError is a definitive refusal by the processor, as opposed to a transport fault.
type DeclineError struct {
	Reason string
}

func (e *DeclineError) Error() string {
	return "payment declined: " + e.Reason
}

type Gateway interface {
	Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error)
}

// Validate checks the request against the configured floor before anything leaves the process.
func Validate(req CaptureRequest, minAmount int64) error {
	if req.AmountMinor < minAmount {
		return fmt.Errorf("%d < %d: %w", req.AmountMinor, minAmount, ErrBelowMinimum)
	}
	if len(strings.TrimSpace(req.Currency)) != 3 {
		return fmt.Errorf("currency %q: %w", req.Currency, ErrInvalid)
	}
	if req.CustomerRef == "" {
		return fmt.Errorf("customer ref required: %w", ErrInvalid)
	}
	return nil
}

// Reason extracts a caller-safe failure reason.
func Reason(err error) string {
	var decline *DeclineError
	switch {
	case errors.As(err, &decline):
		return decline.Reason
	case errors.Is(err, ErrBelowMinimum):
		return "amount below minimum"
	case errors.Is(err, context.DeadlineExceeded):
		return "payment timed out"
	case errors.Is(err, ErrUnavailable):
		return "payment processor unavailable"
	default:
		return "payment failed"
	}
}
