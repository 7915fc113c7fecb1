package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

func validReq() CaptureRequest {
	return CaptureRequest{AmountMinor: 5399, Currency: "usd", CustomerRef: "user-1", PaymentMethod: "card", Token: "tok_visa"}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(validReq(), 50))

	r := validReq()
	r.AmountMinor = 49
	assert.ErrorIs(t, Validate(r, 50), ErrBelowMinimum)

	r = validReq()
	r.Currency = "dollars"
	assert.ErrorIs(t, Validate(r, 50), ErrInvalid)

	r = validReq()
	r.CustomerRef = ""
	assert.ErrorIs(t, Validate(r, 50), ErrInvalid)
}

func TestReason(t *testing.T) {
	assert.Equal(t, "card declined", Reason(&DeclineError{Reason: "card declined"}))
	assert.Equal(t, "payment timed out", Reason(context.DeadlineExceeded))
	assert.Equal(t, "amount below minimum", Reason(ErrBelowMinimum))
	assert.Equal(t, "payment failed", Reason(errors.New("boom")))
}

func TestSandboxGateway(t *testing.T) {
	g := &SandboxGateway{MinAmount: 50}

	res, err := g.Capture(context.Background(), validReq())
	require.NoError(t, err)
	assert.Contains(t, res.Reference, "SBX-")
	assert.NotEmpty(t, res.ClientSecret)

	r := validReq()
	r.Token = DeclineToken
	_, err = g.Capture(context.Background(), r)
	var decline *DeclineError
	require.ErrorAs(t, err, &decline)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Capture(ctx, validReq())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStripeGateway_Success(t *testing.T) {
	var got *stripe.PaymentIntentParams
	g := &StripeGateway{MinAmount: 50, create: func(p *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		got = p
		return &stripe.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret", Status: stripe.PaymentIntentStatusSucceeded}, nil
	}}

	req := validReq()
	req.IdempotencyKey = "idem-1"
	res, err := g.Capture(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "pi_123", res.Reference)
	assert.Equal(t, "pi_123_secret", res.ClientSecret)

	require.NotNil(t, got)
	assert.Equal(t, int64(5399), *got.Amount)
	assert.Equal(t, "usd", *got.Currency)
	assert.Equal(t, "tok_visa", *got.PaymentMethod)
	assert.True(t, *got.Confirm)
	assert.Equal(t, "user-1", got.Metadata["userId"])
	assert.Equal(t, "idem-1", *got.IdempotencyKey)
}

func TestStripeGateway_CardError(t *testing.T) {
	g := &StripeGateway{MinAmount: 50, create: func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		return nil, &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card was declined."}
	}}
	_, err := g.Capture(context.Background(), validReq())
	var decline *DeclineError
	require.ErrorAs(t, err, &decline)
	assert.Equal(t, "Your card was declined.", decline.Reason)
}

func TestStripeGateway_TransportError(t *testing.T) {
	g := &StripeGateway{MinAmount: 50, create: func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		return nil, errors.New("connection reset")
	}}
	_, err := g.Capture(context.Background(), validReq())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStripeGateway_RequiresAction(t *testing.T) {
	g := &StripeGateway{MinAmount: 50, create: func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		return &stripe.PaymentIntent{ID: "pi_1", Status: stripe.PaymentIntentStatusRequiresAction}, nil
	}}
	_, err := g.Capture(context.Background(), validReq())
	var decline *DeclineError
	require.ErrorAs(t, err, &decline)
}

func TestStripeGateway_BelowMinimumNeverCalls(t *testing.T) {
	called := false
	g := &StripeGateway{MinAmount: 50, create: func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		called = true
		return nil, nil
	}}
	r := validReq()
	r.AmountMinor = 10
	_, err := g.Capture(context.Background(), r)
	assert.ErrorIs(t, err, ErrBelowMinimum)
	assert.False(t, called)
}

type scriptedGateway struct {
	errs  []error
	calls int
}

func (s *scriptedGateway) Capture(context.Context, CaptureRequest) (*CaptureResult, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return &CaptureResult{Reference: "ok"}, nil
}

func TestBreakerGateway_OpensOnTransportFailures(t *testing.T) {
	boom := errors.New("boom")
	next := &scriptedGateway{errs: []error{boom, boom}}
	g := NewBreakerGateway(next, BreakerSettings{ConsecutiveFails: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := g.Capture(context.Background(), validReq())
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, g.State())

	_, err := g.Capture(context.Background(), validReq())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, next.calls)
}

func TestBreakerGateway_DeclinesDoNotTrip(t *testing.T) {
	decline := &DeclineError{Reason: "no"}
	next := &scriptedGateway{errs: []error{decline, decline, decline}}
	g := NewBreakerGateway(next, BreakerSettings{ConsecutiveFails: 2})

	for i := 0; i < 3; i++ {
		_, err := g.Capture(context.Background(), validReq())
		var d *DeclineError
		assert.ErrorAs(t, err, &d)
	}
	assert.Equal(t, gobreaker.StateClosed, g.State())

	res, err := g.Capture(context.Background(), validReq())
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Reference)
}

func TestBreakerGateway_CallerCancelDoesNotTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewBreakerGateway(&SandboxGateway{MinAmount: 50}, BreakerSettings{ConsecutiveFails: 2, OpenTimeout: time.Minute})
	for i := 0; i < 5; i++ {
		_, err := g.Capture(ctx, validReq())
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, g.State())

	res, err := g.Capture(context.Background(), validReq())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Reference)
}

func TestBreakerGateway_TimeoutsTrip(t *testing.T) {
	next := &scriptedGateway{errs: []error{context.DeadlineExceeded, context.DeadlineExceeded}}
	g := NewBreakerGateway(next, BreakerSettings{ConsecutiveFails: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := g.Capture(context.Background(), validReq())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, gobreaker.StateOpen, g.State())
}
