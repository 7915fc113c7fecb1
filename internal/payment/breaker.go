package payment

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerGateway stops calling a failing processor for a while. Declines,
// validation errors and caller cancellation do not count as failures; a capture
// timeout does.
type BreakerGateway struct {
	next Gateway
	cb   *gobreaker.CircuitBreaker[*CaptureResult]
}

type BreakerSettings struct {
	Name             string
	ConsecutiveFails uint32
	OpenTimeout      time.Duration
}

func NewBreakerGateway(next Gateway, s BreakerSettings) *BreakerGateway {
	if s.Name == "" {
		s.Name = "payment"
	}
	if s.ConsecutiveFails == 0 {
		s.ConsecutiveFails = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[*CaptureResult](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFails
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var decline *DeclineError
			return errors.As(err, &decline) ||
				errors.Is(err, ErrBelowMinimum) ||
				errors.Is(err, ErrInvalid) ||
				errors.Is(err, context.Canceled)
		},
	})
	return &BreakerGateway{next: next, cb: cb}
}

func (g *BreakerGateway) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	res, err := g.cb.Execute(func() (*CaptureResult, error) {
		return g.next.Capture(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return res, err
}

func (g *BreakerGateway) State() gobreaker.State {
	return g.cb.State()
}
