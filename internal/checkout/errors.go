package checkout

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("invalid data")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrPersistence        = errors.New("failed to create order")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrIllegalTransition  = errors.New("illegal checkout transition")
)

// PaymentFailure carries the gateway's reason. errors.Is(err, ErrPaymentFailed) holds.
type PaymentFailure struct {
	Reason string
	Err    error
}

func (e *PaymentFailure) Error() string {
	return "payment failed: " + e.Reason
}

func (e *PaymentFailure) Unwrap() []error {
	return []error{ErrPaymentFailed, e.Err}
}
