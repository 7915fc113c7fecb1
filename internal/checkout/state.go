package checkout

type State int

const (
	StateIdle State = iota
	StatePaymentPending
	StatePaymentCaptured
	StateOrderPersisted
	StateCartCleared
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:            "idle",
	StatePaymentPending:  "payment_pending",
	StatePaymentCaptured: "payment_captured",
	StateOrderPersisted:  "order_persisted",
	StateCartCleared:     "cart_cleared",
	StateDone:            "done",
	StateFailed:          "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// OrderPersisted may skip CartCleared: a stale cart does not fail a placed order.
var transitions = map[State][]State{
	StateIdle:            {StatePaymentPending},
	StatePaymentPending:  {StatePaymentCaptured, StateFailed},
	StatePaymentCaptured: {StateOrderPersisted, StateFailed},
	StateOrderPersisted:  {StateCartCleared, StateDone},
	StateCartCleared:     {StateDone},
}

func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
