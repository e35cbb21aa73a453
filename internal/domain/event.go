package domain

// EventKind identifies an inbound bot event
type EventKind int

const (
	EventStart EventKind = iota + 1
	EventMenuChoice
	EventText
	EventPreCheckout
	EventPayment
	EventStats
	EventDonations
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventMenuChoice:
		return "menu_choice"
	case EventText:
		return "text"
	case EventPreCheckout:
		return "pre_checkout"
	case EventPayment:
		return "payment"
	case EventStats:
		return "stats"
	case EventDonations:
		return "donations"
	default:
		return "unknown"
	}
}

// Sender identifies who produced an event
type Sender struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// Checkout is a pre-checkout query awaiting approval
type Checkout struct {
	ID       string
	Payload  string
	Currency string
	Total    int
}

// Payment is a confirmed payment notification
type Payment struct {
	Payload  string
	Currency string
	Total    int // minor units
	ChargeID string
}

// Event is a single inbound update decoded for the donation flow.
// Text holds message text or callback data depending on Kind.
type Event struct {
	Kind       EventKind
	From       Sender
	ChatID     int64
	MessageID  int
	CallbackID string
	Text       string
	Checkout   *Checkout
	Payment    *Payment
}
