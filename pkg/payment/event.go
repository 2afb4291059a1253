package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EventType tags the normalized provider events the reconciliation core
// understands. Anything else is acknowledged and ignored.
type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout.session.completed"
	EventSubscriptionUpdated EventType = "customer.subscription.updated"
	EventSubscriptionDeleted EventType = "customer.subscription.deleted"
	EventInvoicePaid         EventType = "invoice.payment_succeeded"
	EventInvoiceFailed       EventType = "invoice.payment_failed"
)

// Event is the narrow internal event type handed to the reconciliation
// engine. Provider payloads are translated into it at the webhook boundary so
// the engine never touches provider objects.
type Event struct {
	ID   string
	Type EventType

	// checkout session fields
	OrderNo       string // from session metadata
	PaymentStatus string // "paid" when the session settled
	PayerEmail    string

	// subscription fields
	SubID         string
	SubStatus     string // provider subscription status, "active" means paid
	IntervalCount int
	CycleAnchor   int64
	PeriodStart   int64
	PeriodEnd     int64

	// CreatedAt is the provider event timestamp; subscription-driven
	// transitions use it as a monotonic guard against stale redeliveries.
	CreatedAt time.Time

	// Raw is the full provider payload, persisted as the order's audit
	// snapshot on each transition.
	Raw json.RawMessage
}

var ErrUnknownEvent = errors.New("unknown event type")

// envelope is the provider's outer webhook shape.
type envelope struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSession struct {
	ID       string `json:"id"`
	Metadata struct {
		OrderNo string `json:"order_no"`
	} `json:"metadata"`
	PaymentStatus   string `json:"payment_status"`
	CustomerEmail   string `json:"customer_email"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	Subscription string `json:"subscription"`
}

type subscription struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Items              struct {
		Data []struct {
			Price struct {
				Recurring struct {
					IntervalCount int `json:"interval_count"`
				} `json:"recurring"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

type invoice struct {
	ID            string `json:"id"`
	Subscription  string `json:"subscription"`
	CustomerEmail string `json:"customer_email"`
}

// ParseEvent translates a raw provider webhook body into an Event.
// ErrUnknownEvent means the type is outside the reconciliation core's scope;
// callers should acknowledge and drop it.
func ParseEvent(body []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parse event envelope: %w", err)
	}
	if env.Type == "" {
		return nil, errors.New("event missing type")
	}

	ev := &Event{
		ID:        env.ID,
		Type:      EventType(env.Type),
		CreatedAt: time.Unix(env.Created, 0).UTC(),
		Raw:       append(json.RawMessage(nil), body...),
	}
	if env.Created == 0 {
		ev.CreatedAt = time.Now().UTC()
	}

	switch ev.Type {
	case EventCheckoutCompleted:
		var s checkoutSession
		if err := json.Unmarshal(env.Data.Object, &s); err != nil {
			return nil, fmt.Errorf("parse checkout session: %w", err)
		}
		ev.OrderNo = s.Metadata.OrderNo
		ev.PaymentStatus = s.PaymentStatus
		ev.SubID = s.Subscription
		ev.PayerEmail = s.CustomerDetails.Email
		if ev.PayerEmail == "" {
			ev.PayerEmail = s.CustomerEmail
		}
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var s subscription
		if err := json.Unmarshal(env.Data.Object, &s); err != nil {
			return nil, fmt.Errorf("parse subscription: %w", err)
		}
		ev.SubID = s.ID
		ev.SubStatus = s.Status
		ev.CycleAnchor = s.CurrentPeriodStart
		ev.PeriodStart = s.CurrentPeriodStart
		ev.PeriodEnd = s.CurrentPeriodEnd
		ev.IntervalCount = 1
		if len(s.Items.Data) > 0 && s.Items.Data[0].Price.Recurring.IntervalCount > 0 {
			ev.IntervalCount = s.Items.Data[0].Price.Recurring.IntervalCount
		}
	case EventInvoicePaid, EventInvoiceFailed:
		var inv invoice
		if err := json.Unmarshal(env.Data.Object, &inv); err != nil {
			return nil, fmt.Errorf("parse invoice: %w", err)
		}
		ev.SubID = inv.Subscription
		ev.PayerEmail = inv.CustomerEmail
	default:
		return ev, ErrUnknownEvent
	}
	return ev, nil
}
