package payment

import (
	"errors"
	"testing"
	"time"
)

func TestParseEvent(t *testing.T) {
	t.Run("Given checkout session event Then metadata and payer are extracted", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_1",
			"type": "checkout.session.completed",
			"created": 1769904000,
			"data": {"object": {
				"id": "cs_1",
				"metadata": {"order_no": "ord-1"},
				"payment_status": "paid",
				"customer_details": {"email": "payer@example.com"},
				"subscription": "sub_1"
			}}
		}`)
		ev, err := ParseEvent(body)
		if err != nil {
			t.Fatalf("ParseEvent failed: %v", err)
		}
		if ev.Type != EventCheckoutCompleted {
			t.Errorf("expected checkout type, got %s", ev.Type)
		}
		if ev.OrderNo != "ord-1" || ev.PaymentStatus != "paid" || ev.SubID != "sub_1" {
			t.Errorf("unexpected fields: %+v", ev)
		}
		if ev.PayerEmail != "payer@example.com" {
			t.Errorf("expected payer email from customer_details, got %s", ev.PayerEmail)
		}
		if ev.CreatedAt != time.Unix(1769904000, 0).UTC() {
			t.Errorf("unexpected created at: %v", ev.CreatedAt)
		}
	})

	t.Run("Given checkout without customer_details Then customer_email is the fallback", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_1",
			"type": "checkout.session.completed",
			"data": {"object": {
				"metadata": {"order_no": "ord-1"},
				"payment_status": "paid",
				"customer_email": "fallback@example.com"
			}}
		}`)
		ev, err := ParseEvent(body)
		if err != nil {
			t.Fatalf("ParseEvent failed: %v", err)
		}
		if ev.PayerEmail != "fallback@example.com" {
			t.Errorf("expected fallback email, got %s", ev.PayerEmail)
		}
	})

	t.Run("Given subscription event Then period and interval are extracted", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_2",
			"type": "customer.subscription.updated",
			"created": 1769904000,
			"data": {"object": {
				"id": "sub_1",
				"status": "active",
				"current_period_start": 1769904000,
				"current_period_end": 1772582400,
				"items": {"data": [{"price": {"recurring": {"interval_count": 3}}}]}
			}}
		}`)
		ev, err := ParseEvent(body)
		if err != nil {
			t.Fatalf("ParseEvent failed: %v", err)
		}
		if ev.SubID != "sub_1" || ev.SubStatus != "active" {
			t.Errorf("unexpected subscription fields: %+v", ev)
		}
		if ev.PeriodStart != 1769904000 || ev.PeriodEnd != 1772582400 {
			t.Errorf("unexpected period: %d..%d", ev.PeriodStart, ev.PeriodEnd)
		}
		if ev.IntervalCount != 3 {
			t.Errorf("expected interval count 3, got %d", ev.IntervalCount)
		}
	})

	t.Run("Given subscription without items Then interval count defaults to 1", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_2",
			"type": "customer.subscription.deleted",
			"data": {"object": {"id": "sub_1", "status": "canceled"}}
		}`)
		ev, err := ParseEvent(body)
		if err != nil {
			t.Fatalf("ParseEvent failed: %v", err)
		}
		if ev.IntervalCount != 1 {
			t.Errorf("expected default interval count 1, got %d", ev.IntervalCount)
		}
	})

	t.Run("Given invoice event Then subscription linkage is extracted", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_3",
			"type": "invoice.payment_succeeded",
			"data": {"object": {"id": "in_1", "subscription": "sub_1", "customer_email": "payer@example.com"}}
		}`)
		ev, err := ParseEvent(body)
		if err != nil {
			t.Fatalf("ParseEvent failed: %v", err)
		}
		if ev.SubID != "sub_1" || ev.PayerEmail != "payer@example.com" {
			t.Errorf("unexpected invoice fields: %+v", ev)
		}
	})

	t.Run("Given missing created timestamp Then CreatedAt defaults to now", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_3",
			"type": "invoice.payment_failed",
			"data": {"object": {"id": "in_1", "subscription": "sub_1"}}
		}`)
		before := time.Now().UTC()
		ev, err := ParseEvent(body)
		if err != nil {
			t.Fatalf("ParseEvent failed: %v", err)
		}
		if ev.CreatedAt.Before(before) || ev.CreatedAt.After(time.Now().UTC().Add(time.Second)) {
			t.Errorf("expected CreatedAt near now, got %v", ev.CreatedAt)
		}
	})

	t.Run("Given unknown event type Then ErrUnknownEvent with parsed envelope", func(t *testing.T) {
		body := []byte(`{"id": "evt_4", "type": "charge.refunded", "data": {"object": {}}}`)
		ev, err := ParseEvent(body)
		if !errors.Is(err, ErrUnknownEvent) {
			t.Fatalf("expected ErrUnknownEvent, got %v", err)
		}
		if ev == nil || ev.Type != "charge.refunded" {
			t.Error("unknown events must still carry the envelope type")
		}
	})

	t.Run("Given malformed json Then error", func(t *testing.T) {
		if _, err := ParseEvent([]byte(`{not json`)); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("Given event without type Then error", func(t *testing.T) {
		if _, err := ParseEvent([]byte(`{"id":"evt_5"}`)); err == nil {
			t.Fatal("expected missing type error")
		}
	})

	t.Run("Raw carries the full original body", func(t *testing.T) {
		body := []byte(`{"id":"evt_6","type":"invoice.payment_succeeded","data":{"object":{"subscription":"sub_1"}}}`)
		ev, err := ParseEvent(body)
		if err != nil {
			t.Fatalf("ParseEvent failed: %v", err)
		}
		if string(ev.Raw) != string(body) {
			t.Error("Raw must be the unmodified body")
		}
	})
}
