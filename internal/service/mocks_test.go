package service

import (
	"errors"
	"sync"
	"time"

	"travelkang/internal/models"
	"travelkang/internal/repository"
)

// Common test errors
var (
	ErrMockStore  = errors.New("mock store error")
	ErrMockLedger = errors.New("mock ledger error")
)

// MockOrderStore is an in-memory ReconcileOrderStore and
// EntitlementOrderStore. Its conditional updates replicate the WHERE-clause
// preconditions of the real repository, so idempotency and staleness tests
// exercise the same guards production relies on.
type MockOrderStore struct {
	mu     sync.Mutex
	Orders map[string]*models.Order // keyed by order_no

	FailGet   bool
	FailApply bool
}

func NewMockOrderStore(orders ...*models.Order) *MockOrderStore {
	s := &MockOrderStore{Orders: make(map[string]*models.Order)}
	for _, o := range orders {
		s.Orders[o.OrderNo] = o
	}
	return s
}

func (s *MockOrderStore) GetByOrderNo(orderNo string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGet {
		return nil, ErrMockStore
	}
	o, ok := s.Orders[orderNo]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (s *MockOrderStore) ListBySubID(subID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGet {
		return nil, ErrMockStore
	}
	var out []models.Order
	for _, o := range s.Orders {
		if o.SubID != nil && *o.SubID == subID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *MockOrderStore) ListByUserUUID(userUUID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGet {
		return nil, ErrMockStore
	}
	var out []models.Order
	for _, o := range s.Orders {
		if o.UserUUID == userUUID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *MockOrderStore) SetSubscriptionID(orderNo, subID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.Orders[orderNo]; ok {
		sid := subID
		o.SubID = &sid
	}
	return nil
}

func (s *MockOrderStore) MarkPaidFromCreated(orderNo string, paidAt time.Time, paidEmail, paidDetail string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailApply {
		return false, ErrMockStore
	}
	o, ok := s.Orders[orderNo]
	if !ok || o.Status != "created" {
		return false, nil
	}
	o.Status = "paid"
	at := paidAt
	o.PaidAt = &at
	o.PaidEmail = paidEmail
	o.PaidDetail = paidDetail
	o.LastEventAt = &at
	return true, nil
}

func (s *MockOrderStore) ApplyStatus(orderNo, status string, paidAt time.Time, paidEmail, paidDetail string, eventAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailApply {
		return false, ErrMockStore
	}
	o, ok := s.Orders[orderNo]
	if !ok || (o.LastEventAt != nil && o.LastEventAt.After(eventAt)) {
		return false, nil
	}
	o.Status = status
	at := paidAt
	o.PaidAt = &at
	o.PaidEmail = paidEmail
	o.PaidDetail = paidDetail
	ea := eventAt
	o.LastEventAt = &ea
	return true, nil
}

func (s *MockOrderStore) ApplySubscription(orderNo string, patch repository.SubscriptionPatch, eventAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailApply {
		return false, ErrMockStore
	}
	o, ok := s.Orders[orderNo]
	if !ok || (o.LastEventAt != nil && o.LastEventAt.After(eventAt)) {
		return false, nil
	}
	sid := patch.SubID
	o.SubID = &sid
	o.SubIntervalCount = patch.IntervalCount
	o.SubCycleAnchor = patch.CycleAnchor
	o.SubPeriodStart = patch.PeriodStart
	o.SubPeriodEnd = patch.PeriodEnd
	o.SubTimes = patch.SubTimes
	o.Status = patch.Status
	at := patch.PaidAt
	o.PaidAt = &at
	o.PaidEmail = patch.PaidEmail
	o.PaidDetail = patch.PaidDetail
	ea := eventAt
	o.LastEventAt = &ea
	return true, nil
}

// Status returns the current status of an order, for assertions.
func (s *MockOrderStore) Status(orderNo string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.Orders[orderNo]; ok {
		return o.Status
	}
	return ""
}

// MockCreditLedger records grants.
type MockCreditLedger struct {
	mu     sync.Mutex
	Grants []struct {
		OrderNo   string
		TransType string
		Credits   int
	}
	Fail bool
}

func (m *MockCreditLedger) GrantForOrder(order *models.Order, transType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrMockLedger
	}
	m.Grants = append(m.Grants, struct {
		OrderNo   string
		TransType string
		Credits   int
	}{order.OrderNo, transType, order.Credits})
	return nil
}

func (m *MockCreditLedger) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Grants)
}

// MockAffiliateUpdater records attributions.
type MockAffiliateUpdater struct {
	mu       sync.Mutex
	OrderNos []string
	Fail     bool
}

func (m *MockAffiliateUpdater) AttributePaidOrder(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrMockLedger
	}
	m.OrderNos = append(m.OrderNos, order.OrderNo)
	return nil
}

func (m *MockAffiliateUpdater) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.OrderNos)
}
