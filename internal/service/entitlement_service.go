package service

import (
	"travelkang/internal/domain"
	"travelkang/internal/models"
)

// EntitlementOrderStore is the read-only order access the resolver needs.
type EntitlementOrderStore interface {
	ListByUserUUID(userUUID string) ([]models.Order, error)
}

// EntitlementSnapshot is derived from the user's paid orders at call time.
// It is never cached: entitlement always reflects the latest reconciliation.
type EntitlementSnapshot struct {
	HasChatAccess      bool `json:"has_chat_access"`
	HasPDFBundle       bool `json:"has_pdf_bundle"`
	HasPremium         bool `json:"has_premium"`
	HasEssentialGuide  bool `json:"has_essential_guide"`
	HasCompletePackage bool `json:"has_complete_package"`
}

func (s EntitlementSnapshot) Has(ent domain.Entitlement) bool {
	switch ent {
	case domain.EntitlementChatAccess:
		return s.HasChatAccess
	case domain.EntitlementPDFBundle:
		return s.HasPDFBundle
	case domain.EntitlementPremium:
		return s.HasPremium
	case domain.EntitlementEssentialGuide:
		return s.HasEssentialGuide
	case domain.EntitlementCompletePackage:
		return s.HasCompletePackage
	}
	return false
}

// AnyPaid reports whether at least one entitlement is held; the gated
// handlers use it to distinguish "upgrade" from "purchase" denials.
func (s EntitlementSnapshot) AnyPaid() bool {
	return s.HasChatAccess || s.HasPDFBundle || s.HasPremium ||
		s.HasEssentialGuide || s.HasCompletePackage
}

type EntitlementResolver struct {
	orders EntitlementOrderStore
}

func NewEntitlementResolver(orders EntitlementOrderStore) *EntitlementResolver {
	return &EntitlementResolver{orders: orders}
}

// Resolve computes the snapshot from the user's order history. An empty uuid
// or a user with no orders yields an all-false snapshot, never an error.
func (r *EntitlementResolver) Resolve(userUUID string) (EntitlementSnapshot, error) {
	var snap EntitlementSnapshot
	if userUUID == "" {
		return snap, nil
	}
	orders, err := r.orders.ListByUserUUID(userUUID)
	if err != nil {
		return EntitlementSnapshot{}, err
	}
	for _, o := range orders {
		if o.Status != domain.OrderStatusPaid {
			continue
		}
		if domain.Grants(o.ProductID, domain.EntitlementChatAccess) {
			snap.HasChatAccess = true
		}
		if domain.Grants(o.ProductID, domain.EntitlementPDFBundle) {
			snap.HasPDFBundle = true
		}
		if domain.Grants(o.ProductID, domain.EntitlementPremium) {
			snap.HasPremium = true
		}
		if domain.Grants(o.ProductID, domain.EntitlementEssentialGuide) {
			snap.HasEssentialGuide = true
		}
		if domain.Grants(o.ProductID, domain.EntitlementCompletePackage) {
			snap.HasCompletePackage = true
		}
	}
	return snap, nil
}
