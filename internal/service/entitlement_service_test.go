package service

import (
	"testing"

	"travelkang/internal/domain"
	"travelkang/internal/models"
)

func TestEntitlementResolver_Resolve(t *testing.T) {
	t.Run("Given anonymous caller Then snapshot is empty", func(t *testing.T) {
		resolver := NewEntitlementResolver(NewMockOrderStore())
		snap, err := resolver.Resolve("")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if snap.AnyPaid() {
			t.Error("anonymous caller must hold nothing")
		}
	})

	t.Run("Given user with no orders Then snapshot is empty", func(t *testing.T) {
		resolver := NewEntitlementResolver(NewMockOrderStore())
		snap, err := resolver.Resolve("user-1")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if snap.AnyPaid() {
			t.Error("user without orders must hold nothing")
		}
	})

	t.Run("Given paid chatbot order Then only chat access is held", func(t *testing.T) {
		resolver := NewEntitlementResolver(NewMockOrderStore(&models.Order{
			OrderNo: "ord-1", UserUUID: "user-1",
			ProductID: domain.ProductChatbotAccess, Status: domain.OrderStatusPaid,
		}))
		snap, err := resolver.Resolve("user-1")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !snap.HasChatAccess {
			t.Error("expected chat access")
		}
		if snap.HasPDFBundle || snap.HasPremium || snap.HasEssentialGuide || snap.HasCompletePackage {
			t.Errorf("unexpected extra entitlements: %+v", snap)
		}
	})

	t.Run("Given paid premium order Then chat and pdf bundle are implied", func(t *testing.T) {
		resolver := NewEntitlementResolver(NewMockOrderStore(&models.Order{
			OrderNo: "ord-1", UserUUID: "user-1",
			ProductID: domain.ProductPremium, Status: domain.OrderStatusPaid,
		}))
		snap, err := resolver.Resolve("user-1")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !snap.HasPremium || !snap.HasChatAccess || !snap.HasPDFBundle {
			t.Errorf("premium must imply chat and pdf, got %+v", snap)
		}
		if snap.HasEssentialGuide || snap.HasCompletePackage {
			t.Errorf("premium must not imply guide or complete package, got %+v", snap)
		}
	})

	t.Run("Given paid complete package Then everything is implied", func(t *testing.T) {
		resolver := NewEntitlementResolver(NewMockOrderStore(&models.Order{
			OrderNo: "ord-1", UserUUID: "user-1",
			ProductID: domain.ProductCompletePackage, Status: domain.OrderStatusPaid,
		}))
		snap, err := resolver.Resolve("user-1")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !snap.HasCompletePackage || !snap.HasChatAccess || !snap.HasPDFBundle || !snap.HasEssentialGuide {
			t.Errorf("complete package must imply everything, got %+v", snap)
		}
	})

	t.Run("Given cancelled order Then it grants nothing", func(t *testing.T) {
		resolver := NewEntitlementResolver(NewMockOrderStore(&models.Order{
			OrderNo: "ord-1", UserUUID: "user-1",
			ProductID: domain.ProductChatbotAccess, Status: domain.OrderStatusCancelled,
		}))
		snap, err := resolver.Resolve("user-1")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if snap.AnyPaid() {
			t.Errorf("cancelled order must not grant, got %+v", snap)
		}
	})

	t.Run("Given payment_failed and created orders Then they grant nothing", func(t *testing.T) {
		resolver := NewEntitlementResolver(NewMockOrderStore(
			&models.Order{OrderNo: "ord-1", UserUUID: "user-1", ProductID: domain.ProductPremium, Status: domain.OrderStatusPaymentFailed},
			&models.Order{OrderNo: "ord-2", UserUUID: "user-1", ProductID: domain.ProductPDFBundle, Status: domain.OrderStatusCreated},
		))
		snap, err := resolver.Resolve("user-1")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if snap.AnyPaid() {
			t.Errorf("non-paid orders must not grant, got %+v", snap)
		}
	})

	t.Run("Given mixed paid orders Then entitlements union", func(t *testing.T) {
		resolver := NewEntitlementResolver(NewMockOrderStore(
			&models.Order{OrderNo: "ord-1", UserUUID: "user-1", ProductID: domain.ProductEssentialGuide, Status: domain.OrderStatusPaid},
			&models.Order{OrderNo: "ord-2", UserUUID: "user-1", ProductID: domain.ProductChatbotAccess, Status: domain.OrderStatusPaid},
			&models.Order{OrderNo: "ord-3", UserUUID: "user-2", ProductID: domain.ProductPremium, Status: domain.OrderStatusPaid},
		))
		snap, err := resolver.Resolve("user-1")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !snap.HasEssentialGuide || !snap.HasChatAccess {
			t.Errorf("expected union of owned products, got %+v", snap)
		}
		if snap.HasPremium {
			t.Error("another user's premium must not leak")
		}
	})

	t.Run("Given cancelled subscription after lapse Then access is gone on next resolve", func(t *testing.T) {
		store := NewMockOrderStore(&models.Order{
			OrderNo: "ord-1", UserUUID: "user-1",
			ProductID: domain.ProductChatbotAccess, Status: domain.OrderStatusPaid,
		})
		resolver := NewEntitlementResolver(store)

		snap, _ := resolver.Resolve("user-1")
		if !snap.HasChatAccess {
			t.Fatal("expected chat access while paid")
		}

		store.Orders["ord-1"].Status = domain.OrderStatusCancelled
		snap, _ = resolver.Resolve("user-1")
		if snap.HasChatAccess {
			t.Error("snapshot is never cached; cancellation must take effect immediately")
		}
	})
}
