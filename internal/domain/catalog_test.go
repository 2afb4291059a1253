package domain

import "testing"

func TestGrants(t *testing.T) {
	cases := []struct {
		product ProductID
		ent     Entitlement
		want    bool
	}{
		{ProductPDFBundle, EntitlementPDFBundle, true},
		{ProductPDFBundle, EntitlementChatAccess, false},
		{ProductChatbotAccess, EntitlementChatAccess, true},
		{ProductChatbotAccess, EntitlementPDFBundle, false},
		{ProductPremium, EntitlementPremium, true},
		{ProductPremium, EntitlementChatAccess, true},
		{ProductPremium, EntitlementPDFBundle, true},
		{ProductPremium, EntitlementEssentialGuide, false},
		{ProductEssentialGuide, EntitlementEssentialGuide, true},
		{ProductEssentialGuide, EntitlementPremium, false},
		{ProductCompletePackage, EntitlementCompletePackage, true},
		{ProductCompletePackage, EntitlementChatAccess, true},
		{ProductCompletePackage, EntitlementPDFBundle, true},
		{ProductCompletePackage, EntitlementEssentialGuide, true},
		{ProductCompletePackage, EntitlementPremium, false},
		{ProductID("unknown"), EntitlementChatAccess, false},
	}
	for _, tc := range cases {
		if got := Grants(tc.product, tc.ent); got != tc.want {
			t.Errorf("Grants(%s, %s) = %v, want %v", tc.product, tc.ent, got, tc.want)
		}
	}
}

func TestFindProduct(t *testing.T) {
	p, ok := FindProduct(ProductCompletePackage)
	if !ok {
		t.Fatal("complete package must exist")
	}
	if p.Credits != 100 {
		t.Errorf("expected 100 bundled credits, got %d", p.Credits)
	}
	if _, ok := FindProduct("nope"); ok {
		t.Error("unknown product must not resolve")
	}
}

func TestCatalogList(t *testing.T) {
	list := CatalogList()
	if len(list) != len(Catalog) {
		t.Fatalf("expected %d products, got %d", len(Catalog), len(list))
	}
	seen := map[ProductID]bool{}
	for _, p := range list {
		if seen[p.ID] {
			t.Errorf("duplicate product %s", p.ID)
		}
		seen[p.ID] = true
		if p.AmountCents <= 0 {
			t.Errorf("product %s has no price", p.ID)
		}
		if p.Interval != "one-time" && p.Interval != "month" {
			t.Errorf("product %s has invalid interval %q", p.ID, p.Interval)
		}
	}
}
