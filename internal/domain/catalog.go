package domain

// ProductID is a closed catalog key. Adding a product means adding it here and
// deciding its entitlement implications below.
type ProductID string

const (
	ProductPDFBundle       ProductID = "pdf_bundle"
	ProductChatbotAccess   ProductID = "chatbot_access"
	ProductPremium         ProductID = "premium"
	ProductEssentialGuide  ProductID = "essential_guide"
	ProductCompletePackage ProductID = "complete_package"
)

// Entitlement is a feature-access right derived from paid order history.
type Entitlement string

const (
	EntitlementChatAccess      Entitlement = "chat_access"
	EntitlementPDFBundle       Entitlement = "pdf_bundle"
	EntitlementPremium         Entitlement = "premium"
	EntitlementEssentialGuide  Entitlement = "essential_guide"
	EntitlementCompletePackage Entitlement = "complete_package"
)

// Product describes a purchasable catalog entry.
type Product struct {
	ID          ProductID `json:"id"`
	Name        string    `json:"name"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Interval    string    `json:"interval"` // "one-time" or "month"
	Credits     int       `json:"credits"`
	ValidMonths int       `json:"valid_months"`
}

// Catalog mirrors the products page. AmountCents is the USD checkout price.
var Catalog = map[ProductID]Product{
	ProductPDFBundle: {
		ID:          ProductPDFBundle,
		Name:        "PDF Travel Guide Bundle",
		AmountCents: 2900,
		Currency:    "USD",
		Interval:    "one-time",
		Credits:     0,
		ValidMonths: 12,
	},
	ProductChatbotAccess: {
		ID:          ProductChatbotAccess,
		Name:        "AI Travel Assistant",
		AmountCents: 1900,
		Currency:    "USD",
		Interval:    "month",
		Credits:     0,
		ValidMonths: 1,
	},
	ProductPremium: {
		ID:          ProductPremium,
		Name:        "Premium Package",
		AmountCents: 3900,
		Currency:    "USD",
		Interval:    "one-time",
		Credits:     0,
		ValidMonths: 12,
	},
	ProductEssentialGuide: {
		ID:          ProductEssentialGuide,
		Name:        "Essential China Guide",
		AmountCents: 1500,
		Currency:    "USD",
		Interval:    "one-time",
		Credits:     0,
		ValidMonths: 12,
	},
	ProductCompletePackage: {
		ID:          ProductCompletePackage,
		Name:        "Complete Travel Package",
		AmountCents: 5900,
		Currency:    "USD",
		Interval:    "one-time",
		Credits:     100,
		ValidMonths: 12,
	},
}

// implications maps each product to every entitlement it grants. Premium is a
// superset of chat access and the PDF bundle; the complete package is a
// superset of everything.
var implications = map[ProductID][]Entitlement{
	ProductPDFBundle:      {EntitlementPDFBundle},
	ProductChatbotAccess:  {EntitlementChatAccess},
	ProductPremium:        {EntitlementPremium, EntitlementChatAccess, EntitlementPDFBundle},
	ProductEssentialGuide: {EntitlementEssentialGuide},
	ProductCompletePackage: {
		EntitlementCompletePackage,
		EntitlementChatAccess,
		EntitlementPDFBundle,
		EntitlementEssentialGuide,
	},
}

// catalogOrder fixes the listing order shown on the products page.
var catalogOrder = []ProductID{
	ProductEssentialGuide,
	ProductChatbotAccess,
	ProductPDFBundle,
	ProductPremium,
	ProductCompletePackage,
}

// CatalogList returns the catalog in display order.
func CatalogList() []Product {
	out := make([]Product, 0, len(catalogOrder))
	for _, id := range catalogOrder {
		out = append(out, Catalog[id])
	}
	return out
}

// FindProduct returns the catalog entry for id.
func FindProduct(id ProductID) (Product, bool) {
	p, ok := Catalog[id]
	return p, ok
}

// Grants reports whether a paid order for product grants ent.
func Grants(product ProductID, ent Entitlement) bool {
	for _, e := range implications[product] {
		if e == ent {
			return true
		}
	}
	return false
}
