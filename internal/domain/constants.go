package domain

// Order status values. Transitions are driven only by provider events; see
// service.ReconcileEngine.
const (
	OrderStatusCreated       = "created"
	OrderStatusPaid          = "paid"
	OrderStatusCancelled     = "cancelled"
	OrderStatusPaymentFailed = "payment_failed"
)

// Credit transaction types.
const (
	CreditsTransNewUser    = "new_user"
	CreditsTransOrderPay   = "order_pay"
	CreditsTransSubRenewal = "sub_renewal"
)

// Access decision codes returned by the gated resource endpoints.
const (
	AccessNotLoggedIn      = "not_logged_in"
	AccessGranted          = "has_access"
	AccessPurchaseRequired = "purchase_required"
	AccessUpgradeRequired  = "upgrade_required"
)

// Affiliate attribution status.
const (
	AffiliateStatusPending   = "pending"
	AffiliateStatusCompleted = "completed"
)

const (
	GuideStatusActive   = "active"
	GuideStatusInactive = "inactive"
)
