package models

import "time"

const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
	PurchaseStatusRefunded  = "refunded"
)

// Purchase records one paid (or in-flight) order of a catalog product. At most
// one row exists per Stripe payment intent id; the unique index is the
// idempotency key for webhook reconciliation. Rows are never deleted, and only
// the repository's create/update-status operations may mutate them.
type Purchase struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	UserID                uint       `gorm:"not null;index" json:"user_id"`
	StripePaymentIntentID *string    `gorm:"type:varchar(191);uniqueIndex:ux_purchases_payment_intent" json:"stripe_payment_intent_id"`
	StripeCustomerID      string     `gorm:"type:varchar(191)" json:"stripe_customer_id"`
	ProductName           string     `gorm:"type:varchar(255);not null" json:"product_name"`
	Amount                int64      `gorm:"not null" json:"amount"` // minor currency units
	Currency              string     `gorm:"type:varchar(3);not null" json:"currency"`
	Status                string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PurchasedAt           *time.Time `gorm:"type:timestamp;default:null" json:"purchased_at,omitempty"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsCompleted reports whether payment has been confirmed by the processor.
func (p *Purchase) IsCompleted() bool {
	return p.Status == PurchaseStatusCompleted
}
