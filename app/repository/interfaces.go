package repository

import (
	"time"

	"github.com/eurodash/eurodash/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByOpenID(openID string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	TouchLastSignedIn(id uint) error
}

// PurchaseRepository defines the interface for purchase persistence. These two
// mutation paths (create, update-status) are the only code allowed to write
// purchase rows.
type PurchaseRepository interface {
	CreateIfNotExists(purchase *models.Purchase) (bool, error)
	GetByID(id uint) (*models.Purchase, error)
	GetByPaymentIntentID(paymentIntentID string) (*models.Purchase, error)
	GetByUserID(userID uint) ([]models.Purchase, error)
	UpdateStatus(id uint, status string, purchasedAt *time.Time) error
	Count() (int64, error)
}

// WebhookEventRepository persists processor webhook deliveries for audit and
// event-level deduplication.
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
}

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Purchase     PurchaseRepository
	WebhookEvent WebhookEventRepository
}
