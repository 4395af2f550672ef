package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eurodash/eurodash/app/models"
)

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a purchase repository backed by GORM.
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// CreateIfNotExists inserts the purchase unless a row with the same payment
// intent id already exists. The unique index serializes concurrent creates at
// the storage layer; the caller learns via the bool whether its insert won.
func (r *purchaseRepository) CreateIfNotExists(purchase *models.Purchase) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "stripe_payment_intent_id"},
		},
		DoNothing: true,
	}).Create(purchase)
	if tx.Error != nil {
		return false, tx.Error
	}

	created := tx.RowsAffected > 0
	if !created && purchase.StripePaymentIntentID != nil {
		// Ensure ID reflects the winning row after a lost race.
		if err := r.db.Where("stripe_payment_intent_id = ?", *purchase.StripePaymentIntentID).
			First(purchase).Error; err != nil {
			return false, err
		}
	}
	return created, nil
}

func (r *purchaseRepository) GetByID(id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.First(&purchase, id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) GetByPaymentIntentID(paymentIntentID string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Where("stripe_payment_intent_id = ?", paymentIntentID).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) GetByUserID(userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepository) UpdateStatus(id uint, status string, purchasedAt *time.Time) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if purchasedAt != nil {
		updates["purchased_at"] = purchasedAt
	}
	return r.db.Model(&models.Purchase{}).Where("id = ?", id).Updates(updates).Error
}

func (r *purchaseRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).Count(&count).Error
	return count, err
}
