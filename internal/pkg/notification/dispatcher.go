package notification

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eurodash/eurodash/app/models"
	"github.com/eurodash/eurodash/internal/pkg/cache"
	"github.com/eurodash/eurodash/internal/pkg/env"
	"github.com/eurodash/eurodash/internal/pkg/mail"
)

// reportTokenTTL bounds how long a minted report download link stays valid.
const reportTokenTTL = 24 * time.Hour

// ReportTokenCacheKey is the cache key under which a minted report download
// token is stored. The download handler resolves tokens through it.
func ReportTokenCacheKey(token string) string {
	return "report_token:" + token
}

// Dispatcher sends best-effort payment lifecycle notifications. Every send
// swallows its errors: callers get a success flag and must never fail a
// payment state transition because a notification did not go out.
type Dispatcher struct {
	db *gorm.DB
}

// NewDispatcher creates a dispatcher writing in-app notifications to db.
// A nil db skips the in-app rows and only sends mail.
func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{db: db}
}

// SendPaymentConfirmation mails the purchase confirmation to the user.
func (d *Dispatcher) SendPaymentConfirmation(user *models.User, purchase *models.Purchase) bool {
	subject := "Payment Confirmation - Eurostat Economic Dashboard"
	body := confirmationBody(user.Name, purchase)
	return d.deliver(user, purchase, models.NotificationTypePaymentConfirmation, subject, body)
}

// SendReportDelivery mails the premium report download link. The link carries
// a download token stored in the cache for 24 hours.
func (d *Dispatcher) SendReportDelivery(user *models.User, purchase *models.Purchase) bool {
	token := uuid.NewString()
	if err := cache.Set(ReportTokenCacheKey(token), fmt.Sprintf("%d", purchase.ID), reportTokenTTL); err != nil {
		log.Printf("[Notification] Failed to store report token for purchase %d: %v", purchase.ID, err)
		return false
	}

	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	reportURL := fmt.Sprintf("%s/report/download?token=%s", base, token)

	subject := "Premium Analysis Report - Eurostat Economic Dashboard"
	body := deliveryBody(user.Name, reportURL)
	return d.deliver(user, purchase, models.NotificationTypeReportDelivery, subject, body)
}

// SendPaymentReceipt mails the receipt for a completed purchase.
func (d *Dispatcher) SendPaymentReceipt(user *models.User, purchase *models.Purchase) bool {
	subject := "Receipt - Eurostat Economic Dashboard"
	body := receiptBody(user.Name, purchase)
	return d.deliver(user, purchase, models.NotificationTypePaymentReceipt, subject, body)
}

func (d *Dispatcher) deliver(user *models.User, purchase *models.Purchase, notificationType, subject, body string) bool {
	if user == nil || user.Email == "" {
		log.Printf("[Notification] No email on file for user, skipping %s", notificationType)
		return false
	}

	if err := mail.SendMail(user.Email, subject, body); err != nil {
		log.Printf("[Notification] Failed to send %s to %s: %v", notificationType, user.Email, err)
		return false
	}

	if d.db != nil {
		if err := models.CreateNotification(d.db, user.ID, notificationType, subject, purchase.ID); err != nil {
			// In-app copy is an extra; the mail already went out.
			log.Printf("[Notification] Failed to record %s for user %d: %v", notificationType, user.ID, err)
		}
	}
	return true
}

func confirmationBody(name string, purchase *models.Purchase) string {
	return fmt.Sprintf(`Dear %s,

Thank you for your purchase.

Product: %s
Amount: %s
Payment status: completed

The premium analysis report will be delivered in a separate email.

---
Eurostat Economic Dashboard`, displayName(name), purchase.ProductName, FormatAmount(purchase.Amount, purchase.Currency))
}

func deliveryBody(name, reportURL string) string {
	return fmt.Sprintf(`Dear %s,

Your premium analysis report is ready.

Format: PDF
Download: %s

This link is valid for 24 hours.

---
Eurostat Economic Dashboard`, displayName(name), reportURL)
}

func receiptBody(name string, purchase *models.Purchase) string {
	transactionID := ""
	if purchase.StripePaymentIntentID != nil {
		transactionID = *purchase.StripePaymentIntentID
	}
	purchasedAt := ""
	if purchase.PurchasedAt != nil {
		purchasedAt = purchase.PurchasedAt.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf(`Dear %s,

Thank you for your purchase. Please keep this receipt for your records.

Product: %s
Amount: %s
Transaction ID: %s
Purchase date: %s

---
Eurostat Economic Dashboard`, displayName(name), purchase.ProductName, FormatAmount(purchase.Amount, purchase.Currency), transactionID, purchasedAt)
}

// FormatAmount renders minor currency units as a human-readable amount.
func FormatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%s %.2f", strings.ToUpper(currency), float64(amount)/100)
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Customer"
	}
	return name
}
