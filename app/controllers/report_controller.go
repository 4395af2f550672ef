package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/eurodash/eurodash/app/repository"
	"github.com/eurodash/eurodash/internal/pkg/cache"
	"github.com/eurodash/eurodash/internal/pkg/notification"
)

// HandleReportDownload resolves a mailed report download token and redirects
// to the premium report page. The token is the only credential; the links are
// delivered by mail and expire with their cache entry.
func HandleReportDownload(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "token is required",
		})
	}

	expired := func() error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "download link is invalid or has expired",
		})
	}

	val, err := cache.Get(notification.ReportTokenCacheKey(token))
	if err != nil || val == "" {
		return expired()
	}
	purchaseID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return expired()
	}

	purchase, err := repository.GetGlobalFactory().GetPurchaseRepository().GetByID(uint(purchaseID))
	if err != nil || !purchase.IsCompleted() {
		return expired()
	}

	return c.Redirect("/premium-report", fiber.StatusSeeOther)
}
