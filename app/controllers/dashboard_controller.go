package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eurodash/eurodash/internal/pkg/dashboard"
)

// HandleGetEconomicData returns every pre-generated indicator record.
func HandleGetEconomicData(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(dashboard.GetStore().AllEconomicData())
}

// HandleGetCountryData returns indicator records for one country code.
func HandleGetCountryData(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "country code is required",
		})
	}
	data := dashboard.GetStore().EconomicDataByCountry(code)
	if data == nil {
		data = []dashboard.EconomicRecord{}
	}
	return c.Status(fiber.StatusOK).JSON(data)
}

// HandleGetIndicatorData returns records for one indicator code.
func HandleGetIndicatorData(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "indicator code is required",
		})
	}
	data := dashboard.GetStore().EconomicDataByIndicator(code)
	if data == nil {
		data = []dashboard.EconomicRecord{}
	}
	return c.Status(fiber.StatusOK).JSON(data)
}

// HandleGetAnalysisResults returns AI commentary, optionally filtered by
// analysis type and target code.
func HandleGetAnalysisResults(c *fiber.Ctx) error {
	results := dashboard.GetStore().AnalysisResults(c.Query("type"), c.Query("target"))
	if results == nil {
		results = []dashboard.AnalysisResult{}
	}
	return c.Status(fiber.StatusOK).JSON(results)
}
