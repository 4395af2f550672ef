package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func newReportTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/report/download", HandleReportDownload)
	return app
}

func TestHandleReportDownload_MissingToken(t *testing.T) {
	app := newReportTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/report/download", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleReportDownload_UnknownToken(t *testing.T) {
	app := newReportTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/report/download?token=not-a-minted-token", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
