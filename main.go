package main

import (
	"fmt"
	"log"
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/eurodash/eurodash/app/repository"
	"github.com/eurodash/eurodash/internal/pkg/cache"
	"github.com/eurodash/eurodash/internal/pkg/dashboard"
	"github.com/eurodash/eurodash/internal/pkg/database"
	"github.com/eurodash/eurodash/internal/pkg/env"
	"github.com/eurodash/eurodash/internal/pkg/payment"
	"github.com/eurodash/eurodash/internal/pkg/router"
)

const portScanRange = 20

func main() {
	app := NewApplication()

	host := env.GetEnv("APP_HOST", "localhost")
	port, err := findAvailablePort(host, env.GetEnv("APP_PORT", "4000"))
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("listening on %s:%d", host, port)
	log.Fatal(app.Listen(fmt.Sprintf("%s:%d", host, port)))
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())
	cache.SetupCache()
	payment.Setup()
	dashboard.Setup(env.GetEnv("DASHBOARD_DATA_DIR", "./data"))

	app := fiber.New(fiber.Config{
		AppName: "eurodash",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}

// findAvailablePort probes the preferred port and walks upward until a free
// one is found. Dev machines often have the default port taken by a stale
// process; production sets APP_PORT explicitly and gets it or dies.
func findAvailablePort(host, preferred string) (int, error) {
	start, err := strconv.Atoi(preferred)
	if err != nil {
		return 0, fmt.Errorf("invalid APP_PORT %q: %w", preferred, err)
	}

	for port := start; port <= start+portScanRange; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
		if err != nil {
			continue
		}
		ln.Close()
		if port != start {
			log.Printf("port %d in use, falling back to %d", start, port)
		}
		return port, nil
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, start+portScanRange)
}
