package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/FoxPay/app/controllers"
	"github.com/ManuelReschke/FoxPay/internal/pkg/billing"
	"github.com/ManuelReschke/FoxPay/internal/pkg/cache"
	"github.com/ManuelReschke/FoxPay/internal/pkg/database"
	"github.com/ManuelReschke/FoxPay/internal/pkg/env"
	"github.com/ManuelReschke/FoxPay/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	app := fiber.New(fiber.Config{
		AppName:   "FoxPay",
		BodyLimit: 1 << 20, // 1 MiB, JSON bodies only
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics, open in dev, basic auth everywhere else
	if env.IsDev() {
		app.Get("/metrics", monitor.New())
	} else {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
			},
		}), monitor.New())
	}

	// SWAGGER / OPENAPI
	if docsPath := findDocsFile(); docsPath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: docsPath,
			Path:     "v1",
		}))
	}

	// ROUTER
	cfg := billing.NewConfigFromEnv()
	gw := controllers.NewGateway(cfg, billing.NewServiceFromDB(database.GetDB()))
	router.InstallRouter(app, gw)

	return app
}

func findDocsFile() string {
	candidates := []string{
		"public/docs/v1/openapi.yml",
		"../../public/docs/v1/openapi.yml",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
