package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/finsightlabs/finsight/app/repository"
	"github.com/finsightlabs/finsight/internal/pkg/cache"
	"github.com/finsightlabs/finsight/internal/pkg/database"
	"github.com/finsightlabs/finsight/internal/pkg/env"
	"github.com/finsightlabs/finsight/internal/pkg/router"
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
	repository.InitializeFactory(database.GetDB())

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/finsight to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		Views: html.New(basePath+"views", ".html"),
	})

	// ignore and cache favicon
	app.Use(favicon.New(favicon.Config{
		File:         basePath + "public/assets/icons/favicon.ico",
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// static files
	app.Static("/static", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}
