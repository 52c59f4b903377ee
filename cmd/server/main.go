package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dpolishuk/codewiki/backend/internal/api"
	"github.com/dpolishuk/codewiki/backend/internal/cache"
	"github.com/dpolishuk/codewiki/backend/internal/config"
	"github.com/dpolishuk/codewiki/backend/internal/task"
	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cacheStore, err := newCacheStore(cfg)
	if err != nil {
		log.Fatalf("failed to initialize cache store: %v", err)
	}

	h := api.NewHandler(cfg, task.NewMemoryStore(), cacheStore)

	app := fiber.New(fiber.Config{
		AppName: "CodeWiki API",
	})

	// Health check
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "codewiki-backend",
		})
	})

	api.SetupRoutes(app, h)

	log.Printf("Starting CodeWiki backend on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

func newCacheStore(cfg *config.Config) (cache.Store, error) {
	if cfg.CacheBackend == "neo4j" {
		return cache.NewNeo4jStore(context.Background(), cache.Neo4jConfig{
			URI:      cfg.Neo4jURI,
			Username: cfg.Neo4jUser,
			Password: cfg.Neo4jPass,
		})
	}
	return cache.NewFileStore(cfg.CacheDir), nil
}
