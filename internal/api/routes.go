package api

import (
	"github.com/gofiber/fiber/v3"
)

func SetupRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api")

	// Wiki generation task endpoints
	wiki := api.Group("/wiki")
	wiki.Post("/generate", h.GenerateWiki)
	wiki.Get("/status/:taskId", h.GetTaskStatus)
	wiki.Delete("/status/:taskId", h.DeleteTask)

	// Wiki cache endpoints
	api.Get("/wiki_cache", h.GetWikiCache)
	api.Post("/wiki_cache", h.UpdateWikiCache)

	// Local repository endpoints
	api.Get("/local_repo/structure", h.GetLocalRepoStructure)
}
