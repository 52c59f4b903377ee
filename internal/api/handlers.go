package api

import (
	"context"
	"log/slog"

	"github.com/dpolishuk/codewiki/backend/internal/cache"
	"github.com/dpolishuk/codewiki/backend/internal/config"
	"github.com/dpolishuk/codewiki/backend/internal/llm"
	"github.com/dpolishuk/codewiki/backend/internal/models"
	"github.com/dpolishuk/codewiki/backend/internal/repo"
	"github.com/dpolishuk/codewiki/backend/internal/task"
	"github.com/dpolishuk/codewiki/backend/internal/wiki"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type Handler struct {
	cfg           *config.Config
	tasks         task.Store
	cacheStore    cache.Store
	generator     *wiki.Generator
	localProvider repo.Provider
}

func NewHandler(cfg *config.Config, tasks task.Store, cacheStore cache.Store) *Handler {
	llmClient := llm.NewClient(cfg.LLMServerURL)
	return &Handler{
		cfg:           cfg,
		tasks:         tasks,
		cacheStore:    cacheStore,
		generator:     wiki.NewGenerator(tasks, cacheStore, llmClient, cfg.GithubAPIURL, cfg.LLMModel, cfg.PageConcurrency),
		localProvider: repo.NewLocalProvider(),
	}
}

// GenerateWiki accepts a generation request, creates the task record and
// schedules the background job. Never blocks on job completion.
func (h *Handler) GenerateWiki(c fiber.Ctx) error {
	var req models.WikiTaskRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Derive the identity from the URL when the caller did not supply one
	if req.RepoInfo.Type == "" {
		input := req.RepoURL
		if input == "" {
			input = req.RepoInfo.LocalPath
		}
		info := repo.ParseRepositoryInput(input)
		if info == nil {
			return c.Status(400).JSON(fiber.Map{"error": "unsupported repository format"})
		}
		req.RepoInfo = *info
	}
	if req.Owner == "" {
		req.Owner = req.RepoInfo.Owner
	}
	if req.Repo == "" {
		req.Repo = req.RepoInfo.Repo
	}
	if req.Owner == "" || req.Repo == "" {
		return c.Status(400).JSON(fiber.Map{"error": "owner and repo are required"})
	}

	taskID := uuid.New().String()
	h.tasks.Create(taskID, &models.GenerationTask{
		Status:   models.TaskStarted,
		Message:  "Generating wiki...",
		Progress: []string{},
	})

	go h.generator.Run(context.Background(), &req, taskID)

	return c.JSON(fiber.Map{"task_id": taskID})
}

// GetTaskStatus returns the current task record
func (h *Handler) GetTaskStatus(c fiber.Ctx) error {
	taskID := c.Params("taskId")

	record := h.tasks.Get(taskID)
	if record == nil {
		return c.Status(404).JSON(fiber.Map{"error": "task not found"})
	}
	return c.JSON(record)
}

// DeleteTask removes a task record
func (h *Handler) DeleteTask(c fiber.Ctx) error {
	h.tasks.Delete(c.Params("taskId"))
	return c.SendStatus(204)
}

// GetWikiCache returns the cached wiki for a repository, or JSON null when
// nothing usable is cached. Read failures degrade to a miss.
func (h *Handler) GetWikiCache(c fiber.Ctx) error {
	owner := c.Query("owner")
	repoName := c.Query("repo")
	repoType := c.Query("repo_type")
	if owner == "" || repoName == "" || repoType == "" {
		return c.Status(400).JSON(fiber.Map{"error": "owner, repo and repo_type are required"})
	}

	record, err := h.cacheStore.Read(c.Context(), owner, repoName, repoType)
	if err != nil {
		slog.Error("error reading wiki cache", "owner", owner, "repo", repoName, "error", err)
		record = nil
	}
	if record == nil {
		return c.JSON(nil)
	}
	return c.JSON(record)
}

// UpdateWikiCache overwrites the cached wiki for a repository
func (h *Handler) UpdateWikiCache(c fiber.Ctx) error {
	var record models.WikiCacheRecord
	if err := c.Bind().Body(&record); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if record.Owner == "" || record.Repo == "" || record.RepoType == "" {
		return c.Status(400).JSON(fiber.Map{"error": "owner, repo and repo_type are required"})
	}

	if err := h.cacheStore.Write(c.Context(), &record); err != nil {
		slog.Error("error writing wiki cache", "owner", record.Owner, "repo", record.Repo, "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update wiki cache"})
	}
	return c.JSON(fiber.Map{"message": "Wiki cache updated successfully."})
}

// GetLocalRepoStructure lists a local repository's files and README
func (h *Handler) GetLocalRepoStructure(c fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(400).JSON(fiber.Map{"error": "path is required"})
	}

	contents, err := h.localProvider.Fetch(c.Context(), &models.RepositoryInfo{
		Type:      models.RepoTypeLocal,
		LocalPath: path,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"file_tree": contents.FileTree(),
		"readme":    contents.Readme,
	})
}
