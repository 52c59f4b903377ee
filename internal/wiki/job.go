package wiki

import (
	"context"
	"log/slog"
	"time"

	"github.com/dpolishuk/codewiki/backend/internal/cache"
	"github.com/dpolishuk/codewiki/backend/internal/llm"
	"github.com/dpolishuk/codewiki/backend/internal/models"
	"github.com/dpolishuk/codewiki/backend/internal/repo"
	"github.com/dpolishuk/codewiki/backend/internal/task"
)

const cacheWriteTimeout = 30 * time.Second

// Generator runs wiki generation jobs end to end: fetch repository contents,
// plan the structure, generate page content, persist the result. One job per
// submitted request; the job is the sole mutator of its task record.
type Generator struct {
	tasks         task.Store
	cacheStore    cache.Store
	llmClient     *llm.Client
	localProvider repo.Provider
	githubAPIURL  string
	model         string
	concurrency   int
}

func NewGenerator(tasks task.Store, cacheStore cache.Store, llmClient *llm.Client, githubAPIURL, model string, concurrency int) *Generator {
	return &Generator{
		tasks:         tasks,
		cacheStore:    cacheStore,
		llmClient:     llmClient,
		localProvider: repo.NewLocalProvider(),
		githubAPIURL:  githubAPIURL,
		model:         model,
		concurrency:   concurrency,
	}
}

// Run executes one generation job to its terminal state. Intended to be
// launched in a goroutine from the submission handler; it never returns an
// error, only records one on the task.
func (g *Generator) Run(ctx context.Context, req *models.WikiTaskRequest, taskID string) {
	if err := g.run(ctx, req, taskID); err != nil {
		slog.Error("wiki generation failed", "taskId", taskID, "error", err)
		g.tasks.Update(taskID, task.Update{
			Status: task.String(models.TaskError),
			Error:  task.String(err.Error()),
		})
	}
}

func (g *Generator) run(ctx context.Context, req *models.WikiTaskRequest, taskID string) error {
	g.updateStatus(taskID, models.TaskProcessing, "Fetching repository structure...")

	provider := g.provider(req)
	contents, err := provider.Fetch(ctx, &req.RepoInfo)
	if err != nil {
		return err
	}

	g.updateStatus(taskID, models.TaskProcessing, "Determining wiki structure...")

	planner := NewPlanner(g.llmClient, g.model)
	structure, err := planner.Plan(ctx, &req.RepoInfo, req.RepoURL, contents)
	if err != nil {
		return err
	}

	// Publish the outline before any content exists so pollers can render it.
	// The copy must be deep: the scheduler's workers mutate the structure's
	// pages while pollers serialize this result.
	g.tasks.Update(taskID, task.Update{
		Status:  task.String(models.TaskProcessing),
		Message: task.String("Wiki structure determined successfully."),
		Result: &models.WikiCacheData{
			WikiStructure:  structure.Clone(),
			GeneratedPages: map[string]models.WikiPage{},
		},
	})

	pages := make([]*models.WikiPage, len(structure.Pages))
	for i := range structure.Pages {
		pages[i] = &structure.Pages[i]
	}

	generator := NewPageGenerator(g.llmClient, g.model, req.RepoURL, req.RepoInfo.Type)
	scheduler := NewScheduler(generator, g.concurrency)
	generated := scheduler.Run(ctx, pages, func(inProgress []string, message string) {
		g.tasks.Update(taskID, task.Update{
			Status:   task.String(models.TaskProcessing),
			Message:  task.String(message),
			Progress: inProgress,
		})
	})

	generatedPages := make(map[string]models.WikiPage, len(generated))
	for id, page := range generated {
		generatedPages[id] = *page
	}
	result := &models.WikiCacheData{
		WikiStructure:  *structure,
		GeneratedPages: generatedPages,
	}

	g.saveToCache(req, result)

	// Page failures are soft: the job still succeeds with whatever content
	// was produced
	g.tasks.Update(taskID, task.Update{
		Status:   task.String(models.TaskSuccess),
		Message:  task.String("Wiki generation completed successfully."),
		Progress: []string{},
		Result:   result,
	})
	return nil
}

func (g *Generator) provider(req *models.WikiTaskRequest) repo.Provider {
	if req.RepoInfo.Type == models.RepoTypeLocal {
		return g.localProvider
	}
	return repo.NewGitHubProvider(g.githubAPIURL, req.Token)
}

// saveToCache writes the finished wiki, detached from the job's context so a
// cancelled job cannot corrupt a write already underway. Cache errors are
// logged and swallowed.
func (g *Generator) saveToCache(req *models.WikiTaskRequest, result *models.WikiCacheData) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
	defer cancel()

	record := &models.WikiCacheRecord{
		Owner:         req.Owner,
		Repo:          req.Repo,
		RepoType:      req.RepoInfo.Type,
		WikiCacheData: *result,
	}
	if err := g.cacheStore.Write(ctx, record); err != nil {
		slog.Error("error saving wiki data to cache", "error", err)
		return
	}
	slog.Info("wiki data saved to cache", "owner", req.Owner, "repo", req.Repo)
}

func (g *Generator) updateStatus(taskID, status, message string) {
	g.tasks.Update(taskID, task.Update{
		Status:  task.String(status),
		Message: task.String(message),
	})
}
