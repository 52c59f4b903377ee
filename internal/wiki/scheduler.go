package wiki

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dpolishuk/codewiki/backend/internal/models"
	"github.com/sourcegraph/conc/pool"
)

// ProgressFunc receives the ids of pages still being generated and a
// human-readable message. It is the only externally observable progress
// signal while pages are generated.
type ProgressFunc func(inProgress []string, message string)

// Scheduler drains all pending pages through a content generator with
// bounded concurrency. Page failures are isolated: a failed page keeps empty
// content and the run carries on.
type Scheduler struct {
	generator   ContentGenerator
	concurrency int
}

// NewScheduler builds a scheduler. Concurrency defaults to 1, deliberately
// low to respect backend rate limits.
func NewScheduler(generator ContentGenerator, concurrency int) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{generator: generator, concurrency: concurrency}
}

// Run generates content for every page, mutating the pages in place, and
// returns all pages keyed by id. It never fails as a whole: by the time it
// returns, every page either has content or was logged as failed.
func (s *Scheduler) Run(ctx context.Context, pages []*models.WikiPage, onProgress ProgressFunc) map[string]*models.WikiPage {
	results := make(map[string]*models.WikiPage, len(pages))
	if len(pages) == 0 {
		return results
	}

	var mu sync.Mutex
	inProgress := make(map[string]bool, len(pages))
	for _, page := range pages {
		inProgress[page.ID] = true
	}

	// Snapshot in input order so pollers see a stable list
	snapshot := func() []string {
		ids := make([]string, 0, len(inProgress))
		for _, page := range pages {
			if inProgress[page.ID] {
				ids = append(ids, page.ID)
			}
		}
		return ids
	}

	slog.Info("starting page content generation", "pages", len(pages), "concurrency", s.concurrency)

	workers := pool.New().WithMaxGoroutines(s.concurrency)
	for _, page := range pages {
		page := page
		workers.Go(func() {
			mu.Lock()
			ids := snapshot()
			mu.Unlock()
			onProgress(ids, fmt.Sprintf("Generating content for %s.", page.Title))

			content, err := s.generator.Generate(ctx, page)

			mu.Lock()
			if err != nil {
				slog.Error("error generating page content", "page", page.ID, "title", page.Title, "error", err)
			} else {
				page.Content = content
			}
			delete(inProgress, page.ID)
			ids = snapshot()
			mu.Unlock()
			onProgress(ids, fmt.Sprintf("Finished generating content for %s.", page.Title))
		})
	}

	// Join: every queued page has been processed before workers are released
	workers.Wait()

	for _, page := range pages {
		results[page.ID] = page
	}

	slog.Info("page content generation completed", "pages", len(results))
	return results
}
