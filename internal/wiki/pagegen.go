package wiki

import (
	"context"
	"fmt"
	"strings"

	"github.com/dpolishuk/codewiki/backend/internal/llm"
	"github.com/dpolishuk/codewiki/backend/internal/models"
)

// ContentGenerator produces markdown content for a single page
type ContentGenerator interface {
	Generate(ctx context.Context, page *models.WikiPage) (string, error)
}

// PageGenerator obtains page content from the generation backend. It is bound
// to one repository for the lifetime of a generation job.
type PageGenerator struct {
	client   *llm.Client
	model    string
	repoURL  string
	repoType string
}

func NewPageGenerator(client *llm.Client, model, repoURL, repoType string) *PageGenerator {
	return &PageGenerator{
		client:   client,
		model:    model,
		repoURL:  repoURL,
		repoType: repoType,
	}
}

// Generate returns the trimmed markdown for the page. The markdown itself is
// opaque here: no structural validation beyond the transport succeeding.
func (g *PageGenerator) Generate(ctx context.Context, page *models.WikiPage) (string, error) {
	response, err := g.client.Ask(ctx, &llm.Request{
		Type:     g.repoType,
		Messages: []llm.Message{{Role: "user", Content: buildPagePrompt(page)}},
		RepoURL:  g.repoURL,
		Model:    g.model,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content for page %s: %w", page.ID, err)
	}

	return strings.TrimSpace(response), nil
}
