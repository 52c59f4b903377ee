package repo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dpolishuk/codewiki/backend/internal/models"
)

// Branch candidates tried in order when listing the repository tree
var defaultBranches = []string{"main", "master"}

// GitHubProvider fetches the file listing and README through the GitHub
// REST API.
type GitHubProvider struct {
	apiBase    string
	token      string
	httpClient *http.Client
}

func NewGitHubProvider(apiBase, token string) *GitHubProvider {
	return &GitHubProvider{
		apiBase: apiBase,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

type treeResponse struct {
	Tree []treeEntry `json:"tree"`
}

type readmeResponse struct {
	Content string `json:"content"`
}

// Fetch lists all blobs of the repository tree, trying each candidate default
// branch in order, and reads the README best-effort. Failing every branch is a
// hard failure carrying the last API error detail; a README failure only
// yields an empty string.
func (p *GitHubProvider) Fetch(ctx context.Context, info *models.RepositoryInfo) (*Contents, error) {
	var tree *treeResponse
	var apiErrDetail string

	for _, branch := range defaultBranches {
		url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", p.apiBase, info.Owner, info.Repo, branch)
		slog.Info("fetching repository tree", "owner", info.Owner, "repo", info.Repo, "branch", branch)

		body, status, err := p.get(ctx, url)
		if err != nil {
			slog.Error("network error fetching branch", "branch", branch, "error", err)
			continue
		}
		if status != http.StatusOK {
			apiErrDetail = fmt.Sprintf("Status: %d, Response: %s", status, body)
			slog.Warn("failed to fetch branch", "branch", branch, "detail", apiErrDetail)
			continue
		}

		var decoded treeResponse
		if err := json.Unmarshal(body, &decoded); err != nil {
			apiErrDetail = fmt.Sprintf("Status: %d, Response: unparsable body", status)
			slog.Warn("failed to decode tree response", "branch", branch, "error", err)
			continue
		}
		tree = &decoded
		break
	}

	if tree == nil || len(tree.Tree) == 0 {
		if apiErrDetail != "" {
			return nil, fmt.Errorf("could not fetch repository structure. API Error: %s", apiErrDetail)
		}
		return nil, fmt.Errorf("could not fetch repository structure. Repository might not exist, be empty or private")
	}

	var files []string
	for _, entry := range tree.Tree {
		if entry.Type == "blob" {
			files = append(files, entry.Path)
		}
	}

	return &Contents{
		FileList: files,
		Readme:   p.fetchReadme(ctx, info),
	}, nil
}

// fetchReadme returns the decoded README content, or an empty string on any
// failure.
func (p *GitHubProvider) fetchReadme(ctx context.Context, info *models.RepositoryInfo) string {
	url := fmt.Sprintf("%s/repos/%s/%s/readme", p.apiBase, info.Owner, info.Repo)

	body, status, err := p.get(ctx, url)
	if err != nil {
		slog.Info("could not fetch README, continuing with empty README", "error", err)
		return ""
	}
	if status != http.StatusOK {
		slog.Warn("could not fetch README", "status", status)
		return ""
	}

	var decoded readmeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		slog.Warn("failed to decode README response", "error", err)
		return ""
	}

	// The API returns base64 content broken into lines
	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(decoded.Content, "\n", ""))
	if err != nil {
		slog.Warn("failed to decode README content", "error", err)
		return ""
	}
	return string(content)
}

func (p *GitHubProvider) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if p.token != "" {
		req.Header.Set("Authorization", "token "+p.token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
