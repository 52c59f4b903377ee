package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dpolishuk/codewiki/backend/internal/cache"
	"github.com/dpolishuk/codewiki/backend/internal/config"
	"github.com/dpolishuk/codewiki/backend/internal/models"
	"github.com/dpolishuk/codewiki/backend/internal/task"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, task.Store, cache.Store) {
	t.Helper()
	cfg := &config.Config{
		LLMServerURL:    "http://127.0.0.1:0",
		LLMModel:        "test-model",
		GithubAPIURL:    "http://127.0.0.1:0",
		PageConcurrency: 1,
	}
	tasks := task.NewMemoryStore()
	cacheStore := cache.NewFileStore(t.TempDir())

	app := fiber.New()
	SetupRoutes(app, NewHandler(cfg, tasks, cacheStore))
	return app, tasks, cacheStore
}

func decodeJSON(t *testing.T, body io.Reader, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(out))
}

func TestGenerateWikiReturnsTaskID(t *testing.T) {
	app, tasks, _ := newTestApp(t)

	payload := `{"repo_url": "https://github.com/golang/go"}`
	req := httptest.NewRequest("POST", "/api/wiki/generate", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	decodeJSON(t, resp.Body, &body)
	require.NotEmpty(t, body["task_id"])

	record := tasks.Get(body["task_id"])
	require.NotNil(t, record, "task record should exist immediately after submission")
	assert.NotEmpty(t, record.Status)
}

func TestGenerateWikiRejectsUnsupportedInput(t *testing.T) {
	app, _, _ := newTestApp(t)

	payload := `{"repo_url": "not a repository"}`
	req := httptest.NewRequest("POST", "/api/wiki/generate", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGenerateWikiRejectsInvalidBody(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/wiki/generate", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetTaskStatus(t *testing.T) {
	app, tasks, _ := newTestApp(t)

	tasks.Create("known-task", &models.GenerationTask{
		Status:  models.TaskProcessing,
		Message: "Determining wiki structure...",
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/wiki/status/known-task", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var record models.GenerationTask
	decodeJSON(t, resp.Body, &record)
	assert.Equal(t, models.TaskProcessing, record.Status)
	assert.Equal(t, "Determining wiki structure...", record.Message)
}

func TestGetTaskStatusUnknown(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/wiki/status/no-such-task", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDeleteTask(t *testing.T) {
	app, tasks, _ := newTestApp(t)

	tasks.Create("doomed", &models.GenerationTask{Status: models.TaskSuccess})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/wiki/status/doomed", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Nil(t, tasks.Get("doomed"))
}

func TestWikiCacheRoundTrip(t *testing.T) {
	app, _, _ := newTestApp(t)

	record := models.WikiCacheRecord{
		Owner:    "golang",
		Repo:     "go",
		RepoType: models.RepoTypeWeb,
		WikiCacheData: models.WikiCacheData{
			WikiStructure: models.WikiStructure{
				ID:    "wiki",
				Title: "Go Wiki",
				Pages: []models.WikiPage{{ID: "page-1", Title: "Overview"}},
			},
			GeneratedPages: map[string]models.WikiPage{
				"page-1": {ID: "page-1", Title: "Overview", Content: "# Overview"},
			},
		},
	}
	body, err := json.Marshal(record)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/wiki_cache", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/wiki_cache?owner=golang&repo=go&repo_type=web", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got models.WikiCacheRecord
	decodeJSON(t, resp.Body, &got)
	assert.Equal(t, record, got)
}

func TestGetWikiCacheMiss(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/wiki_cache?owner=nobody&repo=nothing&repo_type=web", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "null", string(bytes.TrimSpace(body)))
}

func TestGetWikiCacheRequiresParams(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/wiki_cache?owner=golang", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUpdateWikiCacheRequiresIdentity(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/wiki_cache", bytes.NewBufferString(`{"owner": "golang"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetLocalRepoStructure(t *testing.T) {
	app, _, _ := newTestApp(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Local repo\n"), 0644))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/local_repo/structure?path="+dir, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	decodeJSON(t, resp.Body, &body)
	assert.Contains(t, body["file_tree"], "main.go")
	assert.Equal(t, "# Local repo\n", body["readme"])
}

func TestGetLocalRepoStructureRequiresPath(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/local_repo/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
