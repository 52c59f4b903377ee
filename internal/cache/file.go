package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dpolishuk/codewiki/backend/internal/models"
)

// FileStore keeps one JSON file per cached wiki under a base directory
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) path(owner, repo, repoType string) string {
	filename := fmt.Sprintf("%s_%s_%s_wiki_cache.json", owner, repo, repoType)
	return filepath.Join(s.baseDir, filename)
}

func (s *FileStore) Read(ctx context.Context, owner, repo, repoType string) (*models.WikiCacheRecord, error) {
	data, err := os.ReadFile(s.path(owner, repo, repoType))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read wiki cache: %w", err)
	}

	var record models.WikiCacheRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode wiki cache: %w", err)
	}
	record.Owner = owner
	record.Repo = repo
	record.RepoType = repoType
	return &record, nil
}

func (s *FileStore) Write(ctx context.Context, record *models.WikiCacheRecord) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode wiki cache: %w", err)
	}

	if err := os.WriteFile(s.path(record.Owner, record.Repo, record.RepoType), data, 0644); err != nil {
		return fmt.Errorf("failed to write wiki cache: %w", err)
	}
	return nil
}
