package cache

import (
	"context"

	"github.com/dpolishuk/codewiki/backend/internal/models"
)

// Store is the wiki cache: durable, whole-record storage keyed by
// (owner, repo, repo type). Writes are full overwrites, last write wins.
// Callers treat the cache as best-effort: a read error is a miss, a write
// error is logged and ignored.
type Store interface {
	// Read returns the cached record, or (nil, nil) when no record exists
	Read(ctx context.Context, owner, repo, repoType string) (*models.WikiCacheRecord, error)
	Write(ctx context.Context, record *models.WikiCacheRecord) error
}
