package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dpolishuk/codewiki/backend/internal/models"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Neo4jConfig struct {
	URI      string
	Username string
	Password string
}

// Neo4jStore persists wiki cache records as WikiCache nodes, merged by the
// (owner, repo, repoType) composite key with the payload serialized to JSON.
// It owns its driver; callers must Close it on shutdown.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jStore(ctx context.Context, cfg Neo4jConfig) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	// Verify connectivity
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Neo4jStore{driver: driver}, nil
}

func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}

func (s *Neo4jStore) session(ctx context.Context) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: "neo4j",
	})
}

func (s *Neo4jStore) Read(ctx context.Context, owner, repo, repoType string) (*models.WikiCacheRecord, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (w:WikiCache {owner: $owner, repo: $repo, repoType: $repoType})
			RETURN w.payload as payload
		`
		records, err := tx.Run(ctx, query, map[string]any{
			"owner":    owner,
			"repo":     repo,
			"repoType": repoType,
		})
		if err != nil {
			return nil, err
		}

		if !records.Next(ctx) {
			return nil, records.Err()
		}

		payload, _ := records.Record().Get("payload")
		return payload, records.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read wiki cache: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	payload, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected wiki cache payload type %T", result)
	}

	var data models.WikiCacheData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("failed to decode wiki cache: %w", err)
	}

	return &models.WikiCacheRecord{
		Owner:         owner,
		Repo:          repo,
		RepoType:      repoType,
		WikiCacheData: data,
	}, nil
}

func (s *Neo4jStore) Write(ctx context.Context, record *models.WikiCacheRecord) error {
	payload, err := json.Marshal(record.WikiCacheData)
	if err != nil {
		return fmt.Errorf("failed to encode wiki cache: %w", err)
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (w:WikiCache {owner: $owner, repo: $repo, repoType: $repoType})
			SET w.payload = $payload,
			    w.updatedAt = datetime()
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"owner":    record.Owner,
			"repo":     record.Repo,
			"repoType": record.RepoType,
			"payload":  string(payload),
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to write wiki cache: %w", err)
	}
	return nil
}
