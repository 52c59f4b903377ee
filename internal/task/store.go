package task

import (
	"sync"

	"github.com/dpolishuk/codewiki/backend/internal/models"
)

// Update carries the fields of a task record to merge on update. Nil fields
// are left untouched.
type Update struct {
	Status   *string
	Message  *string
	Progress []string
	Error    *string
	Result   *models.WikiCacheData
}

// Store holds generation task records keyed by task id. Only the owning job
// mutates a given task's record, so implementations need per-key
// read-modify-write and nothing stronger.
type Store interface {
	Create(taskID string, task *models.GenerationTask)
	// Update merges the given fields into an existing record. Unknown task ids
	// are a no-op.
	Update(taskID string, update Update)
	Get(taskID string) *models.GenerationTask
	Delete(taskID string)
}

// MemoryStore is the single-process Store backed by a mutex-guarded map
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*models.GenerationTask
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]*models.GenerationTask),
	}
}

func (s *MemoryStore) Create(taskID string, task *models.GenerationTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[taskID] = task
}

func (s *MemoryStore) Update(taskID string, update Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[taskID]
	if !ok {
		return
	}

	if update.Status != nil {
		existing.Status = *update.Status
	}
	if update.Message != nil {
		existing.Message = *update.Message
	}
	if update.Progress != nil {
		existing.Progress = update.Progress
	}
	if update.Error != nil {
		existing.Error = *update.Error
	}
	if update.Result != nil {
		existing.Result = update.Result
	}
}

func (s *MemoryStore) Get(taskID string) *models.GenerationTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, ok := s.tasks[taskID]
	if !ok {
		return nil
	}

	// Copy so readers never see a record mid-mutation
	copied := *existing
	return &copied
}

func (s *MemoryStore) Delete(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, taskID)
}

// String is a convenience for building Update field pointers
func String(s string) *string {
	return &s
}
