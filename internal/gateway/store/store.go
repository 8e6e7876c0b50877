package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sgheritage/video-gateway/internal/gateway/domain"
)

// Store owns every job record for the lifetime of the process. It is the only
// shared mutable state: many orchestrator goroutines write through Update and
// the HTTP handlers read snapshots through Get. There is no deletion API, so
// records accumulate until the process restarts.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		jobs: make(map[string]*domain.Job),
	}
}

// Create allocates a new job in the queued state and returns a snapshot of it.
// Identifiers are uuids and are never reused.
func (s *Store) Create(prompt string) domain.Job {
	now := time.Now()
	job := &domain.Job{
		ID:        uuid.New().String(),
		Status:    domain.StatusQueued,
		Prompt:    prompt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return *job
}

// Get returns a snapshot of the job, or false when the id is unknown.
// Callers may keep or mutate the snapshot freely; it never aliases the record.
func (s *Store) Get(id string) (domain.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, false
	}
	return *job, true
}

// Update applies mutate to the job under the store lock and bumps UpdatedAt.
// It returns false when the id is unknown. Each job is written by a single
// orchestrator goroutine, so field updates never race each other; the lock
// guards against concurrent readers.
func (s *Store) Update(id string, mutate func(*domain.Job)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	mutate(job)
	job.UpdatedAt = time.Now()
	return true
}

// Len reports the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
