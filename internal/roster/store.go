package roster

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"sync"

	"github.com/talentinsight/interview-analyzer/internal/models"
)

// Store owns the candidate roster. The roster is ordered newest-first; new
// entries are prepended and nothing else mutates it directly. Every mutation
// writes the full roster through the persistence port.
type Store struct {
	mu          sync.RWMutex
	candidates  []models.Candidate
	persistence Persistence
}

// NewStore creates a store and loads the persisted roster. A missing or
// unreadable roster falls back to the seed dataset; load failures are
// logged, never fatal, and never surfaced to the user.
func NewStore(p Persistence) *Store {
	s := &Store{persistence: p}

	candidates, err := p.Load()
	switch {
	case err != nil:
		if !os.IsNotExist(err) {
			log.Printf("Failed to load persisted roster, using seed data: %v", err)
		}
		s.candidates = SeedCandidates()
	case len(candidates) == 0:
		s.candidates = SeedCandidates()
	default:
		s.candidates = candidates
	}

	return s
}

// AddCandidate prepends a candidate to the roster, or replaces an existing
// entry with the same id, and persists the result.
func (s *Store) AddCandidate(c models.Candidate) error {
	if c.ID == "" {
		return fmt.Errorf("candidate id must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage the mutation on a copy so a failed save leaves the live roster
	// untouched and in sync with durable state.
	next := make([]models.Candidate, 0, len(s.candidates)+1)
	replaced := false
	for _, existing := range s.candidates {
		if existing.ID == c.ID {
			next = append(next, c)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append([]models.Candidate{c}, next...)
	}

	if err := s.persistence.Save(next); err != nil {
		return fmt.Errorf("failed to persist roster: %w", err)
	}
	s.candidates = next
	return nil
}

// ErrNotFound indicates no candidate with the given id exists.
var ErrNotFound = errors.New("candidate not found")

// UpdateStatus moves a candidate to a new status, enforcing the allowed
// transitions, and persists the result.
func (s *Store) UpdateStatus(id string, status models.InterviewStatus) (models.Candidate, error) {
	if !status.IsValid() {
		return models.Candidate{}, fmt.Errorf("invalid status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.candidates {
		if s.candidates[i].ID != id {
			continue
		}
		if !s.candidates[i].Status.CanTransitionTo(status) {
			return models.Candidate{}, fmt.Errorf("cannot move candidate from %s to %s", s.candidates[i].Status, status)
		}

		next := make([]models.Candidate, len(s.candidates))
		copy(next, s.candidates)
		next[i].Status = status

		if err := s.persistence.Save(next); err != nil {
			return models.Candidate{}, fmt.Errorf("failed to persist roster: %w", err)
		}
		s.candidates = next
		return next[i], nil
	}

	return models.Candidate{}, ErrNotFound
}

// GetByID returns the candidate with the given id
func (s *Store) GetByID(id string) (models.Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.candidates {
		if c.ID == id {
			return c, true
		}
	}
	return models.Candidate{}, false
}

// ListAll returns a copy of the roster, newest first
func (s *Store) ListAll() []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Len returns the roster size
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.candidates)
}

// Stats derives the dashboard aggregates on demand. The average match score
// covers only candidates with an analysis and is 0 when there are none.
func (s *Store) Stats() models.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.DashboardStats{Total: len(s.candidates)}

	var sum float64
	var analyzed int
	for _, c := range s.candidates {
		switch c.Status {
		case models.StatusHired:
			stats.HiredCount++
		case models.StatusPending:
			stats.PendingCount++
		}
		if c.Analysis != nil {
			sum += c.Analysis.MatchScore
			analyzed++
		}
	}

	if analyzed > 0 {
		stats.AverageMatchScore = int(math.Round(sum / float64(analyzed)))
	}

	return stats
}
