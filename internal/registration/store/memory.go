package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"registrar/internal/registration/models"
	"registrar/pkg/sentinel"
)

// InMemory keeps participants in process memory. It backs unit tests and
// local development and intentionally favors clarity over performance.
type InMemory struct {
	mu           sync.RWMutex
	participants []models.Participant
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.participants)), nil
}

func (s *InMemory) FindByEmailOrUSN(_ context.Context, email, usn string) (models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.participants {
		if p.Email == email || p.USN == usn {
			return p, nil
		}
	}
	return models.Participant{}, sentinel.ErrNotFound
}

func (s *InMemory) Insert(_ context.Context, p models.Participant) (models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	s.participants = append(s.participants, p)
	return p, nil
}

func (s *InMemory) ListAll(_ context.Context) ([]models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Participant, len(s.participants))
	copy(out, s.participants)
	return out, nil
}
