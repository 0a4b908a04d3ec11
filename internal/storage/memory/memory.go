package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medvertical/records-sub015/internal/domain"
	"github.com/medvertical/records-sub015/internal/storage"
)

// Store implements an in-memory FHIR server registry.
// Records are kept in a slice so GetAll returns insertion order.
type Store struct {
	mu      sync.RWMutex
	servers []*domain.FhirServer
	byID    map[string]*domain.FhirServer
}

// NewStore creates a new in-memory store
func NewStore() *Store {
	return &Store{
		servers: make([]*domain.FhirServer, 0),
		byID:    make(map[string]*domain.FhirServer),
	}
}

func (s *Store) Create(ctx context.Context, server *domain.FhirServer) error {
	if server.Name == "" || server.URL == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	server.ID = uuid.NewString()
	server.CreatedAt = time.Now().UTC()

	stored := *server
	s.servers = append(s.servers, &stored)
	s.byID[stored.ID] = &stored
	return nil
}

func (s *Store) GetAll(ctx context.Context) ([]*domain.FhirServer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.FhirServer, 0, len(s.servers))
	for _, srv := range s.servers {
		cp := *srv
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.FhirServer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	srv, exists := s.byID[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *srv
	return &cp, nil
}

func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }
