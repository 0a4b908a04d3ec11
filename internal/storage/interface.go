package storage

import (
	"context"
	"errors"

	"github.com/medvertical/records-sub015/internal/domain"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDatabase     = errors.New("database error")
)

// FhirServerStore defines the interface for FHIR server registry storage
type FhirServerStore interface {
	// Create stores a new server record, assigning its ID and CreatedAt
	Create(ctx context.Context, server *domain.FhirServer) error

	// GetAll retrieves all registered servers in insertion order
	GetAll(ctx context.Context) ([]*domain.FhirServer, error)

	// GetByID retrieves a server by ID
	GetByID(ctx context.Context, id string) (*domain.FhirServer, error)
}
