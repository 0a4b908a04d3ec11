package backend

import (
	"context"
	"fmt"

	"github.com/medvertical/records-sub015/internal/storage"
	"github.com/medvertical/records-sub015/internal/storage/memory"
	"github.com/medvertical/records-sub015/internal/storage/mongodb"
	"github.com/medvertical/records-sub015/internal/storage/postgres"
	"github.com/medvertical/records-sub015/pkg/config"
)

// Type defines the type of storage backend
type Type string

const (
	// TypeMemory uses in-memory storage (for testing/development)
	TypeMemory Type = "memory"
	// TypeMongoDB uses MongoDB storage
	TypeMongoDB Type = "mongodb"
	// TypePostgres uses PostgreSQL storage
	TypePostgres Type = "postgres"
)

// Backend wraps the registry store with lifecycle management
type Backend interface {
	storage.FhirServerStore

	// Ping checks if the storage is alive
	Ping(ctx context.Context) error
	// Close closes the storage connection
	Close() error
}

// New creates a storage backend based on the configuration
func New(ctx context.Context, cfg *config.Config) (Backend, error) {
	storageType := Type(cfg.Storage.Type)

	switch storageType {
	case TypeMemory, "":
		// Default to memory if not specified
		return memory.NewStore(), nil

	case TypeMongoDB:
		store, err := mongodb.NewStore(ctx, &cfg.Storage.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create MongoDB backend: %w", err)
		}
		return store, nil

	case TypePostgres:
		store, err := postgres.NewStore(ctx, &cfg.Storage.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL backend: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
