package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medvertical/records-sub015/internal/domain"
	"github.com/medvertical/records-sub015/internal/storage"
	"github.com/medvertical/records-sub015/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS fhir_servers (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	url        TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// Store implements PostgreSQL-backed FHIR server registry storage
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL store and ensures the schema exists
func NewStore(ctx context.Context, cfg *config.PostgresConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Create(ctx context.Context, server *domain.FhirServer) error {
	if server.Name == "" || server.URL == "" {
		return storage.ErrInvalidInput
	}

	server.ID = uuid.NewString()
	server.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO fhir_servers (id, name, url, created_at) VALUES ($1, $2, $3, $4)`,
		server.ID, server.Name, server.URL, server.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrDatabase, err)
	}
	return nil
}

func (s *Store) GetAll(ctx context.Context) ([]*domain.FhirServer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, url, created_at FROM fhir_servers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrDatabase, err)
	}
	defer rows.Close()

	servers := make([]*domain.FhirServer, 0)
	for rows.Next() {
		var srv domain.FhirServer
		if err := rows.Scan(&srv.ID, &srv.Name, &srv.URL, &srv.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrDatabase, err)
		}
		servers = append(servers, &srv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrDatabase, err)
	}
	return servers, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.FhirServer, error) {
	var srv domain.FhirServer
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, url, created_at FROM fhir_servers WHERE id = $1`, id).
		Scan(&srv.ID, &srv.Name, &srv.URL, &srv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrDatabase, err)
	}
	return &srv, nil
}

// Ping checks if the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
