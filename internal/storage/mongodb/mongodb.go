package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medvertical/records-sub015/internal/domain"
	"github.com/medvertical/records-sub015/internal/storage"
	"github.com/medvertical/records-sub015/pkg/config"
)

// Store implements MongoDB-backed FHIR server registry storage
type Store struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection
	cfg        *config.MongoDBConfig
}

// NewStore creates a new MongoDB store
func NewStore(ctx context.Context, cfg *config.MongoDBConfig) (*Store, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(time.Duration(cfg.Timeout) * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(cfg.Database)

	s := &Store{
		client:     client,
		database:   database,
		collection: database.Collection("fhir_servers"),
		cfg:        cfg,
	}

	if err := s.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return s, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	// Non-unique: duplicate registrations of the same endpoint are allowed.
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "url", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create fhir_servers indexes: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, server *domain.FhirServer) error {
	if server.Name == "" || server.URL == "" {
		return storage.ErrInvalidInput
	}

	server.ID = uuid.NewString()
	server.CreatedAt = time.Now().UTC()

	if _, err := s.collection.InsertOne(ctx, server); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrDatabase, err)
	}
	return nil
}

func (s *Store) GetAll(ctx context.Context) ([]*domain.FhirServer, error) {
	// Insertion order: created_at with _id as tiebreaker
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrDatabase, err)
	}
	defer cursor.Close(ctx)

	servers := make([]*domain.FhirServer, 0)
	if err := cursor.All(ctx, &servers); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrDatabase, err)
	}
	return servers, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.FhirServer, error) {
	var server domain.FhirServer
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&server)
	if err == mongo.ErrNoDocuments {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrDatabase, err)
	}
	return &server, nil
}

// Ping checks if the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close closes the database connection
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
