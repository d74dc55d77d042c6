package recordstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/illmade-knight/go-setcache/pkg/setrecord"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreConfig holds configuration for the Firestore record store.
type FirestoreConfig struct {
	ProjectID      string
	CollectionName string
}

// FirestoreStore persists records in a Firestore collection, one document per
// set code.
type FirestoreStore struct {
	client         *firestore.Client
	collectionName string
	logger         zerolog.Logger
}

// NewFirestoreStore creates a record store over an injected Firestore client.
func NewFirestoreStore(cfg *FirestoreConfig, client *firestore.Client, logger zerolog.Logger) (*FirestoreStore, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client cannot be nil")
	}

	logger.Info().Str("project_id", cfg.ProjectID).Str("collection", cfg.CollectionName).Msg("FirestoreStore initialized.")

	return &FirestoreStore{
		client:         client,
		collectionName: cfg.CollectionName,
		logger:         logger.With().Str("component", "FirestoreStore").Logger(),
	}, nil
}

// Save writes the record document, overwriting any previous version for the
// same set code.
func (s *FirestoreStore) Save(ctx context.Context, record *setrecord.Record) error {
	_, err := s.client.Collection(s.collectionName).Doc(record.Code).Set(ctx, record)
	if err != nil {
		s.logger.Error().Err(err).Str("code", record.Code).Msg("Failed to write record to Firestore.")
		return fmt.Errorf("firestore set for %s: %w", record.Code, err)
	}
	s.logger.Debug().Str("code", record.Code).Msg("Record saved to Firestore.")
	return nil
}

// Get retrieves a single record document by set code.
func (s *FirestoreStore) Get(ctx context.Context, code string) (*setrecord.Record, error) {
	docSnap, err := s.client.Collection(s.collectionName).Doc(code).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("firestore get for %s: %w", code, err)
	}

	var record setrecord.Record
	if err := docSnap.DataTo(&record); err != nil {
		return nil, fmt.Errorf("firestore DataTo for %s: %w", code, err)
	}
	return &record, nil
}

// Close is a no-op as the Firestore client's lifecycle is managed externally.
func (s *FirestoreStore) Close() error {
	return nil
}
