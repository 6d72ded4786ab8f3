package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/sma-records/internal/models"
)

// Backend is a durable string-keyed store. Get reports found=false for a key that was
// never written.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// CollectionRepository persists whole record collections as JSON documents, one key
// per collection.
type CollectionRepository struct {
	backend Backend
	prefix  string
}

// NewCollectionRepository constructs a collection repository. Every key is prefixed
// with prefix.
func NewCollectionRepository(backend Backend, prefix string) *CollectionRepository {
	return &CollectionRepository{backend: backend, prefix: prefix}
}

// Key returns the storage key of a collection.
func (r *CollectionRepository) Key(name models.Collection) string {
	return r.prefix + string(name)
}

// Load decodes the stored collection into dest, which must be a pointer to a slice.
// A missing key leaves dest untouched so callers observe an empty collection.
func (r *CollectionRepository) Load(ctx context.Context, name models.Collection, dest interface{}) error {
	key := r.Key(name)
	raw, found, err := r.backend.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	if !found || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Save overwrites the stored collection with records.
func (r *CollectionRepository) Save(ctx context.Context, name models.Collection, records interface{}) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := r.backend.Set(ctx, r.Key(name), string(payload)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Close releases the underlying backend.
func (r *CollectionRepository) Close() error {
	return r.backend.Close()
}
