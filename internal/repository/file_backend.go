package repository

import (
	"context"

	"github.com/noah-isme/sma-records/pkg/storage"
)

type blobStorage interface {
	Save(name string, data []byte) error
	Read(name string) ([]byte, bool, error)
}

// FileBackend stores each key as a JSON file through the local storage helper.
type FileBackend struct {
	files blobStorage
}

// NewFileBackend constructs a file backend rooted at dir.
func NewFileBackend(dir string) (*FileBackend, error) {
	files, err := storage.NewLocalStorage(dir)
	if err != nil {
		return nil, err
	}
	return &FileBackend{files: files}, nil
}

// Get implements Backend.
func (b *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	data, found, err := b.files.Read(fileName(key))
	if err != nil || !found {
		return "", false, err
	}
	return string(data), true, nil
}

// Set implements Backend.
func (b *FileBackend) Set(_ context.Context, key, value string) error {
	return b.files.Save(fileName(key), []byte(value))
}

// Close implements Backend.
func (b *FileBackend) Close() error { return nil }

func fileName(key string) string {
	return key + ".json"
}
