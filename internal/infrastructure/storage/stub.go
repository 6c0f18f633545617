package storage

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	partnerapp "github.com/retaildash/backend/internal/application/partner"
)

var _ partnerapp.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage stands in for S3 when storage is disabled. It hands out
// URLs under BaseURL and treats every key it issued an upload URL for as
// uploaded.
type StubObjectStorage struct {
	BaseURL string

	mu     sync.Mutex
	issued map[string]struct{}
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		issued:  make(map[string]struct{}),
	}
}

func (s *StubObjectStorage) url(kind, storageKey string, expiresAt time.Time) string {
	return s.BaseURL + "/" + kind + "/" + url.PathEscape(storageKey) + "?expires=" + url.QueryEscape(expiresAt.Format(time.RFC3339))
}

// GenerateUploadURL returns a fake upload URL and remembers the key
func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	s.mu.Lock()
	s.issued[storageKey] = struct{}{}
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return s.url("upload", storageKey, expiresAt), expiresAt, nil
}

// GenerateDownloadURL returns a fake download URL
func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.url("download", storageKey, expiresAt), expiresAt, nil
}

// DeleteObject forgets the key
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	delete(s.issued, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether an upload URL was issued for the key
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.issued[storageKey]
	return ok, nil
}
