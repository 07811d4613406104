package storage

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"
)

// MemoryObjectStorage keeps objects in memory. It backs development setups
// without S3 and tests.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]MemoryObject
}

// MemoryObject is a stored object
type MemoryObject struct {
	Data        []byte
	ContentType string
}

// NewMemoryObjectStorage creates an empty store whose download URLs start
// with baseURL
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/bergizi"
	}
	return &MemoryObjectStorage{BaseURL: baseURL, objects: make(map[string]MemoryObject)}
}

// Upload stores the body under key
func (s *MemoryObjectStorage) Upload(_ context.Context, key string, body io.Reader, contentType string) error {
	if key == "" {
		return ErrKeyRequired
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[key] = MemoryObject{Data: data, ContentType: contentType}
	s.mu.Unlock()
	return nil
}

// GenerateDownloadURL returns a fake signed URL for key
func (s *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	expiresAt := time.Now().Add(expiresIn)
	u := s.BaseURL + "/" + key + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
	return u, expiresAt, nil
}

// DeleteObject removes key
func (s *MemoryObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether key is stored
func (s *MemoryObjectStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrKeyRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Get returns a stored object
func (s *MemoryObjectStorage) Get(key string) (MemoryObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}
