package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
)

// Ensure StubUploader implements ImageUploader
var _ catalogapp.ImageUploader = (*StubUploader)(nil)

// StubUploader keeps uploaded images in memory and hands out fake URLs.
// Use this for development and tests until a real image host is configured.
type StubUploader struct {
	// BaseURL is the base URL for generated image URLs.
	// Defaults to "https://storage.example.com" if not set
	BaseURL string

	opts    options
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubUploader creates a new StubUploader
func NewStubUploader(baseURL string, opts ...Option) *StubUploader {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &StubUploader{
		BaseURL: strings.TrimRight(baseURL, "/"),
		opts:    newOptions(opts),
		objects: make(map[string][]byte),
	}
}

// Upload records the image and returns its fake URL
func (s *StubUploader) Upload(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image data is empty")
	}
	url := s.BaseURL + "/" + joinFolder(folder, objectName(filename, s.opts.now())+extension(filename))

	s.mu.Lock()
	s.objects[url] = append([]byte(nil), data...)
	s.mu.Unlock()
	return url, nil
}

// Delete forgets the image; unknown URLs are ignored
func (s *StubUploader) Delete(ctx context.Context, imageURL string) error {
	s.mu.Lock()
	delete(s.objects, imageURL)
	s.mu.Unlock()
	return nil
}

// Has reports whether an image is currently stored under url
func (s *StubUploader) Has(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[url]
	return ok
}

// Len returns the number of stored images
func (s *StubUploader) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
