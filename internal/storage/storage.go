// Package storage abstracts the object store holding raw uploaded files.
// Locators are opaque relative paths, independent of document IDs.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore reads and writes raw file blobs by locator.
type BlobStore interface {
	// Download returns the blob for a locator.
	Download(ctx context.Context, locator string) ([]byte, error)
	// Store writes a blob under a locator, creating parent directories.
	Store(ctx context.Context, locator string, data []byte) error
}

// FSStore is a filesystem-backed BlobStore rooted at a directory.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if needed and returns a store.
func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &FSStore{root: root}, nil
}

// Download implements BlobStore.
func (s *FSStore) Download(_ context.Context, locator string) ([]byte, error) {
	path, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s: %w", locator, err)
	}
	return data, nil
}

// Store implements BlobStore.
func (s *FSStore) Store(_ context.Context, locator string, data []byte) error {
	path, err := s.resolve(locator)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to store blob %s: %w", locator, err)
	}
	return nil
}

// resolve maps a locator onto the root, rejecting anything that would escape
// it.
func (s *FSStore) resolve(locator string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("blob locator is empty")
	}
	clean := filepath.Clean("/" + locator)
	if clean == "/" || strings.Contains(locator, "..") {
		return "", fmt.Errorf("invalid blob locator: %s", locator)
	}
	return filepath.Join(s.root, clean), nil
}
