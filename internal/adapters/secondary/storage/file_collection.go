// Package storage provides persistence adapters for tasks and sessions.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const fileFormatVersion = "1.0"

// Entity is the minimal contract items must satisfy to live in a
// fileCollection.
type Entity interface {
	GetID() string
	Validate() error
}

// fileWrapper is the on-disk envelope around a collection's items.
type fileWrapper[T Entity] struct {
	Version   string    `json:"version"`
	Items     []T       `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// fileCollection stores one entity type as a single JSON file. Writes go
// through a temp file and rename so a crash never leaves a half-written
// collection behind.
type fileCollection[T Entity] struct {
	path  string
	mutex sync.RWMutex
}

func newFileCollection[T Entity](dir, fileName string) (*fileCollection[T], error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &fileCollection[T]{path: filepath.Join(dir, fileName)}, nil
}

// Insert adds a new item, rejecting duplicate IDs.
func (c *fileCollection[T]) Insert(item T) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid entity: %w", err)
	}

	items, err := c.load()
	if err != nil {
		return err
	}

	for _, existing := range items {
		if existing.GetID() == item.GetID() {
			return fmt.Errorf("entity with ID %s already exists", item.GetID())
		}
	}

	return c.save(append(items, item))
}

// Replace overwrites the stored item with the same ID.
func (c *fileCollection[T]) Replace(item T) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid entity: %w", err)
	}

	items, err := c.load()
	if err != nil {
		return err
	}

	for i, existing := range items {
		if existing.GetID() == item.GetID() {
			items[i] = item
			return c.save(items)
		}
	}

	return os.ErrNotExist
}

// Remove deletes the item with the given ID.
func (c *fileCollection[T]) Remove(id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}

	filtered := make([]T, 0, len(items))
	found := false
	for _, item := range items {
		if item.GetID() == id {
			found = true
			continue
		}
		filtered = append(filtered, item)
	}

	if !found {
		return os.ErrNotExist
	}
	return c.save(filtered)
}

// Get returns the item with the given ID, or os.ErrNotExist.
func (c *fileCollection[T]) Get(id string) (T, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var zero T
	items, err := c.load()
	if err != nil {
		return zero, err
	}

	for _, item := range items {
		if item.GetID() == id {
			return item, nil
		}
	}
	return zero, os.ErrNotExist
}

// All returns every stored item.
func (c *fileCollection[T]) All() ([]T, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.load()
}

func (c *fileCollection[T]) load() ([]T, error) {
	path := filepath.Clean(c.path)
	if strings.Contains(path, "..") {
		return nil, fmt.Errorf("path traversal detected: %s", path)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []T{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var wrapper fileWrapper[T]
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return wrapper.Items, nil
}

func (c *fileCollection[T]) save(items []T) error {
	wrapper := fileWrapper[T]{
		Version:   fileFormatVersion,
		Items:     items,
		UpdatedAt: time.Now(),
	}

	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}

	// Write atomically
	tempFile := c.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, c.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to move temp file: %w", err)
	}

	return nil
}
