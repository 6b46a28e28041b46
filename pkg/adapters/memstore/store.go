// Package memstore provides an in-memory ports.BlobStore with an optional
// capacity, mirroring the entry-size pressure of browser localStorage.
package memstore

import (
	"sort"
	"strings"
	"sync"

	"github.com/user/journalpage/pkg/ports"
)

// Store is a capacity-limited in-memory key-value store.
type Store struct {
	mu       sync.Mutex
	capacity int
	data     map[string]string
}

// New creates a store holding at most capacity bytes of values; a capacity
// of 0 means unlimited.
func New(capacity int) *Store {
	return &Store{
		capacity: capacity,
		data:     map[string]string{},
	}
}

// Get returns the value for key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores a value, returning ports.ErrQuotaExceeded when the write would
// push the store past its capacity. A rejected write leaves the previous
// value intact.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capacity > 0 && s.usedLocked()-len(s.data[key])+len(value) > s.capacity {
		return ports.ErrQuotaExceeded
	}
	s.data[key] = value
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys returns all stored keys with the given prefix, sorted.
func (s *Store) Keys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Used returns the total bytes of stored values.
func (s *Store) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usedLocked()
}

func (s *Store) usedLocked() int {
	total := 0
	for _, v := range s.data {
		total += len(v)
	}
	return total
}

var _ ports.BlobStore = (*Store)(nil)
