package mocks

import (
	"sort"
	"strings"
	"sync"

	"github.com/user/journalpage/pkg/ports"
)

// BlobStore is an in-memory mock of ports.BlobStore with an optional
// capacity to simulate quota exhaustion.
type BlobStore struct {
	mu sync.Mutex

	// Capacity caps the total stored bytes; 0 means unlimited.
	Capacity int

	// FailSets makes the next N Set calls fail with ErrQuotaExceeded.
	FailSets int

	data map[string]string
}

// NewBlobStore creates an unlimited mock store.
func NewBlobStore() *BlobStore {
	return &BlobStore{data: map[string]string{}}
}

func (m *BlobStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *BlobStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSets > 0 {
		m.FailSets--
		return ports.ErrQuotaExceeded
	}
	if m.Capacity > 0 && m.usedLocked()-len(m.data[key])+len(value) > m.Capacity {
		return ports.ErrQuotaExceeded
	}
	m.data[key] = value
	return nil
}

func (m *BlobStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *BlobStore) Keys(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Len returns the number of stored entries.
func (m *BlobStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *BlobStore) usedLocked() int {
	total := 0
	for _, v := range m.data {
		total += len(v)
	}
	return total
}

var _ ports.BlobStore = (*BlobStore)(nil)
