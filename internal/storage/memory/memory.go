package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"plant-logbook/internal/storage"
)

var ErrQuotaExceeded = errors.New("memory medium: quota exceeded")

// Medium keeps values in process memory. A positive quota caps the total
// number of bytes held, which mimics a full browser-style storage area.
type Medium struct {
	mu     sync.RWMutex
	values map[string]string
	quota  int
}

func New() *Medium {
	return &Medium{values: map[string]string{}}
}

// NewWithQuota returns a medium that refuses writes pushing it past quota bytes.
func NewWithQuota(quota int) *Medium {
	return &Medium{values: map[string]string{}, quota: quota}
}

func (m *Medium) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", storage.ErrKeyNotFound
	}
	return v, nil
}

func (m *Medium) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		size := len(key) + len(value)
		for k, v := range m.values {
			if k != key {
				size += len(k) + len(v)
			}
		}
		if size > m.quota {
			return ErrQuotaExceeded
		}
	}

	m.values[key] = value
	return nil
}

func (m *Medium) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Keys lists stored keys with the given prefix, sorted.
func (m *Medium) Keys(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
