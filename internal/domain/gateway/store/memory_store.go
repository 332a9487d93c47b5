package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemoryStore is an in-process Store used in tests and when running without Redis.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) GetInt64(ctx context.Context, key string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.values[key]
	if !ok {
		return 0, false, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, true, err
	}
	return parsed, true, nil
}

func (s *MemoryStore) GetString(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.values[key]
	return raw, ok, nil
}

func (s *MemoryStore) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(raw), true, nil
}

func (s *MemoryStore) SetValues(ctx context.Context, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range values {
		switch v := value.(type) {
		case string:
			s.values[key] = v
		case []byte:
			s.values[key] = string(v)
		case int64:
			s.values[key] = strconv.FormatInt(v, 10)
		case int:
			s.values[key] = strconv.Itoa(v)
		default:
			return fmt.Errorf("unsupported value type %T for key %s", value, key)
		}
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}
