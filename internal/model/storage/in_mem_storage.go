package storage

import "sync"

// InMemStorage is a process-local key-value store. Nothing survives a
// restart; it backs tests and devices without a writable data directory.
type InMemStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{values: make(map[string][]byte)}
}

func (s *InMemStorage) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (s *InMemStorage) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	s.values[key] = cp
	return nil
}

func (s *InMemStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
