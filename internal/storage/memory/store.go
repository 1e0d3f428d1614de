// Package memory provides a process-local storage.Provider. Nothing survives
// Close; it backs tests and the --db=:memory: mode.
package memory

import (
	"errors"
	"sort"
	"sync"

	"github.com/julianstephens/dailyquest/internal/storage"
)

// ErrWriteFailed is returned by Set while failure injection is on.
var ErrWriteFailed = errors.New("memory store: write failed")

type Store struct {
	mu        sync.Mutex
	entries   map[string]string
	writes    int
	failWrite bool
}

func New() *Store {
	return &Store{entries: make(map[string]string)}
}

var _ storage.Provider = (*Store)(nil)

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) GetConfigPath() string { return ":memory:" }

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return ErrWriteFailed
	}
	s.entries[key] = value
	s.writes++
	return nil
}

func (s *Store) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Writes counts successful Set calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// FailWrites makes every following Set return ErrWriteFailed until turned off.
func (s *Store) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = fail
}
