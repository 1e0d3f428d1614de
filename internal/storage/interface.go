package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by Load when the backing store has never been initialized
	ErrNotInitialized = errors.New("storage not initialized, run 'dailyquest init' first")
	// ErrNotLoaded is returned when a store is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// KV is the string key-value surface the quest engine persists through.
// Get reports ok=false for a missing key. No atomicity spans multiple keys.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

type Provider interface {
	KV

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Keys lists every stored key, sorted. Used for store-to-store copies and diagnostics.
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// Copy writes every key of src into dst, returning the number of keys copied.
func Copy(dst, src Provider) (int, error) {
	keys, err := src.Keys()
	if err != nil {
		return 0, err
	}
	copied := 0
	for _, key := range keys {
		value, ok, err := src.Get(key)
		if err != nil {
			return copied, fmt.Errorf("failed to read %q: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := dst.Set(key, value); err != nil {
			return copied, fmt.Errorf("failed to write %q: %w", key, err)
		}
		copied++
	}
	return copied, nil
}

// WriteError reports a failed Set. The caller's in-memory state stays
// authoritative; only persistence of Key was lost.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to persist %q: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// SetOrWrap calls kv.Set and wraps any failure in a *WriteError.
func SetOrWrap(kv KV, key, value string) error {
	if err := kv.Set(key, value); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	return nil
}
