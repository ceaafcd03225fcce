// ABOUTME: Test helpers for code that depends on storage.KV.
// ABOUTME: Provides an in-memory KV and a wrapper that injects backend failures.

package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/harperreed/salesquest/internal/storage"
)

// ErrInjected is returned by FaultyKV when a failure is switched on.
var ErrInjected = errors.New("injected backend failure")

// FaultyKV wraps a KV and fails operations on demand.
type FaultyKV struct {
	storage.KV

	mu      sync.Mutex
	failGet bool
	failSet bool
	sets    int
}

// New returns a FaultyKV over a fresh in-memory badger store.
func New(t *testing.T) *FaultyKV {
	t.Helper()
	kv, err := storage.OpenBadgerInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return &FaultyKV{KV: kv}
}

// FailGet toggles read failures.
func (f *FaultyKV) FailGet(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet = fail
}

// FailSet toggles write failures for Set and SetIfAbsent.
func (f *FaultyKV) FailSet(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet = fail
}

// Sets returns the number of successful Set calls.
func (f *FaultyKV) Sets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// Get fails when FailGet is on.
func (f *FaultyKV) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.KV.Get(ctx, keys...)
}

// Set fails when FailSet is on.
func (f *FaultyKV) Set(ctx context.Context, record map[string][]byte) error {
	f.mu.Lock()
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	if err := f.KV.Set(ctx, record); err != nil {
		return err
	}
	f.mu.Lock()
	f.sets++
	f.mu.Unlock()
	return nil
}

// SetIfAbsent fails when FailSet is on.
func (f *FaultyKV) SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	f.mu.Lock()
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return false, ErrInjected
	}
	return f.KV.SetIfAbsent(ctx, key, value)
}
