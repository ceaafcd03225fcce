// ABOUTME: Charm KV client wrapper for salesquest storage.
// ABOUTME: Provides thread-safe initialization, namespaced keys, and automatic cloud sync.
package charm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/salesquest/internal/storage"
)

const (
	dbName    = "salesquest"
	charmHost = "charm.2389.dev"

	// KeyPrefix namespaces every salesquest key inside the Charm KV.
	KeyPrefix = "salesquest:"
)

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// store is the subset of *kv.KV the client uses.
type store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Sync() error
	Reset() error
	IsReadOnly() bool
	Close() error
}

// Client implements storage.KV on Charm KV.
type Client struct {
	kv       store
	autoSync bool
	mu       sync.RWMutex
}

var _ storage.KV = (*Client)(nil)

// InitClient initializes the global Charm client.
// Thread-safe; can be called multiple times.
func InitClient() (*Client, error) {
	clientOnce.Do(func() {
		// Set server before opening KV
		if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
			clientErr = err
			return
		}

		db, err := kv.OpenWithDefaultsFallback(dbName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = newClient(db)

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

func newClient(s store) *Client {
	return &Client{kv: s, autoSync: true}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// syncIfEnabled calls Sync if autoSync is enabled.
func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// Get retrieves the values stored under keys.
func (c *Client) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		val, ok, err := c.get(key)
		if err != nil {
			return nil, err
		}
		if ok {
			result[key] = val
		}
	}
	return result, nil
}

// Set writes every entry of record. Charm KV commits keys one at a time, so a
// failed write restores the keys already written before returning.
func (c *Client) Set(ctx context.Context, record map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("cannot write: %w (locked by another process, MCP server?)", storage.ErrReadOnly)
	}

	written := make(map[string]previousValue, len(record))

	for key, value := range record {
		old, exists, err := c.get(key)
		if err != nil {
			c.restore(written)
			return err
		}
		if err := c.kv.Set(namespaced(key), value); err != nil {
			c.restore(written)
			return fmt.Errorf("set %s: %w", key, err)
		}
		written[key] = previousValue{value: old, exists: exists}
	}

	c.syncIfEnabled()
	return nil
}

// previousValue is a key's state before a multi-key write touched it.
type previousValue struct {
	value  []byte
	exists bool
}

// restore puts back the values captured before a partial write.
func (c *Client) restore(written map[string]previousValue) {
	for key, prev := range written {
		if prev.exists {
			_ = c.kv.Set(namespaced(key), prev.value)
		} else {
			_ = c.kv.Delete(namespaced(key))
		}
	}
}

// SetIfAbsent writes value only when key has no value yet.
func (c *Client) SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return false, fmt.Errorf("cannot write: %w (locked by another process, MCP server?)", storage.ErrReadOnly)
	}

	_, exists, err := c.get(key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := c.kv.Set(namespaced(key), value); err != nil {
		return false, fmt.Errorf("set %s: %w", key, err)
	}
	c.syncIfEnabled()
	return true, nil
}

// get reads one key; callers hold c.mu.
func (c *Client) get(key string) ([]byte, bool, error) {
	val, err := c.kv.Get(namespaced(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return val, true, nil
}

// namespaced prefixes a key for the shared Charm KV.
func namespaced(key string) []byte {
	return []byte(KeyPrefix + key)
}
