// ABOUTME: KV interface for salesquest persistence.
// ABOUTME: Defines the get/set contract, the well-known keys, and JSON value codec.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Well-known keys.
const (
	KeyTrialStartDate    = "trialStartDate"
	KeyIsPremium         = "isPremium"
	KeyDailyContacts     = "dailyContacts"
	KeyDailyAppointments = "dailyAppointments"
	KeyLastSaveDate      = "lastSaveDate"
	KeyThemeColor        = "themeColor"
	KeyNotifications     = "notifications"
	KeyDailyGoal         = "dailyGoal"
)

// AllKeys lists every key the application writes, used by migration.
var AllKeys = []string{
	KeyTrialStartDate,
	KeyIsPremium,
	KeyDailyContacts,
	KeyDailyAppointments,
	KeyLastSaveDate,
	KeyThemeColor,
	KeyNotifications,
	KeyDailyGoal,
}

// ErrReadOnly is returned by backends that cannot currently accept writes.
var ErrReadOnly = errors.New("storage is read-only")

// KV is the persistent key-value store.
// Values are opaque bytes; callers use Encode/Decode for JSON values.
type KV interface {
	// Get returns the stored values for keys. Absent keys are omitted from the map.
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)

	// Set writes every entry of record, or none of them.
	Set(ctx context.Context, record map[string][]byte) error

	// SetIfAbsent writes value only when key has no value yet.
	// It reports whether the write happened.
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)

	// Close releases the backend.
	Close() error
}

// Encode marshals a value for storage.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return data, nil
}

// Decode unmarshals the value stored under key into dst.
// It reports false without error when the key is absent from record.
func Decode(record map[string][]byte, key string, dst any) (bool, error) {
	data, ok := record[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Record builds a Set payload from key/value pairs, encoding each value.
func Record(pairs map[string]any) (map[string][]byte, error) {
	record := make(map[string][]byte, len(pairs))
	for key, v := range pairs {
		data, err := Encode(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		record[key] = data
	}
	return record, nil
}
