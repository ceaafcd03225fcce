// ABOUTME: Data migration between salesquest storage backends.
// ABOUTME: Copies every well-known key from source to destination in one write.

package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// MigrateSummary holds the keys copied by a migration.
type MigrateSummary struct {
	Keys []string
}

// ErrDestinationNotEmpty is returned when the destination already holds data.
var ErrDestinationNotEmpty = errors.New("destination already contains data")

// MigrateData copies all known keys from src to dst.
// The destination must be empty unless force is set, in which case
// existing values are overwritten.
func MigrateData(ctx context.Context, src, dst KV, force bool) (*MigrateSummary, error) {
	if !force {
		existing, err := dst.Get(ctx, AllKeys...)
		if err != nil {
			return nil, fmt.Errorf("inspect destination: %w", err)
		}
		if len(existing) > 0 {
			return nil, ErrDestinationNotEmpty
		}
	}

	record, err := src.Get(ctx, AllKeys...)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	summary := &MigrateSummary{}
	if len(record) == 0 {
		return summary, nil
	}

	if err := dst.Set(ctx, record); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	for key := range record {
		summary.Keys = append(summary.Keys, key)
	}
	sort.Strings(summary.Keys)

	return summary, nil
}
