// ABOUTME: Display preference persistence: theme color, notifications, and daily goal.
// ABOUTME: Validates with struct tags and writes all three keys in one atomic set.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/gookit/validate"
	"github.com/harperreed/salesquest/internal/models"
	"github.com/harperreed/salesquest/internal/storage"
)

// ErrInvalidOptions means options failed validation and were not saved.
var ErrInvalidOptions = errors.New("invalid options")

// Store reads and writes Options.
type Store struct {
	kv storage.KV
}

// New creates a preference store over kv.
func New(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Load returns saved options, filling absent keys with defaults.
func (s *Store) Load(ctx context.Context) (models.Options, error) {
	opts := models.DefaultOptions()

	record, err := s.kv.Get(ctx, storage.KeyThemeColor, storage.KeyNotifications, storage.KeyDailyGoal)
	if err != nil {
		return opts, fmt.Errorf("load options: %w", err)
	}

	if _, err := storage.Decode(record, storage.KeyThemeColor, &opts.ThemeColor); err != nil {
		return models.DefaultOptions(), err
	}
	if _, err := storage.Decode(record, storage.KeyNotifications, &opts.Notifications); err != nil {
		return models.DefaultOptions(), err
	}
	if _, err := storage.Decode(record, storage.KeyDailyGoal, &opts.DailyGoal); err != nil {
		return models.DefaultOptions(), err
	}
	return opts, nil
}

// Validate checks theme and goal ranges.
func Validate(opts models.Options) error {
	v := validate.Struct(&opts)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, v.Errors.One())
	}
	return nil
}

// Save validates opts and writes them.
func (s *Store) Save(ctx context.Context, opts models.Options) error {
	if err := Validate(opts); err != nil {
		return err
	}

	record, err := storage.Record(map[string]any{
		storage.KeyThemeColor:    opts.ThemeColor,
		storage.KeyNotifications: opts.Notifications,
		storage.KeyDailyGoal:     opts.DailyGoal,
	})
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, record); err != nil {
		return fmt.Errorf("save options: %w", err)
	}
	return nil
}

// Reset saves the defaults.
func (s *Store) Reset(ctx context.Context) (models.Options, error) {
	opts := models.DefaultOptions()
	return opts, s.Save(ctx, opts)
}
