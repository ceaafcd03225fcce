// ABOUTME: Metrics store owning the two 90-day count sequences.
// ABOUTME: Validates single-cell updates, persists atomically, and derives totals and weekly rollups.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/salesquest/internal/logging"
	"github.com/harperreed/salesquest/internal/models"
	"github.com/harperreed/salesquest/internal/storage"
)

var (
	// ErrStorageUnavailable wraps any backend read or write failure.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidInput means a day index, value, or kind was out of range.
	ErrInvalidInput = errors.New("invalid input")
)

// Store holds progress in memory and persists it through a storage.KV.
// It is safe for concurrent use.
type Store struct {
	kv  storage.KV
	log logging.Logger
	now func() time.Time

	mu       sync.RWMutex
	progress models.Progress
	lastSave *time.Time

	// saveMu orders saves; each save snapshots state after acquiring it.
	saveMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for lastSaveDate.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log logging.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates an empty Store over kv. Call Load to read saved progress.
func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{kv: kv, log: logging.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads saved progress. With nothing stored it returns zero-filled
// sequences and a nil timestamp. On failure the in-memory state is reset to
// zero so callers can continue and warn.
func (s *Store) Load(ctx context.Context) (models.Progress, *time.Time, error) {
	progress, lastSave, err := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.progress = models.Progress{}
		s.lastSave = nil
		return models.Progress{}, nil, err
	}
	s.progress = progress
	s.lastSave = lastSave
	return progress, lastSave, nil
}

func (s *Store) read(ctx context.Context) (models.Progress, *time.Time, error) {
	var progress models.Progress

	record, err := s.kv.Get(ctx, storage.KeyDailyContacts, storage.KeyDailyAppointments, storage.KeyLastSaveDate)
	if err != nil {
		return progress, nil, fmt.Errorf("%w: load progress: %w", ErrStorageUnavailable, err)
	}

	for key, seq := range map[string]*models.Sequence{
		storage.KeyDailyContacts:     &progress.Contacts,
		storage.KeyDailyAppointments: &progress.Appointments,
	} {
		var values []int
		ok, err := storage.Decode(record, key, &values)
		if err != nil {
			return progress, nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		if !ok {
			continue
		}
		if len(values) != models.TotalDays {
			s.log.Warn().Str("key", key).Int("length", len(values)).Msg("stored sequence has wrong length, normalizing")
		}
		*seq = models.SequenceFromSlice(values)
	}

	if err := progress.Validate(); err != nil {
		return models.Progress{}, nil, fmt.Errorf("%w: corrupt progress: %w", ErrStorageUnavailable, err)
	}

	var saved time.Time
	ok, err := storage.Decode(record, storage.KeyLastSaveDate, &saved)
	if err != nil {
		return models.Progress{}, nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if !ok {
		return progress, nil, nil
	}
	return progress, &saved, nil
}

// DayIndex converts a 1-based program day, as hosts show it, to a 0-based index.
func DayIndex(day int) (int, error) {
	if day < 1 || day > models.TotalDays {
		return 0, fmt.Errorf("%w: day %d outside 1..%d", ErrInvalidInput, day, models.TotalDays)
	}
	return day - 1, nil
}

// SetCount validates and applies one cell update, then saves.
// Rejected input never touches state. The persisted sequences are re-read
// under the save lock and only this cell is changed, so writes from another
// Store over the same backend survive. A failed save leaves the new value in
// memory and returns an error wrapping ErrStorageUnavailable.
func (s *Store) SetCount(ctx context.Context, kind models.Kind, day, value int) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}
	if day < 0 || day >= models.TotalDays {
		return fmt.Errorf("%w: day index %d outside 0..%d", ErrInvalidInput, day, models.TotalDays-1)
	}
	if value < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidInput, value)
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	s.progress.Sequence(kind)[day] = value
	s.mu.Unlock()
	s.log.Debug().Str("kind", string(kind)).Int("day", day).Int("value", value).Msg("count applied")

	persisted, _, err := s.read(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not re-read progress before save")
		return err
	}
	persisted.Sequence(kind)[day] = value

	s.mu.Lock()
	s.progress = persisted
	s.mu.Unlock()

	return s.write(ctx, persisted)
}

// Save persists both in-memory sequences and a fresh lastSaveDate in one write.
func (s *Store) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.write(ctx, s.Snapshot())
}

// write stores progress with a new lastSaveDate. Callers hold saveMu.
func (s *Store) write(ctx context.Context, progress models.Progress) error {
	saveID := uuid.New()
	now := s.now().UTC()

	record, err := storage.Record(map[string]any{
		storage.KeyDailyContacts:     progress.Contacts[:],
		storage.KeyDailyAppointments: progress.Appointments[:],
		storage.KeyLastSaveDate:      now,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err := s.kv.Set(ctx, record); err != nil {
		s.log.Warn().Err(err).Stringer("save_id", saveID).Msg("save failed")
		return fmt.Errorf("%w: save progress: %w", ErrStorageUnavailable, err)
	}

	s.mu.Lock()
	s.lastSave = &now
	s.mu.Unlock()

	s.log.Debug().Stringer("save_id", saveID).Time("saved_at", now).Msg("progress saved")
	return nil
}

// Clear zero-fills both sequences and saves.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.progress = models.Progress{}
	s.mu.Unlock()
	return s.Save(ctx)
}

// Replace swaps in a whole document, typically from an import, and saves it.
func (s *Store) Replace(ctx context.Context, progress models.Progress) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	s.mu.Lock()
	s.progress = progress
	s.mu.Unlock()
	return s.Save(ctx)
}

// Snapshot returns a copy of the in-memory progress.
func (s *Store) Snapshot() models.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// LastSave returns the time of the last successful save, if any.
func (s *Store) LastSave() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastSave == nil {
		return nil
	}
	t := *s.lastSave
	return &t
}

// Totals sums each sequence.
func (s *Store) Totals() models.Totals {
	p := s.Snapshot()
	return p.Totals()
}

// WeeklyRollup returns the 13 weekly windows. Week 13 covers the final 6 days.
func (s *Store) WeeklyRollup() []models.WeekTotal {
	p := s.Snapshot()
	return p.Weekly()
}
