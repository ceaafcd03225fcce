// ABOUTME: Tests for display preference persistence.
// ABOUTME: Covers defaults, validation of theme and goal, save/load, reset, and backend failures.
package prefs

import (
	"context"
	"testing"

	"github.com/harperreed/salesquest/internal/models"
	"github.com/harperreed/salesquest/internal/storage"
	"github.com/harperreed/salesquest/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s := New(storagetest.New(t))

	opts, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultOptions(), opts)
}

func TestLoadPartial(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New(t)
	require.NoError(t, kv.Set(ctx, map[string][]byte{storage.KeyThemeColor: []byte(`"dark"`)}))

	opts, err := New(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, opts.Theme())
	assert.True(t, opts.Notifications)
	assert.Equal(t, models.DefaultDailyGoal, opts.DailyGoal)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    models.Options
		wantErr bool
	}{
		{"defaults", models.DefaultOptions(), false},
		{"green max goal", models.Options{ThemeColor: "green", DailyGoal: 100}, false},
		{"dark goal one", models.Options{ThemeColor: "dark", Notifications: true, DailyGoal: 1}, false},
		{"unknown theme", models.Options{ThemeColor: "purple", DailyGoal: 5}, true},
		{"empty theme", models.Options{DailyGoal: 5}, true},
		{"goal zero", models.Options{ThemeColor: "light", DailyGoal: 0}, true},
		{"goal negative", models.Options{ThemeColor: "light", DailyGoal: -4}, true},
		{"goal too high", models.Options{ThemeColor: "light", DailyGoal: 101}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.opts)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOptions)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveLoadReset(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New(t)
	s := New(kv)

	want := models.Options{ThemeColor: "blue", Notifications: false, DailyGoal: 12}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	reset, err := s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultOptions(), reset)

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultOptions(), got)
}

func TestSaveInvalidWritesNothing(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New(t)
	s := New(kv)

	err := s.Save(ctx, models.Options{ThemeColor: "neon", DailyGoal: 5})
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Equal(t, 0, kv.Sets())
}

func TestBackendFailures(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New(t)
	s := New(kv)

	kv.FailSet(true)
	assert.ErrorIs(t, s.Save(ctx, models.DefaultOptions()), storagetest.ErrInjected)

	kv.FailGet(true)
	opts, err := s.Load(ctx)
	assert.ErrorIs(t, err, storagetest.ErrInjected)
	assert.Equal(t, models.DefaultOptions(), opts)
}
