// ABOUTME: Tests for startup session loading.
// ABOUTME: Checks the happy path, degraded startup on read failures, and status refresh.
package app

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/salesquest/internal/gate"
	"github.com/harperreed/salesquest/internal/logging"
	"github.com/harperreed/salesquest/internal/models"
	"github.com/harperreed/salesquest/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func TestStartFresh(t *testing.T) {
	kv := storagetest.New(t)
	s := Start(context.Background(), kv, logging.Nop(), func() time.Time { return start })

	require.NoError(t, s.StatusErr)
	require.NoError(t, s.LoadErr)
	require.NoError(t, s.PrefsErr)
	assert.True(t, s.Status.JustStarted)
	assert.Equal(t, gate.AccessTrial, s.Status.Access())
	assert.Equal(t, models.DefaultOptions(), s.Options)
	assert.True(t, s.Allows(gate.FeatureExport))
	assert.Equal(t, models.Totals{}, s.Store.Totals())
}

func TestStartSharesStorage(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New(t)
	clock := func() time.Time { return start }

	first := Start(ctx, kv, logging.Nop(), clock)
	require.NoError(t, first.Store.SetCount(ctx, models.KindContact, 4, 6))

	second := Start(ctx, kv, logging.Nop(), clock)
	require.NoError(t, second.LoadErr)
	assert.Equal(t, 6, second.Store.Snapshot().Contacts[4])
	assert.False(t, second.Status.JustStarted)

	// Both sessions stay live; neither overwrites the other's days.
	require.NoError(t, second.Store.SetCount(ctx, models.KindAppointment, 20, 3))
	require.NoError(t, first.Store.SetCount(ctx, models.KindContact, 5, 1))

	third := Start(ctx, kv, logging.Nop(), clock)
	p := third.Store.Snapshot()
	assert.Equal(t, 6, p.Contacts[4])
	assert.Equal(t, 1, p.Contacts[5])
	assert.Equal(t, 3, p.Appointments[20])
}

func TestStartDegradesOnReadFailure(t *testing.T) {
	kv := storagetest.New(t)
	kv.FailGet(true)

	s := Start(context.Background(), kv, logging.Nop(), nil)

	assert.ErrorIs(t, s.StatusErr, gate.ErrStatusUnavailable)
	assert.Error(t, s.LoadErr)
	assert.Error(t, s.PrefsErr)
	assert.Equal(t, gate.SafeDefault, s.Status)
	assert.Equal(t, gate.AccessLimited, s.Status.Access())
	assert.False(t, s.Allows(gate.FeatureExport))
	assert.Equal(t, models.DefaultOptions(), s.Options)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New(t)
	now := start
	s := Start(ctx, kv, logging.Nop(), func() time.Time { return now })

	now = start.Add(10 * 24 * time.Hour)
	assert.True(t, s.Refresh(ctx).TrialEnded)

	require.NoError(t, s.Gate.SetPremium(ctx, true))
	assert.Equal(t, gate.AccessFull, s.Refresh(ctx).Access())

	kv.FailGet(true)
	assert.Equal(t, gate.SafeDefault, s.Refresh(ctx))
	assert.ErrorIs(t, s.StatusErr, gate.ErrStatusUnavailable)
}

func TestSaveOptionsPremiumTheme(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New(t)
	s := Start(ctx, kv, logging.Nop(), func() time.Time { return start })

	err := s.SaveOptions(ctx, models.Options{ThemeColor: "blue", DailyGoal: 5})
	assert.ErrorIs(t, err, ErrPremiumRequired)
	assert.Equal(t, models.DefaultOptions(), s.CurrentOptions())

	require.NoError(t, s.SaveOptions(ctx, models.Options{ThemeColor: "dark", DailyGoal: 8}))
	assert.Equal(t, 8, s.CurrentOptions().DailyGoal)

	require.NoError(t, s.Gate.SetPremium(ctx, true))
	s.Refresh(ctx)
	require.NoError(t, s.SaveOptions(ctx, models.Options{ThemeColor: "green", DailyGoal: 8}))

	require.NoError(t, s.Gate.SetPremium(ctx, false))
	s.Refresh(ctx)
	require.NoError(t, s.SaveOptions(ctx, models.Options{ThemeColor: "green", Notifications: true, DailyGoal: 3}),
		"keeping an existing premium theme is allowed")

	reset, err := s.ResetOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultOptions(), reset)
	assert.Equal(t, reset, s.CurrentOptions())
}
