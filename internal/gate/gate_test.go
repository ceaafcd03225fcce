// ABOUTME: Tests for trial/subscription evaluation and the store-backed gate.
// ABOUTME: Covers the day-7 boundary, premium override, one-time trial start, and read failures.
package gate

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/salesquest/internal/storage"
	"github.com/harperreed/salesquest/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		trialStart   *time.Time
		premium      bool
		wantEnded    bool
		wantDaysLeft int
		wantAccess   Access
	}{
		{"not started", nil, false, false, 7, AccessTrial},
		{"first day", ago(time.Hour), false, false, 7, AccessTrial},
		{"six days", ago(6 * day), false, false, 1, AccessTrial},
		{"day seven still in trial", ago(7 * day), false, false, 0, AccessTrial},
		{"seven and a half days", ago(7*day + 12*time.Hour), false, false, 0, AccessTrial},
		{"eight days", ago(8 * day), false, true, 0, AccessLimited},
		{"long expired", ago(400 * day), false, true, 0, AccessLimited},
		{"clock behind start", ago(-2 * day), false, false, 7, AccessTrial},
		{"premium fresh", ago(time.Hour), true, false, 0, AccessFull},
		{"premium expired trial", ago(30 * day), true, false, 0, AccessFull},
		{"premium never started", nil, true, false, 0, AccessFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Evaluate(now, tt.trialStart, tt.premium)
			assert.Equal(t, tt.wantEnded, s.TrialEnded, "TrialEnded")
			if !tt.premium {
				assert.Equal(t, tt.wantDaysLeft, s.DaysLeft, "DaysLeft")
			}
			assert.Equal(t, tt.wantAccess, s.Access())
			assert.GreaterOrEqual(t, s.DaysLeft, 0)
		})
	}
}

func TestElapsedDays(t *testing.T) {
	assert.Equal(t, 0, ElapsedDays(now, now))
	assert.Equal(t, 0, ElapsedDays(now, now.Add(time.Hour)))
	assert.Equal(t, 1, ElapsedDays(now, now.Add(-25*time.Hour)))
	assert.Equal(t, 6, ElapsedDays(now, now.Add(-7*day+time.Second)))
}

func TestAllows(t *testing.T) {
	trial := Evaluate(now, ago(2*day), false)
	expired := Evaluate(now, ago(9*day), false)
	premium := Evaluate(now, ago(9*day), true)

	assert.True(t, trial.Allows(FeatureExport))
	assert.True(t, trial.Allows(FeaturePrint))
	assert.False(t, trial.Allows(FeaturePremiumOptions))

	assert.False(t, expired.Allows(FeatureExport))
	assert.False(t, expired.Allows(FeaturePrint))
	assert.False(t, expired.Allows(FeaturePremiumOptions))

	assert.True(t, premium.Allows(FeatureExport))
	assert.True(t, premium.Allows(FeaturePremiumOptions))

	assert.False(t, premium.Allows(Feature("unknown")))
	assert.Equal(t, AccessLimited, SafeDefault.Access())
}

func TestCheckStartsTrialOnce(t *testing.T) {
	kv := storagetest.New(t)
	ctx := context.Background()

	clock := now
	g := New(kv, WithClock(func() time.Time { return clock }))

	first, err := g.Check(ctx)
	require.NoError(t, err)
	assert.True(t, first.JustStarted)
	assert.True(t, first.TrialStarted)
	assert.Equal(t, 7, first.DaysLeft)
	require.NotNil(t, first.TrialStart)
	assert.True(t, first.TrialStart.Equal(now))

	clock = now.Add(3 * day)
	second, err := g.Check(ctx)
	require.NoError(t, err)
	assert.False(t, second.JustStarted)
	assert.Equal(t, 4, second.DaysLeft)
	assert.True(t, second.TrialStart.Equal(now), "trial start must not move")

	clock = now.Add(8 * day)
	third, err := g.Check(ctx)
	require.NoError(t, err)
	assert.True(t, third.TrialEnded)
	assert.Equal(t, AccessLimited, third.Access())
}

func TestCheckKeepsExistingTrialStart(t *testing.T) {
	kv := storagetest.New(t)
	ctx := context.Background()

	start := now.Add(-6 * day)
	value, err := storage.Encode(start)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, map[string][]byte{storage.KeyTrialStartDate: value}))

	s, err := New(kv, WithClock(func() time.Time { return now })).Check(ctx)
	require.NoError(t, err)
	assert.False(t, s.JustStarted)
	assert.False(t, s.TrialEnded)
	assert.Equal(t, 1, s.DaysLeft)
}

func TestCheckReadsLegacyISOString(t *testing.T) {
	kv := storagetest.New(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, map[string][]byte{
		storage.KeyTrialStartDate: []byte(`"2026-10-11T09:30:00.000Z"`),
	}))

	s, err := New(kv, WithClock(func() time.Time { return now })).Check(ctx)
	require.NoError(t, err)
	assert.True(t, s.TrialEnded)
}

func TestCheckPremium(t *testing.T) {
	kv := storagetest.New(t)
	ctx := context.Background()
	clock := now
	g := New(kv, WithClock(func() time.Time { return clock }))

	require.NoError(t, g.SetPremium(ctx, true))

	s, err := g.Check(ctx)
	require.NoError(t, err)
	assert.True(t, s.IsPremium)
	assert.False(t, s.TrialEnded)
	assert.Equal(t, AccessFull, s.Access())
	require.NotNil(t, s.TrialStart, "trial start is recorded on first run regardless of premium")
	assert.True(t, s.TrialStart.Equal(now))

	// Revoking premium later must not grant a fresh trial.
	clock = now.Add(30 * 24 * time.Hour)
	require.NoError(t, g.SetPremium(ctx, false))
	s, err = g.Check(ctx)
	require.NoError(t, err)
	assert.False(t, s.JustStarted)
	assert.True(t, s.TrialEnded)
	assert.Equal(t, AccessLimited, s.Access())
}

func TestCheckReadFailure(t *testing.T) {
	kv := storagetest.New(t)
	kv.FailGet(true)

	_, err := New(kv).Check(context.Background())
	assert.ErrorIs(t, err, ErrStatusUnavailable)
	assert.ErrorIs(t, err, storagetest.ErrInjected)
}

func TestCheckCorruptFlag(t *testing.T) {
	kv := storagetest.New(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, map[string][]byte{storage.KeyIsPremium: []byte(`"yes"`)}))

	_, err := New(kv).Check(ctx)
	assert.ErrorIs(t, err, ErrStatusUnavailable)
}

func TestCheckTrialWriteFailure(t *testing.T) {
	kv := storagetest.New(t)
	kv.FailSet(true)

	s, err := New(kv, WithClock(func() time.Time { return now })).Check(context.Background())
	require.NoError(t, err)
	assert.False(t, s.JustStarted)
	assert.False(t, s.TrialStarted)
	assert.Equal(t, 7, s.DaysLeft)

	kv.FailSet(false)
	s, err = New(kv, WithClock(func() time.Time { return now })).Check(context.Background())
	require.NoError(t, err)
	assert.True(t, s.JustStarted)
}
