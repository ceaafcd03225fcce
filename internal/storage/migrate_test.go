// ABOUTME: Tests for migrating data between storage backends.
// ABOUTME: Covers full copy, empty source, and the non-empty destination guard.

package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMigrateData(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	dst := setupTestBadger(t)

	record, err := Record(map[string]any{
		KeyTrialStartDate:    "2026-10-01T00:00:00Z",
		KeyDailyContacts:     []int{3, 4},
		KeyDailyAppointments: []int{1},
		KeyThemeColor:        "dark",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := src.Set(ctx, record); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	summary, err := MigrateData(ctx, src, dst, false)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if len(summary.Keys) != 4 {
		t.Errorf("expected 4 keys migrated, got %v", summary.Keys)
	}

	got, err := dst.Get(ctx, AllKeys...)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	for key, want := range record {
		if string(got[key]) != string(want) {
			t.Errorf("%s = %s, want %s", key, got[key], want)
		}
	}
}

func TestMigrateDataEmptySource(t *testing.T) {
	summary, err := MigrateData(context.Background(), setupTestDB(t), setupTestBadger(t), false)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if len(summary.Keys) != 0 {
		t.Errorf("expected no keys, got %v", summary.Keys)
	}
}

func TestMigrateDataDestinationNotEmpty(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	dst := setupTestBadger(t)

	if err := src.Set(ctx, map[string][]byte{KeyDailyGoal: []byte("7")}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := dst.Set(ctx, map[string][]byte{KeyDailyGoal: []byte("3")}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, err := MigrateData(ctx, src, dst, false)
	if !errors.Is(err, ErrDestinationNotEmpty) {
		t.Fatalf("expected ErrDestinationNotEmpty, got %v", err)
	}

	if _, err := MigrateData(ctx, src, dst, true); err != nil {
		t.Fatalf("forced MigrateData failed: %v", err)
	}
	got, _ := dst.Get(ctx, KeyDailyGoal)
	if string(got[KeyDailyGoal]) != "7" {
		t.Errorf("dailyGoal = %s, want 7", got[KeyDailyGoal])
	}
}
