// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, gating of options, and resource handlers.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/salesquest/internal/app"
	"github.com/harperreed/salesquest/internal/logging"
	"github.com/harperreed/salesquest/internal/models"
	"github.com/harperreed/salesquest/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "salesquest.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// setupServer starts a session over db with the clock at now.
func setupServer(t *testing.T, db storage.KV, now time.Time) *Server {
	t.Helper()

	session := app.Start(context.Background(), db, logging.Nop(), func() time.Time { return now })
	server, err := NewServer(session, logging.Nop())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupServer(t, setupTestDB(t), testNow)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.session == nil {
		t.Error("Expected non-nil session")
	}
}

func TestHandleGetStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	fresh := setupServer(t, db, testNow)
	_, out, err := fresh.handleGetStatus(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Access != "trial" || out.DaysLeft != 7 || out.TrialEnded {
		t.Errorf("fresh status = %+v, want trial with 7 days left", out)
	}
	if out.TrialStart == "" {
		t.Error("Expected trial start to be recorded")
	}

	later := setupServer(t, db, testNow.Add(8*24*time.Hour))
	_, out, err = later.handleGetStatus(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Access != "limited" || !out.TrialEnded || out.DaysLeft != 0 {
		t.Errorf("expired status = %+v, want limited", out)
	}
	if !strings.Contains(out.Message, "Subscribe") {
		t.Errorf("Message = %q, want subscribe hint", out.Message)
	}
}

func TestHandleSetCount(t *testing.T) {
	db := setupTestDB(t)
	server := setupServer(t, db, testNow)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     setCountInput
		wantErr   bool
		errSubstr string
	}{
		{name: "first day contacts", input: setCountInput{Kind: "contact", Day: 1, Value: 4}},
		{name: "last day appointments", input: setCountInput{Kind: "appointments", Day: 90, Value: 2}},
		{name: "short kind", input: setCountInput{Kind: "c", Day: 45, Value: 1}},
		{name: "day zero", input: setCountInput{Kind: "contact", Day: 0, Value: 1}, wantErr: true, errSubstr: "day 0 outside 1..90"},
		{name: "day 91", input: setCountInput{Kind: "contact", Day: 91, Value: 1}, wantErr: true, errSubstr: "day 91 outside 1..90"},
		{name: "negative", input: setCountInput{Kind: "contact", Day: 3, Value: -1}, wantErr: true, errSubstr: "negative"},
		{name: "bad kind", input: setCountInput{Kind: "listing", Day: 3, Value: 1}, wantErr: true, errSubstr: "unknown kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleSetCount(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("error = %q, want substring %q", err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Day != tt.input.Day || out.Value != tt.input.Value {
				t.Errorf("output = %+v", out)
			}
		})
	}

	// Persisted through the shared store.
	reloaded := setupServer(t, db, testNow)
	p := reloaded.session.Store.Snapshot()
	if p.Contacts[0] != 4 || p.Appointments[89] != 2 || p.Contacts[44] != 1 {
		t.Errorf("reloaded progress mismatch: contacts[0]=%d appointments[89]=%d contacts[44]=%d",
			p.Contacts[0], p.Appointments[89], p.Contacts[44])
	}
}

func TestHandleGetProgressTotalsWeekly(t *testing.T) {
	server := setupServer(t, setupTestDB(t), testNow)
	ctx := context.Background()

	for day := 1; day <= 90; day += 10 {
		if _, _, err := server.handleSetCount(ctx, &mcp.CallToolRequest{}, setCountInput{Kind: "contact", Day: day, Value: 2}); err != nil {
			t.Fatalf("set count: %v", err)
		}
	}

	_, progress, err := server.handleGetProgress(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(progress.Contacts) != 90 || len(progress.Appointments) != 90 {
		t.Errorf("progress lengths = %d, %d", len(progress.Contacts), len(progress.Appointments))
	}
	if progress.LastSave == "" {
		t.Error("Expected last save timestamp")
	}
	if progress.DailyGoal != models.DefaultDailyGoal {
		t.Errorf("DailyGoal = %d, want %d", progress.DailyGoal, models.DefaultDailyGoal)
	}

	_, totals, err := server.handleGetTotals(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if totals.Contacts != 18 || totals.Appointments != 0 {
		t.Errorf("totals = %+v, want 18 contacts", totals)
	}

	_, weekly, err := server.handleGetWeekly(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(weekly.Weeks) != 13 {
		t.Fatalf("weeks = %d, want 13", len(weekly.Weeks))
	}
	sum := 0
	for _, w := range weekly.Weeks {
		sum += w.Contacts
	}
	if sum != totals.Contacts {
		t.Errorf("weekly sum = %d, want %d", sum, totals.Contacts)
	}
}

func TestHandleClearProgress(t *testing.T) {
	server := setupServer(t, setupTestDB(t), testNow)
	ctx := context.Background()

	if _, _, err := server.handleSetCount(ctx, &mcp.CallToolRequest{}, setCountInput{Kind: "a", Day: 5, Value: 3}); err != nil {
		t.Fatalf("set count: %v", err)
	}

	if _, _, err := server.handleClearProgress(ctx, &mcp.CallToolRequest{}, clearInput{}); err == nil {
		t.Error("Expected error without confirm")
	}
	if server.session.Store.Totals().Appointments != 3 {
		t.Error("progress cleared without confirm")
	}

	if _, _, err := server.handleClearProgress(ctx, &mcp.CallToolRequest{}, clearInput{Confirm: true}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := server.session.Store.Totals(); got != (models.Totals{}) {
		t.Errorf("totals after clear = %+v", got)
	}
}

func TestHandleOptions(t *testing.T) {
	db := setupTestDB(t)
	server := setupServer(t, db, testNow)
	ctx := context.Background()

	_, opts, err := server.handleGetOptions(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if opts != models.DefaultOptions() {
		t.Errorf("options = %+v, want defaults", opts)
	}

	off := false
	_, opts, err = server.handleSetOptions(ctx, &mcp.CallToolRequest{}, setOptionsInput{ThemeColor: "dark", Notifications: &off, DailyGoal: 10})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if opts.ThemeColor != "dark" || opts.Notifications || opts.DailyGoal != 10 {
		t.Errorf("options = %+v", opts)
	}

	if _, _, err := server.handleSetOptions(ctx, &mcp.CallToolRequest{}, setOptionsInput{ThemeColor: "blue"}); err == nil {
		t.Error("Expected premium theme to be rejected during trial")
	}
	if _, _, err := server.handleSetOptions(ctx, &mcp.CallToolRequest{}, setOptionsInput{DailyGoal: 500}); err == nil {
		t.Error("Expected goal above 100 to be rejected")
	}

	if err := server.session.Gate.SetPremium(ctx, true); err != nil {
		t.Fatalf("SetPremium: %v", err)
	}
	server.session.Refresh(ctx)
	if _, _, err := server.handleSetOptions(ctx, &mcp.CallToolRequest{}, setOptionsInput{ThemeColor: "blue"}); err != nil {
		t.Errorf("premium theme rejected for premium user: %v", err)
	}

	reloaded := setupServer(t, db, testNow)
	if got := reloaded.session.CurrentOptions(); got.ThemeColor != "blue" || got.DailyGoal != 10 {
		t.Errorf("reloaded options = %+v", got)
	}
}

func TestHandleProgressResource(t *testing.T) {
	server := setupServer(t, setupTestDB(t), testNow)
	ctx := context.Background()

	if _, _, err := server.handleSetCount(ctx, &mcp.CallToolRequest{}, setCountInput{Kind: "contact", Day: 2, Value: 7}); err != nil {
		t.Fatalf("set count: %v", err)
	}

	result, err := server.handleProgressResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Contents) == 0 {
		t.Fatal("Expected non-empty contents")
	}
	if result.Contents[0].URI != progressURI {
		t.Errorf("URI = %s, want %s", result.Contents[0].URI, progressURI)
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %s, want application/json", result.Contents[0].MIMEType)
	}

	var doc map[string][]int
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc["contacts"][1] != 7 {
		t.Errorf("contacts[1] = %d, want 7", doc["contacts"][1])
	}
}

func TestHandleWeeklyResource(t *testing.T) {
	server := setupServer(t, setupTestDB(t), testNow)

	result, err := server.handleWeeklyResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var out struct {
		Totals models.Totals      `json:"totals"`
		Weeks  []models.WeekTotal `json:"weeks"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out.Weeks) != 13 {
		t.Errorf("weeks = %d, want 13", len(out.Weeks))
	}
	if out.Weeks[12].Days != 6 {
		t.Errorf("week 13 days = %d, want 6", out.Weeks[12].Days)
	}
}

func TestHandleStatusResource(t *testing.T) {
	server := setupServer(t, setupTestDB(t), testNow)

	result, err := server.handleStatusResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != statusURI {
		t.Errorf("URI = %s, want %s", result.Contents[0].URI, statusURI)
	}
	if !strings.Contains(result.Contents[0].Text, `"access": "trial"`) {
		t.Errorf("status text = %s", result.Contents[0].Text)
	}
}
