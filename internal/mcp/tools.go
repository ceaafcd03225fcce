// ABOUTME: MCP tool implementations for the sales tracker.
// ABOUTME: Provides status, daily count updates, totals, weekly rollup, clearing, and options.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/salesquest/internal/gate"
	"github.com/harperreed/salesquest/internal/models"
	"github.com/harperreed/salesquest/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_status",
		Description: "Get trial and subscription status (premium, trial days left, access level)",
	}, s.handleGetStatus)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_count",
		Description: "Set the contact or appointment count for one day (1-90) of the program",
	}, s.handleSetCount)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_progress",
		Description: "Get all 90 daily contact and appointment counts",
	}, s.handleGetProgress)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_totals",
		Description: "Get total contacts and appointments across the program",
	}, s.handleGetTotals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_weekly",
		Description: "Get the 13-week rollup of contacts and appointments",
	}, s.handleGetWeekly)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_progress",
		Description: "Reset every daily count to zero (requires confirm=true)",
	}, s.handleClearProgress)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_options",
		Description: "Get display preferences (theme, notifications, daily goal)",
	}, s.handleGetOptions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_options",
		Description: "Update display preferences; blue and green themes need a subscription",
	}, s.handleSetOptions)
}

// Tool input/output types

type emptyInput struct{}

type statusOutput struct {
	Access     string `json:"access"`
	IsPremium  bool   `json:"is_premium"`
	TrialStart string `json:"trial_start,omitempty"`
	TrialEnded bool   `json:"trial_ended"`
	DaysLeft   int    `json:"days_left"`
	Message    string `json:"message"`
}

type setCountInput struct {
	Kind  string `json:"kind" jsonschema:"Activity kind: contact or appointment"`
	Day   int    `json:"day" jsonschema:"Program day from 1 to 90"`
	Value int    `json:"value" jsonschema:"Count for that day, zero or more"`
}

type setCountOutput struct {
	Kind    string        `json:"kind"`
	Day     int           `json:"day"`
	Value   int           `json:"value"`
	Totals  models.Totals `json:"totals"`
	Message string        `json:"message"`
}

type progressOutput struct {
	Contacts     []int  `json:"contacts"`
	Appointments []int  `json:"appointments"`
	LastSave     string `json:"last_save,omitempty"`
	DailyGoal    int    `json:"daily_goal"`
}

type weeklyOutput struct {
	Weeks []models.WeekTotal `json:"weeks"`
}

type clearInput struct {
	Confirm bool `json:"confirm" jsonschema:"Must be true to reset all counts"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type setOptionsInput struct {
	ThemeColor    string `json:"theme_color,omitempty" jsonschema:"Theme: light, dark, blue or green"`
	Notifications *bool  `json:"notifications,omitempty" jsonschema:"Enable daily reminder notifications"`
	DailyGoal     int    `json:"daily_goal,omitempty" jsonschema:"Daily activity goal from 1 to 100"`
}

// Tool handlers

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func newStatusOutput(st gate.Status) statusOutput {
	out := statusOutput{
		Access:     st.Access().String(),
		IsPremium:  st.IsPremium,
		TrialStart: formatTime(st.TrialStart),
		TrialEnded: st.TrialEnded,
		DaysLeft:   st.DaysLeft,
	}
	switch st.Access() {
	case gate.AccessFull:
		out.Message = "Premium subscription active."
	case gate.AccessTrial:
		out.Message = fmt.Sprintf("Trial active: %d days left.", st.DaysLeft)
	default:
		out.Message = "Trial ended. Subscribe to unlock export, print, and premium themes."
	}
	return out
}

func (s *Server) handleGetStatus(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, statusOutput, error) {
	return nil, newStatusOutput(s.session.Refresh(ctx)), nil
}

func (s *Server) handleSetCount(ctx context.Context, req *mcp.CallToolRequest, input setCountInput) (*mcp.CallToolResult, setCountOutput, error) {
	kind, err := models.ParseKind(input.Kind)
	if err != nil {
		return nil, setCountOutput{}, err
	}

	index, err := tracker.DayIndex(input.Day)
	if err != nil {
		return nil, setCountOutput{}, err
	}

	if err := s.session.Store.SetCount(ctx, kind, index, input.Value); err != nil {
		return nil, setCountOutput{}, fmt.Errorf("failed to set count: %w", err)
	}

	return nil, setCountOutput{
		Kind:    string(kind),
		Day:     input.Day,
		Value:   input.Value,
		Totals:  s.session.Store.Totals(),
		Message: fmt.Sprintf("Day %d %s set to %d", input.Day, models.KindLabels[kind], input.Value),
	}, nil
}

func (s *Server) handleGetProgress(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, progressOutput, error) {
	p := s.session.Store.Snapshot()
	return nil, progressOutput{
		Contacts:     p.Contacts[:],
		Appointments: p.Appointments[:],
		LastSave:     formatTime(s.session.Store.LastSave()),
		DailyGoal:    s.session.CurrentOptions().DailyGoal,
	}, nil
}

func (s *Server) handleGetTotals(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, models.Totals, error) {
	return nil, s.session.Store.Totals(), nil
}

func (s *Server) handleGetWeekly(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, weeklyOutput, error) {
	return nil, weeklyOutput{Weeks: s.session.Store.WeeklyRollup()}, nil
}

func (s *Server) handleClearProgress(ctx context.Context, req *mcp.CallToolRequest, input clearInput) (*mcp.CallToolResult, simpleOutput, error) {
	if !input.Confirm {
		return nil, simpleOutput{}, fmt.Errorf("refusing to clear progress without confirm=true")
	}
	if err := s.session.Store.Clear(ctx); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to clear progress: %w", err)
	}
	return nil, simpleOutput{Message: "All progress cleared."}, nil
}

func (s *Server) handleGetOptions(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, models.Options, error) {
	return nil, s.session.CurrentOptions(), nil
}

func (s *Server) handleSetOptions(ctx context.Context, req *mcp.CallToolRequest, input setOptionsInput) (*mcp.CallToolResult, models.Options, error) {
	opts := s.session.CurrentOptions()
	if input.ThemeColor != "" {
		opts.ThemeColor = input.ThemeColor
	}
	if input.Notifications != nil {
		opts.Notifications = *input.Notifications
	}
	if input.DailyGoal != 0 {
		opts.DailyGoal = input.DailyGoal
	}

	if err := s.session.SaveOptions(ctx, opts); err != nil {
		return nil, models.Options{}, fmt.Errorf("failed to save options: %w", err)
	}
	return nil, opts, nil
}
