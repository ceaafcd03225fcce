// ABOUTME: MCP resource implementations for the sales tracker.
// ABOUTME: Provides salesquest://progress, salesquest://weekly, and salesquest://status resources.
package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/harperreed/salesquest/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	progressURI = "salesquest://progress"
	weeklyURI   = "salesquest://weekly"
	statusURI   = "salesquest://status"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         progressURI,
		Name:        "90-Day Progress",
		Description: "Daily contact and appointment counts in the download format",
		MIMEType:    "application/json",
	}, s.handleProgressResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         weeklyURI,
		Name:        "Weekly Rollup",
		Description: "Totals plus the 13 weekly windows",
		MIMEType:    "application/json",
	}, s.handleWeeklyResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         statusURI,
		Name:        "Subscription Status",
		Description: "Trial and premium status with access level",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// Resource handlers

func (s *Server) handleProgressResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := tracker.ExportJSON(s.session.Store.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progress: %w", err)
	}
	return jsonResource(progressURI, data), nil
}

func (s *Server) handleWeeklyResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := map[string]interface{}{
		"totals": s.session.Store.Totals(),
		"weeks":  s.session.Store.WeeklyRollup(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return jsonResource(weeklyURI, data), nil
}

func (s *Server) handleStatusResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(newStatusOutput(s.session.Refresh(ctx)), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status: %w", err)
	}
	return jsonResource(statusURI, data), nil
}

func jsonResource(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}
