// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio MCP server as the long-lived host for agents.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/salesquest/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and shares the same trial gate and
progress store as the CLI. Logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "salesquest": {
        "command": "salesquest",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_status       Trial and subscription status
  set_count        Set contacts or appointments for a day (1-90)
  get_progress     All 90 daily counts
  get_totals       Program totals
  get_weekly       13-week rollup
  clear_progress   Reset all counts (confirm=true)
  get_options      Display preferences
  set_options      Update display preferences

AVAILABLE RESOURCES:

  salesquest://progress   Daily counts in the export format
  salesquest://weekly     Totals and weekly rollup
  salesquest://status     Subscription status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(session, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
