// ABOUTME: CLI commands for exporting and importing progress.
// ABOUTME: Supports the JSON download, YAML, Markdown, and a printable HTML report.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/salesquest/internal/gate"
	"github.com/harperreed/salesquest/internal/tracker"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export progress",
	Long: `Export your 90-day progress.

FORMATS:

  json       {"contacts": [...90], "appointments": [...90]} (backup/restore)
  yaml       Totals, weekly rollup, and active days (human-readable)
  markdown   Summary, weekly, and daily tables
  html       Printable "90-Day Sales Progress Report"

Export needs premium or an active trial. The html report is the print feature
and follows the same rule.

EXAMPLES:

  salesquest export json -o sales_quest_data.json
  salesquest export markdown
  salesquest export html -o report.html`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown", "html"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		feature := gate.FeatureExport
		if format == "html" {
			feature = gate.FeaturePrint
		}
		if !session.Allows(feature) {
			return fmt.Errorf("%s is available with a subscription or during the free trial: %s", feature, cfg.GetSubscribeURL())
		}

		p := session.Store.Snapshot()
		var data []byte
		var err error

		switch format {
		case "json":
			data, err = tracker.ExportJSON(p)
		case "yaml":
			data, err = tracker.ExportYAML(p, now())
		case "markdown", "md":
			data = []byte(tracker.ExportMarkdown(p, now()))
		case "html":
			data, err = tracker.ExportHTML(p)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, markdown, or html)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Exported to %s", exportOutput))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import progress from a JSON export",
	Long: `Replace all progress with the contents of a JSON export.

The file must hold exactly 90 non-negative counts for both contacts and
appointments, as written by 'salesquest export json'.

EXAMPLES:

  salesquest import sales_quest_data.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		p, err := tracker.ParseJSON(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if err := session.Store.Replace(cmd.Context(), p); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Imported from %s", filename))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
