// ABOUTME: CLI commands for display preferences.
// ABOUTME: Shows, updates, and resets theme color, notifications, and daily goal.
package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harperreed/salesquest/internal/app"
	"github.com/harperreed/salesquest/internal/models"
	"github.com/spf13/cobra"
)

var (
	optTheme         string
	optNotifications bool
	optGoal          int
)

var optionsCmd = &cobra.Command{
	Use:     "options",
	Aliases: []string{"opts"},
	Short:   "Manage display preferences",
	Long: `Manage display preferences.

SETTINGS:

  theme          light, dark, blue*, green*   (* premium)
  notifications  daily reminder on/off
  goal           daily activity goal, 1-100 (colors the 'show' grid)

EXAMPLES:

  salesquest options show
  salesquest options set --theme dark --goal 8
  salesquest options set --notifications=false
  salesquest options reset`,
}

var optionsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		printOptions(cmd.OutOrStdout(), session.CurrentOptions())
		return nil
	},
}

var optionsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := session.CurrentOptions()
		flags := cmd.Flags()
		if flags.Changed("theme") {
			opts.ThemeColor = optTheme
		}
		if flags.Changed("notifications") {
			opts.Notifications = optNotifications
		}
		if flags.Changed("goal") {
			opts.DailyGoal = optGoal
		}

		if err := session.SaveOptions(cmd.Context(), opts); err != nil {
			if errors.Is(err, app.ErrPremiumRequired) {
				return fmt.Errorf("%w; subscribe at %s", err, cfg.GetSubscribeURL())
			}
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Options saved"))
		printOptions(cmd.OutOrStdout(), opts)
		return nil
	},
}

var optionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := session.ResetOptions(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Options reset to defaults"))
		printOptions(cmd.OutOrStdout(), opts)
		return nil
	},
}

func printOptions(w io.Writer, opts models.Options) {
	faint := color.New(color.Faint)
	theme := opts.ThemeColor
	if models.IsPremiumTheme(opts.Theme()) {
		theme += faint.Sprint(" (premium)")
	}
	fmt.Fprintf(w, "%s %s %s\n", padRight("Theme:", 16), theme, faint.Sprint(models.ThemeColors[opts.Theme()]))
	fmt.Fprintf(w, "%s %t\n", padRight("Notifications:", 16), opts.Notifications)
	fmt.Fprintf(w, "%s %d\n", padRight("Daily goal:", 16), opts.DailyGoal)
}

func init() {
	optionsSetCmd.Flags().StringVar(&optTheme, "theme", "", "theme color: light, dark, blue, green")
	optionsSetCmd.Flags().BoolVar(&optNotifications, "notifications", true, "enable daily reminders")
	optionsSetCmd.Flags().IntVar(&optGoal, "goal", models.DefaultDailyGoal, "daily activity goal (1-100)")

	optionsCmd.AddCommand(optionsShowCmd)
	optionsCmd.AddCommand(optionsSetCmd)
	optionsCmd.AddCommand(optionsResetCmd)
	rootCmd.AddCommand(optionsCmd)
}
