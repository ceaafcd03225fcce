// ABOUTME: CLI commands for trial and subscription status.
// ABOUTME: Provides status, subscribe, and the hidden premium writer used by the payment hook.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/salesquest/internal/gate"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show trial and subscription status",
	Long: `Show whether you have full, trial, or limited access.

ACCESS LEVELS:

  full      premium subscription active
  trial     within the 7-day free trial (day 7 is the last trial day)
  limited   trial ended; tracking still works, export/print/premium themes do not

EXAMPLES:

  salesquest status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		st := session.CurrentStatus()
		faint := color.New(color.Faint)

		switch st.Access() {
		case gate.AccessFull:
			fmt.Fprintln(out, color.GreenString("✓ Premium subscription active"))
		case gate.AccessTrial:
			fmt.Fprintln(out, color.GreenString("✓ Free trial: %d %s left", st.DaysLeft, plural(st.DaysLeft, "day", "days")))
		default:
			fmt.Fprintln(out, color.YellowString("⚠ Your free trial has ended."))
			fmt.Fprintf(out, "Subscribe to unlock export, print, and premium themes: %s\n", cfg.GetSubscribeURL())
		}

		if st.TrialStart != nil {
			fmt.Fprintln(out, faint.Sprintf("Trial started %s", st.TrialStart.Local().Format("2006-01-02 15:04")))
		}
		fmt.Fprintln(out, faint.Sprintf("Access: %s", st.Access()))
		return nil
	},
}

var subscribeCmd = &cobra.Command{
	Use:         "subscribe",
	Short:       "Show the subscription purchase link",
	Annotations: noStorage(),
	Long: `Print the link to purchase a SalesQuest subscription.

Purchases are processed outside SalesQuest. Premium access is applied
once the payment is confirmed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cfg.GetSubscribeURL())
		return nil
	},
}

var premiumCmd = &cobra.Command{
	Use:       "premium <grant|revoke>",
	Short:     "Set the premium flag",
	Hidden:    true,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"grant", "revoke"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var premium bool
		var done string
		switch args[0] {
		case "grant":
			premium, done = true, "granted"
		case "revoke":
			premium, done = false, "revoked"
		default:
			return fmt.Errorf("unknown action: %s (use grant or revoke)", args[0])
		}

		if err := session.Gate.SetPremium(cmd.Context(), premium); err != nil {
			return err
		}
		logger.Info().Bool("premium", premium).Msg("premium flag updated")
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Premium %s", done))
		return nil
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(premiumCmd)
}
