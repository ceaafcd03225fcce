// ABOUTME: CLI commands for recording and viewing daily progress.
// ABOUTME: Provides set, show, totals, weekly, and clear.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/salesquest/internal/models"
	"github.com/harperreed/salesquest/internal/tracker"
	"github.com/spf13/cobra"
)

var clearYes bool

var setCmd = &cobra.Command{
	Use:     "set <kind> <day> <count>",
	Aliases: []string{"s"},
	Short:   "Set the count for one program day",
	Long: `Set the number of contacts or appointments for a program day.

KINDS:

  contact      (also: contacts, c)
  appointment  (also: appointments, appt, a)

Days run from 1 to 90. Counts must be zero or more; setting 0 clears a day.

EXAMPLES:

  salesquest set contact 1 12
  salesquest set appt 14 3
  salesquest set c 90 0`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := models.ParseKind(args[0])
		if err != nil {
			return err
		}
		day, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid day: %s (use 1-%d)", args[1], models.TotalDays)
		}
		value, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[2])
		}

		index, err := tracker.DayIndex(day)
		if err != nil {
			return err
		}

		if err := session.Store.SetCount(cmd.Context(), kind, index, value); err != nil {
			if errors.Is(err, tracker.ErrStorageUnavailable) {
				return fmt.Errorf("could not save day %d, please try again: %w", day, err)
			}
			return err
		}

		totals := session.Store.Totals()
		total := totals.Contacts
		if kind == models.KindAppointment {
			total = totals.Appointments
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Day %d %s: %d", day, models.KindLabels[kind], value)+
			color.New(color.Faint).Sprintf(" (total %d)", total))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"grid", "ls"},
	Short:   "Show the 90-day grid",
	Long: `Show every program day as a grid of 13 weeks.

Cells are colored against your daily goal (see 'salesquest options'):
green when the goal is met, yellow for partial progress, faint for no activity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := session.Store.Snapshot()
		goal := session.CurrentOptions().DailyGoal
		out := cmd.OutOrStdout()

		for i, kind := range models.AllKinds {
			if i > 0 {
				fmt.Fprintln(out)
			}
			renderGrid(out, models.KindLabels[kind], p.Sequence(kind), goal)
		}
		if saved := session.Store.LastSave(); saved != nil {
			fmt.Fprintln(out)
			fmt.Fprintln(out, color.New(color.Faint).Sprintf("Last saved %s", saved.Local().Format("2006-01-02 15:04")))
		}
		return nil
	},
}

func renderGrid(w io.Writer, label string, seq *models.Sequence, goal int) {
	fmt.Fprintf(w, "%s (goal %d/day)\n", color.New(color.Bold).Sprint(label), goal)

	header := padRight("", 9)
	for d := 1; d <= models.DaysPerWeek; d++ {
		header += padLeft(strconv.Itoa(d), 4)
	}
	fmt.Fprintln(w, color.New(color.Faint).Sprint(header))

	for week := 0; week < models.WeeksInProgram; week++ {
		var sb strings.Builder
		sb.WriteString(padRight(fmt.Sprintf("Week %d", week+1), 9))
		for d := 0; d < models.DaysPerWeek; d++ {
			day := week*models.DaysPerWeek + d
			if day >= models.TotalDays {
				break
			}
			sb.WriteString(levelColor(models.LevelFor(seq[day], goal)).Sprint(padLeft(strconv.Itoa(seq[day]), 4)))
		}
		fmt.Fprintln(w, sb.String())
	}
}

func levelColor(level models.DayLevel) *color.Color {
	switch level {
	case models.LevelMet:
		return color.New(color.FgGreen, color.Bold)
	case models.LevelPartial:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Faint)
	}
}

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show program totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		totals := session.Store.Totals()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %d\n", padRight("Total Contacts:", 20), totals.Contacts)
		fmt.Fprintf(out, "%s %d\n", padRight("Total Appointments:", 20), totals.Appointments)
		return nil
	},
}

var weeklyCmd = &cobra.Command{
	Use:     "weekly",
	Aliases: []string{"w"},
	Short:   "Show the 13-week rollup",
	Long: `Show contacts and appointments summed per week.

Weeks 1-12 cover 7 days each. Week 13 covers the final 6 days (85-90).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)

		fmt.Fprintln(out, color.New(color.Bold).Sprintf("%s %s %s %s",
			padRight("Week", 8), padRight("Days", 8), padLeft("Contacts", 9), padLeft("Appointments", 13)))
		for _, w := range session.Store.WeeklyRollup() {
			fmt.Fprintf(out, "%s %s %s %s\n",
				padRight(fmt.Sprintf("Week %d", w.Week), 8),
				faint.Sprint(padRight(fmt.Sprintf("%d-%d", w.FirstDay+1, w.LastDay()+1), 8)),
				padLeft(strconv.Itoa(w.Contacts), 9),
				padLeft(strconv.Itoa(w.Appointments), 13))
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset all progress to zero",
	Long: `Reset every day's contacts and appointments to zero.

This cannot be undone. Export first if you want a copy:

  salesquest export json -o backup.json
  salesquest clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Clear all 90 days of progress? [y/N] ")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
				return nil
			}
		}

		if err := session.Store.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("could not clear progress, please try again: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ All progress cleared"))
		return nil
	},
}

// confirm prompts and reads a y/yes answer.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func padLeft(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(" ", length-len(s)) + s
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation prompt")

	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(weeklyCmd)
	rootCmd.AddCommand(clearCmd)
}
