package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/worktime-engine/worktime"
)

var stampCmd = &cobra.Command{
	Use:     "stamp",
	Aliases: []string{"s"},
	Short:   "Toggle clock in/out",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := tracker.Stamp(context.Background(), cfg.User)
		if err != nil {
			return err
		}
		switch res.Status {
		case worktime.StampedIn:
			fmt.Printf("Clocked in at %s\n", res.Timestamp.Format("15:04"))
		case worktime.StampedOut:
			fmt.Printf("Clocked out at %s\n", res.Timestamp.Format("15:04"))
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current clock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := tracker.CurrentStatus(context.Background(), cfg.User)
		if err != nil {
			return err
		}
		if !status.ClockedIn {
			fmt.Println("Clocked out")
			return nil
		}
		fmt.Printf("Clocked in since %s (%s)\n",
			status.Since.Format("15:04"), hhmm(int(status.Duration.Seconds())))
		return nil
	},
}

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Computed stats for a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := tracker.NowLocal()
		if len(args) == 1 {
			var err error
			date, err = time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", args[0])
			}
		}

		summary, err := tracker.Day(context.Background(), cfg.User, date)
		if err != nil {
			return err
		}

		fmt.Printf("Day      %s\n", summary.Date.Format("2006-01-02 (Mon)"))
		if summary.Stats.FirstStamp.IsZero() {
			fmt.Println("No bookings")
			return nil
		}
		fmt.Printf("Stamps   %s - %s\n",
			summary.Stats.FirstStamp.Format("15:04"), summary.Stats.LastStamp.Format("15:04"))
		fmt.Printf("Worked   %s\n", hhmm(summary.Stats.WorkedSeconds))
		fmt.Printf("Pause    %s (statutory %s)\n",
			hhmm(summary.Stats.TotalPauseSeconds), hhmm(summary.Stats.StatutoryBreakSeconds))
		fmt.Printf("Overtime %s\n", hhmm(summary.Stats.OvertimeSeconds))
		if summary.Stats.Open {
			fmt.Println("Session still open")
		}
		if summary.Stats.DroppedEvents > 0 {
			fmt.Printf("Warning: %d malformed events ignored\n", summary.Stats.DroppedEvents)
		}
		return nil
	},
}

var weekCmd = &cobra.Command{
	Use:   "week [year week]",
	Short: "ISO week totals (default current week)",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, week := tracker.NowLocal().ISOWeek()
		if len(args) == 2 {
			var err error
			if year, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			if week, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid week %q", args[1])
			}
		} else if len(args) == 1 {
			return fmt.Errorf("week takes either no arguments or both year and week")
		}

		summary, err := tracker.Week(context.Background(), cfg.User, year, week)
		if err != nil {
			return err
		}

		fmt.Printf("Week     %s\n", worktime.FormatWeek(summary.Year, summary.Week))
		fmt.Printf("Worked   %s of %s\n", hhmm(summary.WorkedSeconds), hhmm(summary.TargetSeconds))
		fmt.Printf("Pause    %s\n", hhmm(summary.PauseSeconds))
		fmt.Printf("Overtime %s\n", hhmm(summary.OvertimeSeconds))
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Overtime ledger balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := tracker.Overtime(context.Background(), cfg.User)
		if err != nil {
			return err
		}
		fmt.Printf("Balance   %s (%s free days)\n",
			hhmm(report.BalanceSeconds), report.FreeDays.StringFixed(2))
		for _, adj := range report.Adjustments {
			reason := adj.Reason
			if reason == "" {
				reason = "-"
			}
			fmt.Printf("  %s  %7s  %s\n",
				adj.EffectiveAt.Format("2006-01-02"), hhmm(adj.DeltaSeconds), reason)
		}
		return nil
	},
}

var adjustCmd = &cobra.Command{
	Use:   "adjust YYYY-MM-DD SECONDS [reason]",
	Short: "Book a manual overtime correction",
	Long: `Book a correction onto a calendar day. A second adjustment on
the same day replaces the first. Seconds may be negative.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", args[0])
		}
		delta, err := strconv.Atoi(args[1])
		if err != nil || delta == 0 {
			return fmt.Errorf("invalid delta %q (non-zero seconds)", args[1])
		}
		reason := ""
		if len(args) == 3 {
			reason = args[2]
		}

		adj, err := tracker.Adjust(context.Background(), cfg.User, date, delta, reason)
		if err != nil {
			return err
		}
		fmt.Printf("Adjusted %s by %s\n",
			adj.EffectiveAt.Format("2006-01-02"), hhmm(adj.DeltaSeconds))
		return nil
	},
}

// hhmm renders seconds as a signed HH:MM string.
func hhmm(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
