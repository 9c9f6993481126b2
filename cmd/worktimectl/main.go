/*
main.go - Command-line client operating directly on the store

PURPOSE:
  Stamp, inspect and correct work time from the terminal without a
  running server. Opens the same SQLite file the server uses; all
  figures come from the same engine, so CLI and API can never disagree.

COMMANDS:
  stamp             Toggle clock in/out
  status            Show the current clock state
  day [date]        Computed stats for a day (default today)
  week [year week]  ISO week totals (default current week)
  balance           Overtime ledger balance
  adjust            Book a manual overtime correction

SEE ALSO:
  - commands.go: Command implementations
  - cmd/server/main.go: The HTTP server over the same store
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/worktime-engine/config"
	"github.com/warp/worktime-engine/store/sqlite"
	"github.com/warp/worktime-engine/worktime"
)

var (
	cfg     *config.Config
	store   *sqlite.Store
	tracker *worktime.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "worktimectl",
	Short: "Track work time from the terminal",
	Long: `worktimectl stamps, inspects and corrects work time directly
against the tracker database, using the same rules as the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
			cfg.DatabasePath = dbPath
		}
		store, err = sqlite.New(cfg.DatabasePath)
		if err != nil {
			return err
		}
		tracker = worktime.NewTracker(store, cfg.Location())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "YAML config path")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides config)")

	rootCmd.AddCommand(stampCmd, statusCmd, dayCmd, weekCmd, balanceCmd, adjustCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
