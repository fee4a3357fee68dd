package cmd

import (
	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "rooted",
	Short: "Grow learning targets from sprout to hall of fame",
	Long: "Rooted tracks what you are learning as targets that grow through five stages:\n" +
		"SPROUTING, BUDDING, BLOOMING, MASTERED and HALL_OF_FAME. Each review moves\n" +
		"a target's streak and SM-2 schedule forward and may promote it.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ROOTED_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides ROOTED_CONFIG env var)")
	rootCmd.PersistentFlags().String("tz", "", "Time zone used to count study days (overrides ROOTED_TZ env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(greenhouseCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (ROOTED_DB or config file), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
