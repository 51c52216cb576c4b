package cli

import (
	"github.com/spf13/cobra"

	"github.com/eleven-am/dayplan/internal/config"
	"github.com/eleven-am/dayplan/internal/logger"
	"github.com/eleven-am/dayplan/internal/version"
)

// Global configuration variables
var (
	configFile  string
	cfg         *config.Config
	databaseURL string
	debug       bool
	verbose     bool
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dayplan",
		Short: "dayplan - date-partitioned todo backend",
		Long: `dayplan is the HTTP backend for a daily todo list with nested
subtasks and explicit manual ordering.

Todos are partitioned by calendar date and subtasks by their parent todo;
within a partition the order is a dense user-controlled sequence maintained
through atomic reorder batches.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			cfg, err = config.Load(configFile)
			if err != nil {
				if verbose {
					cmd.Printf("Warning: Failed to load config file: %v\n", err)
				}
			}
			if cfg == nil {
				cfg = config.Default()
			}

			if databaseURL == "" && cfg.Database.URL != "" {
				databaseURL = cfg.Database.URL
			}

			logger.SetLevel(logLevel(cfg.Log.Level, debug, verbose))
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: dayplan.yaml)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "url", "", "database connection URL")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// logLevel resolves the configured level, letting the verbosity flags win.
func logLevel(configured string, debug, verbose bool) logger.Level {
	if debug || verbose {
		return logger.LevelFromFlags(debug, verbose)
	}
	switch configured {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "error":
		return logger.LevelError
	case "silent":
		return logger.LevelSilent
	default:
		return logger.LevelWarn
	}
}
