package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnlink/internal/config"
	"github.com/abhisek/learnlink/internal/logger"
	"github.com/abhisek/learnlink/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "learnlink",
	Short:        "Course platform console",
	Long:         "LearnLink: console for admins, instructors and students over MongoDB, Cassandra and Dgraph.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/learnlink/config.yaml)")
	rootCmd.PersistentFlags().String("journal", "", "Path to the local write journal (overrides LEARNLINK_JOURNAL)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the file named by --config, then .env and environment
// overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("journal"); p != "" {
		cfg.Journal.Path = p
	}
	return cfg, nil
}

// resolveJournalPath returns the journal path using --journal or the
// config (highest priority), then the default XDG path.
func resolveJournalPath(cfg config.Config) (string, error) {
	if p := cfg.Journal.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openJournal(cfg config.Config) (*store.Store, error) {
	path, err := resolveJournalPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve journal path: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return st, nil
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	file, err := cfg.LogFile()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode, file)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}
