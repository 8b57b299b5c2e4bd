package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/me/spq/internal/config"
	"github.com/me/spq/internal/logging"
	"github.com/me/spq/internal/quotes"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagDataDir   string
	flagStore     string
	flagUsers     string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg    config.ServerConfig
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the spq CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spq",
		Short: "SPQ — South Park quotes dashboard admin tool",
		Long:  "spq inspects and manages the quotes dataset and credential file used by the SPQ dashboard server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			if flagDataDir != "" {
				cfg.DataDir = flagDataDir
			}
			if flagStore != "" {
				cfg.Store = flagStore
			}
			if flagUsers != "" {
				cfg.UsersFile = flagUsers
			}
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			if flagLogFormat != "" {
				cfg.LogFormat = flagLogFormat
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default \"data\", or SPQ_DATA_DIR)")
	root.PersistentFlags().StringVar(&flagStore, "store", "", "Quotes backend: sqlite or file (default sqlite)")
	root.PersistentFlags().StringVar(&flagUsers, "users", "", "Credential dataset path (default <data-dir>/users.json)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Shorthand for --log-level=debug")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newSeedCmd(),
		newQuotesCmd(),
		newUsersCmd(),
		newTokenCmd(),
	)

	return root
}

// openStore opens the configured quotes backend, migrating sqlite
// schemas as needed.
func openStore(ctx context.Context) (quotes.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	switch cfg.Store {
	case config.StoreSQLite:
		st, err := quotes.NewSQLiteStore(cfg.QuotesDBPath(), logger)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	case config.StoreFile:
		return quotes.NewFileStore(cfg.QuotesFilePath(), logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
