package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ytget/yt-queue/internal/config"
)

// env is the state shared by all commands once PersistentPreRunE has run
type env struct {
	cfgFile  string
	logLevel string

	cfg    *config.Config
	viper  *viper.Viper
	logger *slog.Logger
}

// Execute runs the root command until it returns or the process is interrupted
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand(version).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Queue and download YouTube videos with yt-dlp",
		Long: `yt-queue resolves video and playlist links with yt-dlp, keeps them in a
download queue with a configurable number of parallel downloads and merges
the selected resolution with the best audio track into an mp4 file.

Without a subcommand the desktop app is started.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd.Context(), e, version)
		},
	}

	cmd.PersistentFlags().StringVar(&e.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/yt-queue/config.yaml)")
	cmd.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newDownloadCommand(e), newCacheCommand(e))
	return cmd
}

// load reads the configuration and installs the logger
func (e *env) load() error {
	cfg, v, err := config.Load(e.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if e.logLevel != "" {
		cfg.Logging.Level = e.logLevel
	}

	logger, err := config.InitLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	e.cfg, e.viper, e.logger = cfg, v, logger
	return nil
}
