package main

import (
	"os"

	"github.com/dkeye/huddle/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "huddle",
		Short:         "Real-time rooms with chat, video slots and peer signaling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Keys match the config file so viper can bind them directly.
	flags := root.PersistentFlags()
	flags.String("mode", "release", "gin mode: debug, release or test")
	flags.Int("port", 8080, "HTTP listen port")
	flags.String("db_path", "./huddle.db", "SQLite database file")
	flags.String("log_level", "info", "zerolog level")
	flags.Int("slot_capacity", 3, "video slots per room")

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// setupLogger initializes the global logger early so config.Load can use it.
func setupLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	setupLogger()
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return cfg, nil
}
