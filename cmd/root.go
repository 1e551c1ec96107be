package cmd

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tg-miniapp-backend/internal/config"
)

var (
	cfg    *config.Config
	logger *logrus.Logger
)

// rootCommand only prepares shared state for its subcommands.
var rootCommand = &cobra.Command{
	Use:   "miniapp",
	Short: "Telegram Mini App backend: dating, classifieds and moderation",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).Warn("failed to read .env file")
		}
		cfg = config.Load()
		logger = newLogger(cfg.LogLevel, cfg.LogFormat)
	},
	SilenceUsage: true,
}

func init() {
	rootCommand.AddCommand(serveCommand())
	rootCommand.AddCommand(migrateCommand())
	rootCommand.AddCommand(moderatorCommand())
}

func Execute() error {
	return rootCommand.Execute()
}

func newLogger(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
