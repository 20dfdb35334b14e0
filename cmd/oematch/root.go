package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/javajack/oematch/internal/config"
	"github.com/javajack/oematch/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type commandContext struct {
	configPath string
	logLevel   string
	logFormat  string
}

// load reads the config file and builds the logger, applying flag overrides.
func (c *commandContext) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, nil, err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Logging.Format = c.logFormat
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:           "oematch",
		Short:         "Match OE part numbers against a reference workbook",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `oematch looks up a list of OE part numbers in a reference workbook,
including the product pictures embedded in it, and writes the matches to a new
workbook with the matching token highlighted.`,
	}

	root.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", os.Getenv(envConfig),
		"config file (.toml, .yaml or .yml) [$"+envConfig+"]")
	root.PersistentFlags().StringVar(&ctx.logLevel, "log-level", os.Getenv(envLogLevel),
		"log level: debug, info, warn, error [$"+envLogLevel+"]")
	root.PersistentFlags().StringVar(&ctx.logFormat, "log-format", os.Getenv(envLogFormat),
		"log format: auto, text, json [$"+envLogFormat+"]")

	root.AddCommand(newMatchCommand(ctx))
	root.AddCommand(newInspectCommand(ctx))
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the oematch version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("oematch %s\n", version)
		},
	}
}
