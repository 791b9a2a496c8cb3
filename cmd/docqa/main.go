package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/config"
	logpkg "github.com/kailas-cloud/docqa/internal/logger"
	"github.com/kailas-cloud/docqa/internal/version"
)

type rootOptions struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "docqa",
		Short:         "Grounded question answering over a private document corpus",
		Version:       version.String(),
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.env)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logpkg.NewLogger(opts.env, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "configuration environment (local, dev, prod)")

	root.AddCommand(
		serveCmd(opts),
		ingestCmd(opts),
		askCmd(opts),
		summarizeCmd(opts),
	)
	return root
}
