// Package cmd provides the CLI commands of bizsearch.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/bizsearch/internal/config"
	"github.com/kailas-cloud/bizsearch/internal/version"
)

// rootOptions is shared by every subcommand. cfg is filled by the root
// pre-run hook.
type rootOptions struct {
	env      string
	logLevel string
	cfg      config.Config
}

// NewRootCmd creates the root command of the bizsearch CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "bizsearch",
		Short: "Search overlay for the business catalog APIs",
		Long: `bizsearch fronts the catalog, inventory and ordering APIs.

List requests it can answer from its index are rewritten into
id lookups before they are proxied to the backend gateway.`,
		Version:       version.Version,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.env)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			opts.cfg = cfg
			return nil
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("bizsearch version {{.Version}} (%s, %s)\n", version.Commit, version.Date))

	cmd.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "Config environment: local, dev, docker, prod")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newQueryCmd(opts))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}
