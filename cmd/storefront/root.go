package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/utafrali/shopease/internal/app"
	"github.com/utafrali/shopease/internal/config"
	"github.com/utafrali/shopease/pkg/logger"
)

// cli carries the state built once per invocation.
type cli struct {
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
	core   *app.Core
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	c.cfg = cfg
	c.logger = logger.NewWithWriter("storefront-cli", level, cmd.ErrOrStderr())

	core, err := app.NewCore(cmd.Context(), cfg, c.logger)
	if err != nil {
		return fmt.Errorf("initialize storefront: %w", err)
	}
	c.core = core
	return nil
}

func (c *cli) close() {
	if c.core != nil {
		c.core.Close()
		c.core = nil
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Browse the ShopEase catalog and manage the session",
		Long: `storefront talks to the same catalog and token store as the ShopEase
HTTP server. Configuration is read from the environment and an optional .env
file in the working directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newProductsCmd(c),
		newProductCmd(c),
		newCategoriesCmd(c),
		newLoginCmd(c),
		newLogoutCmd(c),
		newStatusCmd(c),
	)
	return root
}
