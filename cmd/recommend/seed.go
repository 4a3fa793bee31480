package main

import (
	"context"
	"fmt"

	"skill-bridge/internal/app"
	"skill-bridge/internal/config"
	"skill-bridge/internal/database/seeder"
	"skill-bridge/internal/logger"

	"github.com/spf13/cobra"
)

var seedCommand = &cobra.Command{
	Use:   "seed",
	Short: "Apply migrations and seed the default competency catalog",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCommand)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug || runVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := app.NewContainer(ctx, cfg, log, nil)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer func() { _ = c.Close() }()

	r := seeder.Runner{Seeders: seeder.Defaults(), Logger: log.Named("seeder")}
	if err := r.Run(ctx, c.DB); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
	return nil
}
