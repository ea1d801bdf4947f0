package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jekabolt/shop-analytics/internal/store"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Manage the MySQL schema",
	}

	migrateUpCmd = &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE:  migrateUp,
	}

	migrateDownCmd = &cobra.Command{
		Use:   "down",
		Short: "Revert applied migrations",
		RunE:  migrateDown,
	}

	downSteps int
)

func init() {
	migrateDownCmd.Flags().IntVarP(&downSteps, "steps", "n", 1, "number of migrations to revert, 0 reverts all")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func migrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := store.MigrateWithContext(ctx, db.DB); err != nil {
		return err
	}
	return nil
}

func migrateDown(cmd *cobra.Command, args []string) error {
	if downSteps < 0 {
		return fmt.Errorf("steps must not be negative")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := store.Rollback(db.DB, downSteps)
	if err != nil {
		return err
	}
	slog.Default().InfoContext(ctx, "reverted migrations", slog.Int("count", n))
	return nil
}
