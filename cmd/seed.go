package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jekabolt/shop-analytics/config"
	"github.com/jekabolt/shop-analytics/internal/seed"
	"github.com/jekabolt/shop-analytics/internal/store"
	"github.com/spf13/cobra"
)

var (
	seedCmd = &cobra.Command{
		Use:   "seed <domain-id>",
		Short: "Fill the MySQL store with demo shop data",
		Args:  cobra.ExactArgs(1),
		RunE:  seedRun,
	}

	seedCfg = seed.DefaultConfig("")
)

func init() {
	f := seedCmd.Flags()
	f.IntVar(&seedCfg.GameServers, "game-servers", seedCfg.GameServers, "number of game servers")
	f.IntVar(&seedCfg.Players, "players", seedCfg.Players, "number of players")
	f.IntVar(&seedCfg.Categories, "categories", seedCfg.Categories, "number of categories")
	f.IntVar(&seedCfg.Listings, "listings", seedCfg.Listings, "number of listings")
	f.IntVar(&seedCfg.Orders, "orders", seedCfg.Orders, "number of orders")
	f.IntVar(&seedCfg.Days, "days", seedCfg.Days, "days orders are spread over")
	f.Uint64Var(&seedCfg.Seed, "seed", seedCfg.Seed, "random seed")
}

func seedRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage != config.StorageMySQL {
		return fmt.Errorf("seeding requires %q storage, got %q", config.StorageMySQL, cfg.Storage)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.New(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	seedCfg.DomainId = args[0]
	sum, err := seed.Generate(ctx, st, seedCfg, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded domain %s: %d orders on game servers %v\n", seedCfg.DomainId, sum.Orders, sum.GameServerIds)
	return nil
}
