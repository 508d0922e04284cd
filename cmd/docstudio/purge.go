package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docstudio/internal/cache"
	"docstudio/internal/config"
	"docstudio/internal/database"
	"docstudio/internal/store"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the docs page cache",
	}

	var prefix string
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Drop cached docs pages",
		Long: `Drop cached docs pages from Valkey. --prefix limits the purge to one
key scope, e.g. "guide:cli/" or "ref:kotlin/".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			removed, err := purgePages(cmd.Context(), cfg, prefix, store.PurgeManual)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s purged %s cached pages\n", color.GreenString("✓"), humanize.Comma(int64(removed)))
			return nil
		},
	}
	purge.Flags().StringVar(&prefix, "prefix", "", "purge only keys starting with this prefix")

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recent page cache purges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			db, err := database.Connect(cmd.Context(), cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close()

			entries, err := store.NewCacheLogStore(db).RecentEntries(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "no purges recorded")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-14s %-12s %6s pages  %s\n",
					humanize.Time(e.PurgedAt), e.Reason, humanize.Comma(int64(e.Removed)), e.Scope)
			}
			return nil
		},
	}
	history.Flags().IntVarP(&limit, "limit", "n", 20, "number of purges to show")

	cmd.AddCommand(purge, history)
	return cmd
}

// purgePages drops cached pages and records the purge. The audit row is
// best-effort: an unreachable database only logs a warning.
func purgePages(ctx context.Context, cfg *config.Config, prefix, reason string) (int, error) {
	vk, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return 0, fmt.Errorf("connect to valkey: %w", err)
	}
	defer vk.Close()

	pc := cache.NewPageCache(vk, cfg.PageCacheTTL)
	scope := prefix
	if prefix == "" {
		scope = "*"
	}
	removed, err := pc.InvalidatePrefix(ctx, prefix)
	if err != nil {
		return removed, err
	}

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Warn("cache purge not recorded", "error", err)
		return removed, nil
	}
	defer db.Close()
	store.NewCacheLogStore(db).Log(scope, removed, reason)
	return removed, nil
}
