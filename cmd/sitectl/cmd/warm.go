package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotellink/internal/app"
)

var (
	warmLocales []string
	warmRefresh bool
	warmWorkers int
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Pre-fill the content cache for every page and locale",
	Long: `Fetch every list, page, post feed and contact block for the given
locales (all site locales by default) so first visitors hit a warm cache.

Missing content (404/401/403) is counted, not fatal. The command fails only
when the property itself cannot be loaded or any fetch failed.`,
	RunE: runWarm,
}

func init() {
	warmCmd.Flags().StringSliceVarP(&warmLocales, "locale", "l", nil, "Locales to warm (repeatable)")
	warmCmd.Flags().BoolVar(&warmRefresh, "refresh", false, "Drop cached entries first")
	warmCmd.Flags().IntVarP(&warmWorkers, "workers", "w", 0, "Concurrent fetches (default WARM_WORKERS)")
	rootCmd.AddCommand(warmCmd)
}

func runWarm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	deps, cfg, err := build(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	workers := warmWorkers
	if workers <= 0 {
		workers = cfg.WarmWorkers
	}
	log.Info().
		Int64("property", cfg.PropertyID).
		Int("workers", workers).
		Strs("locales", warmLocales).
		Bool("refresh", warmRefresh).
		Msg("warm starting")

	rep, err := app.NewWarmer(deps.Content, deps.Site, workers).Warm(ctx, warmLocales, warmRefresh)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tasks=%d ok=%d missing=%d failed=%d\n", rep.Tasks, rep.OK, rep.Missing, rep.Failed)
	if rep.Failed > 0 {
		return fmt.Errorf("%d fetches failed", rep.Failed)
	}
	return nil
}
