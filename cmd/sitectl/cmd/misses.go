package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	missSince time.Duration
	missLimit int
	missPurge bool
)

var missesCmd = &cobra.Command{
	Use:   "misses",
	Short: "List deep links that resolved to no content",
	Long: `List the codes visitors requested that the content API did not know,
newest first. With --purge, entries not seen within --since are deleted instead.

Requires MYSQL_DSN.`,
	RunE: runMisses,
}

func init() {
	missesCmd.Flags().DurationVar(&missSince, "since", 7*24*time.Hour, "Look-back window")
	missesCmd.Flags().IntVar(&missLimit, "limit", 100, "Maximum rows")
	missesCmd.Flags().BoolVar(&missPurge, "purge", false, "Delete entries older than --since")
	rootCmd.AddCommand(missesCmd)
}

func runMisses(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	deps, cfg, err := build(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()
	if deps.Misses == nil {
		return errors.New("MYSQL_DSN is not set")
	}

	cutoff := time.Now().Add(-missSince)
	if missPurge {
		n, err := deps.Misses.Purge(ctx, cutoff)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged %d\n", n)
		return nil
	}

	rows, err := deps.Misses.RecentMisses(ctx, cfg.PropertyID, cutoff, missLimit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tCODE\tLOCALE\tHITS\tLAST SEEN")
	for _, m := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", m.Kind, m.Code, m.Locale, m.Hits, m.SeenAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
