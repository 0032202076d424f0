package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotellink/internal/adapters/observability"
	"hotellink/internal/bootstrap"
	"hotellink/internal/shared"
)

var (
	propertyID int64
	tenant     string
	version    = "dev" // Set by build
)

var rootCmd = &cobra.Command{
	Use:   "sitectl",
	Short: "Operate a hotel microsite from the command line",
	Long: `sitectl talks to the content API with the same configuration as the
API server (environment variables, VITE_* names included).

It can pre-fill the content cache, resolve a URL to the view the app shell
would render, classify a media URL, and inspect the deep-link miss log.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&propertyID, "property", 0, "Property id (overrides PROPERTY_ID)")
	rootCmd.PersistentFlags().StringVar(&tenant, "tenant", "", "Tenant code (overrides TENANT_CODE)")
}

// config loads the environment and applies the persistent flags.
func config() shared.Config {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)
	if propertyID != 0 {
		cfg.PropertyID = propertyID
	}
	if tenant != "" {
		cfg.TenantCode = tenant
	}
	return cfg
}

func build(ctx context.Context) (*bootstrap.Deps, shared.Config, error) {
	cfg := config()
	deps, err := bootstrap.Build(ctx, cfg)
	return deps, cfg, err
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
