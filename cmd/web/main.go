// cmd/web/main.go
//
// linkbio – HTTP entry point.
//
// Commands
// --------
//
//	linkbio serve     run the API (optionally migrating first)
//	linkbio migrate   apply every component's schema and exit
//
// Boot sequence (serve)
// ---------------------
//
//  1. Load config (conf/.env → conf/global.yaml → LINKBIO_ env).
//
//  2. Start the rotating zap logger (tees to console when running in a TTY).
//
//  3. Resolve `vault:` secrets when any are configured.
//
//  4. Open the MySQL pool, GeoLite2 reader, event publisher, rate limiter,
//     and custom-host cache.
//
//  5. Init every registered component against one Env and mount its routes.
//
//  6. Wrap the router with ForceHTTPS when configured and serve until
//     SIGINT/SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "time/tzdata" // owner time zones on minimal images

	"github.com/yanizio/linkbio/internal/config"
	"github.com/yanizio/linkbio/internal/logger"
	"github.com/yanizio/linkbio/internal/vault"

	_ "github.com/yanizio/linkbio/components/analytics"
	_ "github.com/yanizio/linkbio/components/auth"
	_ "github.com/yanizio/linkbio/components/booking"
	_ "github.com/yanizio/linkbio/components/domains"
	_ "github.com/yanizio/linkbio/components/integrations"
	_ "github.com/yanizio/linkbio/components/links"
	_ "github.com/yanizio/linkbio/components/pages"
	_ "github.com/yanizio/linkbio/components/profile"
	_ "github.com/yanizio/linkbio/components/public"
)

var rootCmd = &cobra.Command{
	Use:           "linkbio",
	Short:         "linkbio – link-in-bio page builder API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// bootstrap loads config, starts logging, and resolves secrets.  Every
// command calls it first.
func bootstrap(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if _, err := logger.New(cfg.Paths.Root, cfg.Log.Level, runningInTTY()); err != nil {
		return nil, fmt.Errorf("start logger: %w", err)
	}

	var secrets config.SecretResolver
	if cfg.NeedsVault() {
		vc, err := vault.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("vault: %w", err)
		}
		secrets = vc
		zap.L().Info("vault client ready")
	}
	if err := cfg.ResolveSecrets(ctx, secrets); err != nil {
		return nil, err
	}
	return cfg, nil
}
