// cmd/web/migrate.go

package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer zap.L().Sync() //nolint:errcheck

		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		return migrateAll(ctx, db)
	},
}

func init() { rootCmd.AddCommand(migrateCmd) }

// migrateAll runs each component's statements in Order so foreign keys
// resolve.
func migrateAll(ctx context.Context, db *sqlx.DB) error {
	total := 0
	for _, c := range component.All() {
		n, err := database.Migrate(ctx, db, c.Name(), c.Migrations())
		if err != nil {
			return err
		}
		if n > 0 {
			zap.L().Info("migrated", zap.String("component", c.Name()), zap.Int("statements", n))
		}
		total += n
	}
	zap.L().Info("migrations complete", zap.Int("applied", total))
	return nil
}
