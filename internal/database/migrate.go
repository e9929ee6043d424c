// internal/database/migrate.go
//
// Versioned DDL runner.
//
// Context
// -------
// Every component returns an ordered slice of statements from
// Migrations().  Statement N of component C is recorded as version N in
// `schema_migration` once applied, so reruns are no-ops and new statements
// appended to the slice are picked up on the next `linkbio migrate`.
//
// Notes
// -----
// • Statements must never be edited or reordered after release; append only.
// • MySQL DDL is not transactional, so each statement is recorded right after
//   it succeeds.

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const migrationTable = `
    CREATE TABLE IF NOT EXISTS schema_migration (
        owner      VARCHAR(64) NOT NULL,
        version    INT         NOT NULL,
        applied_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (owner, version)
    )`

// Migrate applies the statements of one owner that are not yet recorded and
// returns how many ran.
func Migrate(ctx context.Context, db *sqlx.DB, owner string, stmts []string) (int, error) {
	if len(stmts) == 0 {
		return 0, nil
	}
	if _, err := db.ExecContext(ctx, migrationTable); err != nil {
		return 0, fmt.Errorf("migration table: %w", err)
	}

	var current int
	const q = `SELECT COALESCE(MAX(version), 0) FROM schema_migration WHERE owner = ?`
	if err := db.GetContext(ctx, &current, q, owner); err != nil {
		return 0, fmt.Errorf("migration version %s: %w", owner, err)
	}

	applied := 0
	for i := current; i < len(stmts); i++ {
		if _, err := db.ExecContext(ctx, stmts[i]); err != nil {
			return applied, fmt.Errorf("migrate %s v%d: %w", owner, i+1, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO schema_migration (owner, version) VALUES (?, ?)`, owner, i+1); err != nil {
			return applied, fmt.Errorf("record %s v%d: %w", owner, i+1, err)
		}
		applied++
		zap.S().Infow("migration applied", "owner", owner, "version", i+1)
	}
	return applied, nil
}
