// Package database centralises sqlx connection helpers and the error
// vocabulary shared by every query package.  The driver is
// go-sql-driver/mysql, which also works with MariaDB.
//
// Public entry points:
//
//	Open(ctx, dsn)                  – helper with conservative pool sizes.
//	OpenWithOptions(ctx, dsn, opts) – fine-grained control plus retries.
//	Classify(err)                   – maps driver errors to ErrNotFound / ErrConflict.
//	Migrate(ctx, db, owner, stmts)  – applies versioned DDL once.
//
// Both open helpers Ping the database before returning so callers can fail
// fast during bootstrap.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Options tunes one pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int           // extra Ping attempts after the first
	RetryBackoff    time.Duration // doubled after every failed attempt
}

// DefaultOptions mirrors the process-wide pool: 15 open, 5 idle, 30-minute
// lifetime, three retries.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    15,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		Retries:         3,
		RetryBackoff:    500 * time.Millisecond,
	}
}

// Open returns a *sqlx.DB with DefaultOptions.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, DefaultOptions())
}

// OpenWithOptions opens the pool and pings it, retrying with exponential
// backoff while the database is still coming up.
func OpenWithOptions(ctx context.Context, dsn string, o Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(o.MaxOpenConns)
	db.SetMaxIdleConns(o.MaxIdleConns)
	db.SetConnMaxLifetime(o.ConnMaxLifetime)

	wait := o.RetryBackoff
	for attempt := 0; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= o.Retries {
			break
		}
		zap.S().Warnw("database ping failed, retrying", "attempt", attempt+1, "wait", wait, "err", err)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	_ = db.Close()
	return nil, fmt.Errorf("database ping: %w", err)
}

//
// Error vocabulary
//

var (
	// ErrNotFound wraps sql.ErrNoRows and "zero rows affected" outcomes.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned for unique-key violations.
	ErrConflict = errors.New("record already exists")
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// Classify converts driver-level errors into the package vocabulary.  Other
// errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return ErrConflict
	}
	return err
}

// MustAffect returns ErrNotFound when an UPDATE or DELETE touched no rows.
func MustAffect(res sql.Result, err error) error {
	if err != nil {
		return Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
