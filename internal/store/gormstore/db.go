// Package gormstore is the primary store: each collection is a table managed
// by gorm and queried through gorm's map API.
package gormstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type driver int

const (
	driverPostgres driver = iota
	driverSQLite
)

func configurePool(sqlDB *sql.DB, d driver) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	if d == driverSQLite {
		// a single writer keeps sqlite from returning SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// dialector picks the gorm driver from the connection string.
func dialector(url string) (gorm.Dialector, driver, error) {
	u := strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return postgres.Open(u), driverPostgres, nil
	case strings.HasPrefix(u, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(u, "sqlite://")), driverSQLite, nil
	case strings.HasPrefix(u, "file:"), strings.HasSuffix(u, ".db"), strings.HasSuffix(u, ".sqlite"):
		return sqlite.Open(u), driverSQLite, nil
	default:
		return nil, 0, fmt.Errorf("unsupported store url scheme: %q", u)
	}
}

// Open connects to the store, checks it answers within timeout and migrates
// the collection tables.
func Open(ctx context.Context, url string, timeout time.Duration) (*Store, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("store url is empty")
	}
	dial, drv, err := dialector(url)
	if err != nil {
		return nil, err
	}

	// The only connection check is the ping below, bounded by timeout.
	db, err := gorm.Open(dial, &gorm.Config{
		PrepareStmt:          true,
		DisableAutomaticPing: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger: logger.New(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB, drv)

	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	s, err := New(db)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}
