// Package mssql opens the process-wide SQL Server connection pool. The
// pool is lazy: no physical connection is made until first use, and the
// pool itself manages reuse across concurrently in-flight requests.
package mssql

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"spgate.dev/internal/config"
)

// Open builds the DSN from structured options and opens the pool with the
// configured tuning. Callers own the returned handle and must Close it on
// shutdown.
func Open(cfg config.SQLConfig) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("mssql: open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	return db, nil
}

// DSN converts structured connection options into the sqlserver URL form.
func DSN(cfg config.SQLConfig) (string, error) {
	if cfg.Server == "" || cfg.Database == "" {
		return "", errors.New("mssql: server and database are required")
	}

	query := url.Values{}
	query.Set("database", cfg.Database)
	query.Set("encrypt", boolWord(cfg.Encrypt))
	if cfg.TrustServerCertificate {
		query.Set("TrustServerCertificate", "true")
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Server, cfg.Port),
		RawQuery: query.Encode(),
	}
	return u.String(), nil
}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
