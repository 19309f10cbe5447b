package mssql

import (
	"strings"
	"testing"

	"spgate.dev/internal/config"
)

func TestDSN(t *testing.T) {
	dsn, err := DSN(config.SQLConfig{
		Server:   "db.internal",
		Port:     1433,
		User:     "gateway",
		Password: "p@ss:word",
		Database: "erp",
		Encrypt:  true,
	})
	if err != nil {
		t.Fatalf("DSN: %v", err)
	}
	if !strings.HasPrefix(dsn, "sqlserver://gateway:") {
		t.Fatalf("unexpected scheme/user: %s", dsn)
	}
	if !strings.Contains(dsn, "db.internal:1433") {
		t.Fatalf("missing host: %s", dsn)
	}
	if !strings.Contains(dsn, "database=erp") || !strings.Contains(dsn, "encrypt=true") {
		t.Fatalf("missing query params: %s", dsn)
	}
	if strings.Contains(dsn, "p@ss:word") {
		t.Fatalf("password not escaped: %s", dsn)
	}
}

func TestDSNRequiresServerAndDatabase(t *testing.T) {
	if _, err := DSN(config.SQLConfig{Database: "erp"}); err == nil {
		t.Fatal("expected error for missing server")
	}
	if _, err := DSN(config.SQLConfig{Server: "db"}); err == nil {
		t.Fatal("expected error for missing database")
	}
}
