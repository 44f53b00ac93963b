// Package testutil holds helpers shared by the integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"autobooks/src/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var testDB *pgxpool.Pool

// SetupTestDB connects to the database configured in appsettings.TESTING.yaml and
// truncates every table. The test is skipped when no database is reachable.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testDB != nil {
		TruncateTables(t, testDB)
		return testDB
	}

	cfg, err := LoadTestConfig()
	if err != nil {
		t.Fatalf("Failed to load test configuration: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Databases.SQL.DSN())
	if err != nil {
		t.Fatalf("Failed to parse database config: %v", err)
	}
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Skipf("database unavailable: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("database unavailable: %v", err)
	}

	testDB = pool
	TruncateTables(t, pool)
	return pool
}

// LoadTestConfig loads settings/appsettings.TESTING.yaml from the module root.
func LoadTestConfig() (*config.Config, error) {
	root, err := ServiceRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to get service root path: %w", err)
	}
	return config.LoadConfig(filepath.Join(root, "settings"), "TESTING")
}

// ServiceRoot walks up from the working directory to the directory holding go.mod.
func ServiceRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return "", fmt.Errorf("go.mod not found in any parent directory")
		}
		wd = parent
	}
}

func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	tables := []string{
		"asset_transactions",
		"assets",
		"asset_categories",
		"accounts",
		"workspace_members",
		"workspaces",
	}
	for _, table := range tables {
		if _, err := pool.Exec(context.Background(), fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Skipf("schema not migrated, truncate %s: %v", table, err)
		}
	}
}
