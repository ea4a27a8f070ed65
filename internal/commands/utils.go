package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/CongoMusahAdama/rrate/internal/storage"
)

const dbEnv = "SQLITE_PATH"

// dbPathOrEnv falls back to SQLITE_PATH when --db was not given.
func dbPathOrEnv(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(dbEnv); v != "" {
		return v, nil
	}
	return "", errors.New("--db is required (or set " + dbEnv + ")")
}

func openCatalog(ctx context.Context, path string) (*storage.SQLiteCatalog, error) {
	dbPath, err := dbPathOrEnv(path)
	if err != nil {
		return nil, err
	}
	cat, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := cat.EnsureSchema(ctx); err != nil {
		_ = cat.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return cat, nil
}
