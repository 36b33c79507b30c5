package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// Open connects to the SQLite file at databasePath. Pragmas are passed in the
// DSN so every pooled connection gets foreign keys, not just the first one.
func Open(databasePath string) (*sql.DB, error) {
	inMemory := databasePath == memoryPath
	if !inMemory {
		directory := filepath.Dir(databasePath)
		if err := os.MkdirAll(directory, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite", dataSourceName(databasePath, inMemory))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// each connection to :memory: is a separate database
	if inMemory {
		database.SetMaxOpenConns(1)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return database, nil
}

func dataSourceName(databasePath string, inMemory bool) string {
	pragmas := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"}
	if !inMemory {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}
	return databasePath + "?" + strings.Join(pragmas, "&")
}
