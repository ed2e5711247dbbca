// Package database implements the storage collaborator on sqlx.
// SQLite is the default; setting DATABASE_URL switches to Postgres.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // Postgres driver.
	_ "github.com/mattn/go-sqlite3" // SQLite driver.
)

// DB is the shared database connection.
var DB *sqlx.DB

// Connect establishes the database connection and initializes the schema.
func Connect() error {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err := sqlx.Connect("postgres", url)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		// Postgres schema is managed externally; only the embedded
		// SQLite database is bootstrapped here.
		DB = db
		return nil
	}

	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lingobot.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite doesn't support multiple writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// ConnectTest opens an isolated SQLite database for tests.
func ConnectTest(path string) error {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to connect to test database: %w", err)
	}
	db.SetMaxOpenConns(1)
	DB = db
	return initializeSchema()
}

// Close closes the database connection.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist.
func initializeSchema() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			term TEXT NOT NULL,
			definition TEXT NOT NULL,
			lang_code TEXT NOT NULL DEFAULT 'ko',
			flagged BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, term)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cards table: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS memory_models (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id INTEGER NOT NULL UNIQUE,
			difficulty REAL NOT NULL DEFAULT 0,
			stability REAL NOT NULL DEFAULT 0,
			repetitions INTEGER NOT NULL DEFAULT 0,
			lapses INTEGER NOT NULL DEFAULT 0,
			first_review TIMESTAMP,
			last_review TIMESTAMP,
			next_review TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (card_id) REFERENCES cards(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create memory_models table: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS review_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id INTEGER NOT NULL,
			grade TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (card_id) REFERENCES cards(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_log table: %w", err)
	}

	return nil
}
