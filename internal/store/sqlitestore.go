package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/yalin/transinvert/backend/internal/models"
)

// SQLiteStore persists the collections in a SQLite database. Rows hold the
// JSON-encoded records, keyed by id, so the load/save contract stays identical
// to the file store while gaining transactional saves.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database under dataDir.
func OpenSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "transinvert.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenSQLiteStoreInMemory opens an in-memory store, used by tests.
func OpenSQLiteStoreInMemory() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS folders (
			id   TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS texts (
			id   TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS analyses (
			text_id TEXT PRIMARY KEY,
			data    TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS practice_history (
			seq  INTEGER PRIMARY KEY AUTOINCREMENT,
			id   TEXT NOT NULL UNIQUE,
			data TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Load reads all four collections.
func (s *SQLiteStore) Load() (*Collections, error) {
	c := NewCollections()

	if err := s.loadTable("SELECT id, data FROM folders", func(id string, data []byte) error {
		var f models.Folder
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		c.Folders[id] = &f
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.loadTable("SELECT id, data FROM texts", func(id string, data []byte) error {
		var t models.Text
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		c.Texts[id] = &t
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.loadTable("SELECT text_id, data FROM analyses", func(id string, data []byte) error {
		var a models.Analysis
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		c.Analyses[id] = &a
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.loadTable("SELECT id, data FROM practice_history ORDER BY seq", func(id string, data []byte) error {
		var r models.PracticeRecord
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		c.History = append(c.History, &r)
		return nil
	}); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *SQLiteStore) loadTable(query string, scan func(id string, data []byte) error) error {
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		if err := scan(id, data); err != nil {
			return fmt.Errorf("failed to decode row %s: %w", id, err)
		}
	}
	return rows.Err()
}

// Save replaces the persisted state with c inside a single transaction.
func (s *SQLiteStore) Save(c *Collections) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"folders", "texts", "analyses", "practice_history"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for id, f := range c.Folders {
		if err := insertJSON(tx, "INSERT INTO folders (id, data) VALUES (?, ?)", id, f); err != nil {
			return err
		}
	}
	for id, t := range c.Texts {
		if err := insertJSON(tx, "INSERT INTO texts (id, data) VALUES (?, ?)", id, t); err != nil {
			return err
		}
	}
	for id, a := range c.Analyses {
		if err := insertJSON(tx, "INSERT INTO analyses (text_id, data) VALUES (?, ?)", id, a); err != nil {
			return err
		}
	}
	for _, r := range c.History {
		if err := insertJSON(tx, "INSERT INTO practice_history (id, data) VALUES (?, ?)", r.ID, r); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertJSON(tx *sql.Tx, query, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", id, err)
	}
	if _, err := tx.Exec(query, id, data); err != nil {
		return fmt.Errorf("failed to insert %s: %w", id, err)
	}
	return nil
}
