package save

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// historyLimit is how many previous versions of a slot are kept.
const historyLimit = 20

// OpenSQLite opens the save database and creates its schema.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}
	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			wave INTEGER NOT NULL,
			level INTEGER NOT NULL,
			payload TEXT NOT NULL,
			saved_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS save_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot TEXT NOT NULL,
			payload TEXT NOT NULL,
			saved_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_save_history_slot ON save_history(slot, id);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// SQLiteRepo stores slots in SQLite and keeps a bounded history per slot.
type SQLiteRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db, now: time.Now}
}

func (r *SQLiteRepo) Close() error { return r.db.Close() }

func (r *SQLiteRepo) Load(ctx context.Context, slot string) (Save, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE slot = ?`, slotName(slot)).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Save{}, ErrNotFound
		}
		return Save{}, fmt.Errorf("failed to load save: %w", err)
	}
	return Decode([]byte(payload))
}

func (r *SQLiteRepo) Store(ctx context.Context, slot string, s Save) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal save: %w", err)
	}
	slot = slotName(slot)
	savedAt := s.SavedAt
	if savedAt.IsZero() {
		savedAt = r.now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO saves (slot, version, wave, level, payload, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			version=excluded.version,
			wave=excluded.wave,
			level=excluded.level,
			payload=excluded.payload,
			saved_at=excluded.saved_at
	`, slot, s.Version, s.Wave, s.Progression.Level, string(b), savedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert save: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO save_history (slot, payload, saved_at) VALUES (?, ?, ?)`,
		slot, string(b), savedAt); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM save_history WHERE slot = ? AND id NOT IN (
			SELECT id FROM save_history WHERE slot = ? ORDER BY id DESC LIMIT ?
		)`, slot, slot, historyLimit); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	return tx.Commit()
}

func (r *SQLiteRepo) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slot, wave, level, saved_at FROM saves ORDER BY slot ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.Wave, &info.Level, &info.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) Delete(ctx context.Context, slot string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slotName(slot))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// History returns previous versions of slot, newest first.
func (r *SQLiteRepo) History(ctx context.Context, slot string, limit int) ([]Save, error) {
	if limit <= 0 {
		limit = historyLimit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM save_history WHERE slot = ? ORDER BY id DESC LIMIT ?`, slotName(slot), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Save
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		s, err := Decode([]byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
