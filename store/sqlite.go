package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"coppit/game"
)

// SQLite keeps room states as JSON rows that outlive the process.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens and migrates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Writes serialize in SQLite anyway
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Get(ctx context.Context, roomID string) (*game.GameState, error) {
	var data []byte
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT state_json, expires_at FROM rooms WHERE room_id = ?`, roomID,
	).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}

	if expiresAt > 0 && s.now().UnixMilli() >= expiresAt {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE room_id = ?`, roomID); err != nil {
			return nil, fmt.Errorf("expire room %s: %w", roomID, err)
		}
		return nil, ErrNotFound
	}
	return decode(data)
}

func (s *SQLite) Set(ctx context.Context, roomID string, state *game.GameState, ttl time.Duration) error {
	data, err := encode(state)
	if err != nil {
		return err
	}

	now := s.now()
	var expiresAt int64
	if at := expiry(now, ttl); !at.IsZero() {
		expiresAt = at.UnixMilli()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rooms (room_id, state_json, updated_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(room_id) DO UPDATE SET
		    state_json = excluded.state_json,
		    updated_at = excluded.updated_at,
		    expires_at = excluded.expires_at`,
		roomID, data, now.UnixMilli(), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("set room %s: %w", roomID, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
