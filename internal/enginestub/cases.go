package enginestub

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// CaseStore keeps a history of saved cases so the engine can list recent work
// across restarts.
type CaseStore struct {
	db *sql.DB
}

type CaseRecord struct {
	CaseName    string
	ConfigPath  string
	VideoPath   string
	DaqPath     string
	SavedAtUnix int64
}

func NewCaseStore(path string) (*CaseStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite pragmas: %w", err)
	}
	return &CaseStore{db: db}, nil
}

func (s *CaseStore) AutoMigrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS cases (
		case_name TEXT PRIMARY KEY,
		config_path TEXT NOT NULL,
		video_path TEXT NOT NULL,
		daq_path TEXT,
		saved_at_unix INTEGER NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("migrate cases table: %w", err)
	}
	return nil
}

func (s *CaseStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CaseStore) Close() error {
	return s.db.Close()
}

// RecordSave upserts the case row; saving the same case twice just refreshes
// its timestamp and paths.
func (s *CaseStore) RecordSave(ctx context.Context, record CaseRecord) error {
	if record.SavedAtUnix == 0 {
		record.SavedAtUnix = time.Now().UTC().Unix()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO cases (case_name, config_path, video_path, daq_path, saved_at_unix)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(case_name) DO UPDATE SET
			config_path = excluded.config_path,
			video_path = excluded.video_path,
			daq_path = excluded.daq_path,
			saved_at_unix = excluded.saved_at_unix`,
		record.CaseName, record.ConfigPath, record.VideoPath, record.DaqPath, record.SavedAtUnix)
	if err != nil {
		return fmt.Errorf("record case save: %w", err)
	}
	return nil
}

func (s *CaseStore) ListRecent(ctx context.Context, limit int) ([]CaseRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT case_name, config_path, video_path, COALESCE(daq_path, ''), saved_at_unix
		FROM cases ORDER BY saved_at_unix DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var records []CaseRecord
	for rows.Next() {
		var record CaseRecord
		if err := rows.Scan(&record.CaseName, &record.ConfigPath, &record.VideoPath, &record.DaqPath, &record.SavedAtUnix); err != nil {
			return nil, fmt.Errorf("scan case row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
