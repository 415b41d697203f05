package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ccollicutt/babylog/pkg/record"
)

// DBFile is the database file name inside the data directory.
const DBFile = "babylog.db"

// schemaVersion is the latest schema version. Bump it when adding migrations.
const schemaVersion = 1

// Run describes one saved record set.
type Run struct {
	ID        string
	CreatedAt time.Time
	Events    int
	Days      int
	Growth    int
}

// SQLiteStore keeps every saved record set as a run. Load returns the newest.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) dataDir/babylog.db.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if dataDir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, DBFile)
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	_ = os.Chmod(path, 0600)

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS runs (
		  id         TEXT PRIMARY KEY,
		  created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS events (
		  run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		  seq        INTEGER NOT NULL,
		  date       TEXT NOT NULL,
		  datetime   TEXT NOT NULL,
		  time       TEXT NOT NULL,
		  category   TEXT NOT NULL,
		  type       TEXT NOT NULL,
		  detail     TEXT NOT NULL,
		  value      REAL,
		  unit       TEXT NOT NULL,
		  baby_name  TEXT NOT NULL,
		  age_years  INTEGER NOT NULL,
		  age_months INTEGER NOT NULL,
		  age_days   INTEGER NOT NULL,
		  PRIMARY KEY (run_id, seq)
		);

		CREATE TABLE IF NOT EXISTS daily_summaries (
		  run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		  seq              INTEGER NOT NULL,
		  date             TEXT NOT NULL,
		  baby_name        TEXT NOT NULL,
		  age_years        INTEGER NOT NULL,
		  age_months       INTEGER NOT NULL,
		  age_days         INTEGER NOT NULL,
		  breastfeed_left  INTEGER NOT NULL,
		  breastfeed_right INTEGER NOT NULL,
		  milk_count       INTEGER NOT NULL,
		  milk_amount      INTEGER NOT NULL,
		  sleep_minutes    INTEGER NOT NULL,
		  pee_count        INTEGER NOT NULL,
		  poop_count       INTEGER NOT NULL,
		  vomit_count      INTEGER NOT NULL,
		  vomit_level_sum  REAL NOT NULL,
		  PRIMARY KEY (run_id, seq)
		);

		CREATE TABLE IF NOT EXISTS growth (
		  run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		  seq        INTEGER NOT NULL,
		  date       TEXT NOT NULL,
		  datetime   TEXT NOT NULL,
		  type       TEXT NOT NULL,
		  value      REAL NOT NULL,
		  unit       TEXT NOT NULL,
		  baby_name  TEXT NOT NULL,
		  age_years  INTEGER NOT NULL,
		  age_months INTEGER NOT NULL,
		  age_days   INTEGER NOT NULL,
		  PRIMARY KEY (run_id, seq)
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", 1)); err != nil {
			return fmt.Errorf("setting schema version: %w", err)
		}
	}

	return nil
}

// Save stores set as a new run.
func (s *SQLiteStore) Save(ctx context.Context, set record.Set) error {
	_, err := s.SaveRun(ctx, set)
	return err
}

// SaveRun stores set as a new run and returns its ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, set record.Set) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, created_at) VALUES (?, ?)`,
		id, time.Now().UnixNano()); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	evStmt, err := tx.PrepareContext(ctx, `INSERT INTO events
		(run_id, seq, date, datetime, time, category, type, detail, value, unit,
		 baby_name, age_years, age_months, age_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing events insert: %w", err)
	}
	defer evStmt.Close()
	for i, ev := range set.Events {
		var value any
		if ev.Value != nil {
			value = *ev.Value
		}
		if _, err := evStmt.ExecContext(ctx, id, i,
			ev.Date.Format(record.DateLayout), ev.Timestamp.Format(record.TimestampLayout),
			ev.Time, string(ev.Category), ev.RawType, ev.RawDetail, value, string(ev.Unit),
			ev.Subject, ev.Age.Years, ev.Age.Months, ev.Age.Days); err != nil {
			return "", fmt.Errorf("inserting event %d: %w", i, err)
		}
	}

	sumStmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_summaries
		(run_id, seq, date, baby_name, age_years, age_months, age_days,
		 breastfeed_left, breastfeed_right, milk_count, milk_amount, sleep_minutes,
		 pee_count, poop_count, vomit_count, vomit_level_sum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing summaries insert: %w", err)
	}
	defer sumStmt.Close()
	for i, d := range set.Summaries {
		if _, err := sumStmt.ExecContext(ctx, id, i,
			d.Date.Format(record.DateLayout), d.Subject, d.Age.Years, d.Age.Months, d.Age.Days,
			d.BreastfeedLeft, d.BreastfeedRight, d.MilkCount, d.MilkAmount, d.SleepMinutes,
			d.PeeCount, d.PoopCount, d.VomitCount, d.VomitLevelSum); err != nil {
			return "", fmt.Errorf("inserting summary %d: %w", i, err)
		}
	}

	growthStmt, err := tx.PrepareContext(ctx, `INSERT INTO growth
		(run_id, seq, date, datetime, type, value, unit, baby_name, age_years, age_months, age_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing growth insert: %w", err)
	}
	defer growthStmt.Close()
	for i, g := range set.Growth {
		if _, err := growthStmt.ExecContext(ctx, id, i,
			g.Date.Format(record.DateLayout), g.Timestamp.Format(record.TimestampLayout),
			string(g.Type), g.Value, string(g.Unit),
			g.Subject, g.Age.Years, g.Age.Months, g.Age.Days); err != nil {
			return "", fmt.Errorf("inserting growth record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Runs lists saved runs, newest first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at,
		  (SELECT COUNT(*) FROM events e WHERE e.run_id = r.id),
		  (SELECT COUNT(*) FROM daily_summaries d WHERE d.run_id = r.id),
		  (SELECT COUNT(*) FROM growth g WHERE g.run_id = r.id)
		FROM runs r
		ORDER BY r.created_at DESC, r.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &created, &r.Events, &r.Days, &r.Growth); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.CreatedAt = time.Unix(0, created).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Load returns the newest run.
func (s *SQLiteStore) Load(ctx context.Context) (record.Set, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Set{}, ErrEmpty
	}
	if err != nil {
		return record.Set{}, fmt.Errorf("finding latest run: %w", err)
	}
	return s.LoadRun(ctx, id)
}

// LoadRun returns the records saved under one run ID.
func (s *SQLiteStore) LoadRun(ctx context.Context, id string) (record.Set, error) {
	var set record.Set

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, datetime, time, category, type, detail, value, unit,
		  baby_name, age_years, age_months, age_days
		FROM events WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return set, fmt.Errorf("loading events: %w", err)
	}
	for rows.Next() {
		var ev record.Event
		var date, ts, category, unit string
		var value sql.NullFloat64
		if err := rows.Scan(&date, &ts, &ev.Time, &category, &ev.RawType, &ev.RawDetail,
			&value, &unit, &ev.Subject, &ev.Age.Years, &ev.Age.Months, &ev.Age.Days); err != nil {
			rows.Close()
			return set, fmt.Errorf("scanning event: %w", err)
		}
		if ev.Date, ev.Timestamp, err = parseTimes(date, ts); err != nil {
			rows.Close()
			return set, err
		}
		if ev.Category, err = record.ParseCategory(category); err != nil {
			rows.Close()
			return set, err
		}
		if ev.Unit, err = record.ParseUnit(unit); err != nil {
			rows.Close()
			return set, err
		}
		if value.Valid {
			ev.Value = record.Float(value.Float64)
		}
		set.Events = append(set.Events, ev)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return set, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT date, baby_name, age_years, age_months, age_days,
		  breastfeed_left, breastfeed_right, milk_count, milk_amount, sleep_minutes,
		  pee_count, poop_count, vomit_count, vomit_level_sum
		FROM daily_summaries WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return set, fmt.Errorf("loading summaries: %w", err)
	}
	for rows.Next() {
		var d record.DailySummary
		var date string
		if err := rows.Scan(&date, &d.Subject, &d.Age.Years, &d.Age.Months, &d.Age.Days,
			&d.BreastfeedLeft, &d.BreastfeedRight, &d.MilkCount, &d.MilkAmount, &d.SleepMinutes,
			&d.PeeCount, &d.PoopCount, &d.VomitCount, &d.VomitLevelSum); err != nil {
			rows.Close()
			return set, fmt.Errorf("scanning summary: %w", err)
		}
		if d.Date, err = time.Parse(record.DateLayout, date); err != nil {
			rows.Close()
			return set, err
		}
		set.Summaries = append(set.Summaries, d)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return set, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT date, datetime, type, value, unit, baby_name, age_years, age_months, age_days
		FROM growth WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return set, fmt.Errorf("loading growth: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g record.GrowthRecord
		var date, ts, typ, unit string
		if err := rows.Scan(&date, &ts, &typ, &g.Value, &unit,
			&g.Subject, &g.Age.Years, &g.Age.Months, &g.Age.Days); err != nil {
			return set, fmt.Errorf("scanning growth record: %w", err)
		}
		if g.Date, g.Timestamp, err = parseTimes(date, ts); err != nil {
			return set, err
		}
		if g.Unit, err = record.ParseUnit(unit); err != nil {
			return set, err
		}
		g.Type = record.GrowthType(typ)
		set.Growth = append(set.Growth, g)
	}
	return set, rows.Err()
}
