package telemetry

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store keeps run history in SQLite: one row per run and one per reported
// year, so population curves from different seeds and overrides can be
// compared after the fact.
type Store struct {
	conn *sqlx.DB
}

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID        string     `db:"id"`
	Seed      int64      `db:"seed"` // stored as the two's-complement bits of the uint64 seed
	Layout    string     `db:"layout"`
	StartedAt time.Time  `db:"started_at"`
	EndedAt   *time.Time `db:"ended_at"`
	Years     int        `db:"years"`
}

// YearRecord is one row of the years table.
type YearRecord struct {
	RunID      string  `db:"run_id"`
	Year       int     `db:"year"`
	Herbivores int     `db:"herbivores"`
	Carnivores int     `db:"carnivores"`
	Births     int     `db:"births"`
	Deaths     int     `db:"deaths"`
	Kills      int     `db:"kills"`
	HerbWeight float64 `db:"herb_weight_mean"`
	CarnWeight float64 `db:"carn_weight_mean"`
}

// OpenStore opens or creates the SQLite database at path.
func OpenStore(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		layout TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		ended_at TIMESTAMP,
		years INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS years (
		run_id TEXT NOT NULL REFERENCES runs(id),
		year INTEGER NOT NULL,
		herbivores INTEGER NOT NULL,
		carnivores INTEGER NOT NULL,
		births INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		kills INTEGER NOT NULL,
		herb_weight_mean REAL NOT NULL,
		carn_weight_mean REAL NOT NULL,
		PRIMARY KEY (run_id, year)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// StartRun inserts a new run and returns its generated ID.
func (s *Store) StartRun(seed uint64, layout string) (string, error) {
	id := uuid.NewString()
	_, err := s.conn.Exec(
		"INSERT INTO runs (id, seed, layout, started_at) VALUES (?, ?, ?, ?)",
		id, int64(seed), layout, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordYear stores one year's stats for a run.
func (s *Store) RecordYear(runID string, stats YearStats) error {
	rec := YearRecord{
		RunID:      runID,
		Year:       stats.Year,
		Herbivores: stats.Herbivores,
		Carnivores: stats.Carnivores,
		Births:     stats.HerbBirths + stats.CarnBirths,
		Deaths:     stats.HerbDeaths + stats.CarnDeaths,
		Kills:      stats.Kills,
		HerbWeight: stats.HerbWeightMean,
		CarnWeight: stats.CarnWeightMean,
	}
	_, err := s.conn.NamedExec(`
		INSERT OR REPLACE INTO years
			(run_id, year, herbivores, carnivores, births, deaths, kills, herb_weight_mean, carn_weight_mean)
		VALUES
			(:run_id, :year, :herbivores, :carnivores, :births, :deaths, :kills, :herb_weight_mean, :carn_weight_mean)`,
		rec)
	if err != nil {
		return fmt.Errorf("insert year %d: %w", stats.Year, err)
	}
	return nil
}

// FinishRun stamps the run with its end time and the last simulated year.
func (s *Store) FinishRun(runID string, years int) error {
	_, err := s.conn.Exec("UPDATE runs SET ended_at = ?, years = ? WHERE id = ?", time.Now().UTC(), years, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Run returns one run by ID.
func (s *Store) Run(runID string) (RunRecord, error) {
	var r RunRecord
	err := s.conn.Get(&r, "SELECT id, seed, layout, started_at, ended_at, years FROM runs WHERE id = ?", runID)
	if err != nil {
		return r, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r, nil
}

// Years returns the recorded years of a run in order.
func (s *Store) Years(runID string) ([]YearRecord, error) {
	var out []YearRecord
	err := s.conn.Select(&out, "SELECT * FROM years WHERE run_id = ? ORDER BY year", runID)
	if err != nil {
		return nil, fmt.Errorf("select years: %w", err)
	}
	return out, nil
}
