package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/trialworks/lemonaid/internal/domain/model"
	"github.com/trialworks/lemonaid/pkg/metrics"

	// Register the pure-Go sqlite driver.
	_ "modernc.org/sqlite"
)

const defaultDBPath = "lemonaid.db"

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database and bootstraps the schema.
func NewSQLiteStore(ctx context.Context, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{path: defaultDBPath}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(s.path); s.path != ":memory:" && dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if s.path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	s.db = db

	if err := s.configure(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.createSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) configure(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS cases (
	id            TEXT PRIMARY KEY,
	client_name   TEXT NOT NULL,
	vehicle_year  INTEGER NOT NULL,
	vehicle_make  TEXT NOT NULL,
	vehicle_model TEXT NOT NULL,
	vin           TEXT NOT NULL,
	status        TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	case_id     TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	kind        TEXT NOT NULL,
	filename    TEXT NOT NULL,
	text        TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	uploaded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS time_entries (
	id               TEXT PRIMARY KEY,
	case_id          TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	attorney_name    TEXT NOT NULL,
	work_date        TEXT NOT NULL,
	hours            REAL NOT NULL,
	billed_rate      REAL NOT NULL,
	years_experience INTEGER,
	description      TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS repair_visits (
	id                  TEXT PRIMARY KEY,
	case_id             TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	date_in             TEXT NOT NULL,
	date_out            TEXT NOT NULL,
	odometer            INTEGER NOT NULL,
	complaint           TEXT NOT NULL,
	work_performed      TEXT NOT NULL,
	days_out_of_service INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS rate_schedule (
	id               INTEGER PRIMARY KEY CHECK (id = 1),
	tier_1_3_rate    REAL,
	tier_4_7_rate    REAL,
	tier_8_10_rate   REAL,
	tier_11_19_rate  REAL,
	tier_20plus_rate REAL,
	paralegal_rate   REAL
);
CREATE TABLE IF NOT EXISTS attorneys (
	name             TEXT PRIMARY KEY,
	years_experience INTEGER NOT NULL,
	is_paralegal     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_documents_case ON documents(case_id);
CREATE INDEX IF NOT EXISTS idx_time_entries_case ON time_entries(case_id);
CREATE INDEX IF NOT EXISTS idx_repair_visits_case ON repair_visits(case_id);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// trackUpdate records write latency for the repository metrics.
func trackUpdate(start time.Time) {
	metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
}

// trackQuery records read latency for the repository metrics.
func trackQuery(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CreateCase persists a new case, minting an id and timestamps when absent.
func (s *SQLiteStore) CreateCase(ctx context.Context, c model.Case) (model.Case, error) {
	defer trackUpdate(time.Now())

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = model.CaseOpen
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cases (id, client_name, vehicle_year, vehicle_make, vehicle_model, vin, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ClientName, c.VehicleYear, c.VehicleMake, c.VehicleModel, c.VIN, string(c.Status),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return model.Case{}, fmt.Errorf("insert case: %w", err)
	}
	return c, nil
}

// GetCase returns a case by id.
func (s *SQLiteStore) GetCase(ctx context.Context, id string) (model.Case, error) {
	defer trackQuery(time.Now())

	row := s.db.QueryRowContext(ctx,
		`SELECT id, client_name, vehicle_year, vehicle_make, vehicle_model, vin, status, created_at, updated_at
		 FROM cases WHERE id = ?`, id)
	return scanCase(row)
}

func scanCase(row *sql.Row) (model.Case, error) {
	var (
		c                    model.Case
		status               string
		createdAt, updatedAt string
	)
	err := row.Scan(&c.ID, &c.ClientName, &c.VehicleYear, &c.VehicleMake, &c.VehicleModel, &c.VIN, &status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Case{}, ErrNotFound
	}
	if err != nil {
		return model.Case{}, fmt.Errorf("scan case: %w", err)
	}
	c.Status = model.CaseStatus(status)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

// ListCases returns up to limit cases, newest first.
func (s *SQLiteStore) ListCases(ctx context.Context, limit int) ([]model.Case, error) {
	defer trackQuery(time.Now())

	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_name, vehicle_year, vehicle_make, vehicle_model, vin, status, created_at, updated_at
		 FROM cases ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cases []model.Case
	for rows.Next() {
		var (
			c                    model.Case
			status               string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&c.ID, &c.ClientName, &c.VehicleYear, &c.VehicleMake, &c.VehicleModel, &c.VIN, &status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		c.Status = model.CaseStatus(status)
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return cases, nil
}

// UpdateCase overwrites the mutable fields of an existing case.
func (s *SQLiteStore) UpdateCase(ctx context.Context, c model.Case) (model.Case, error) {
	defer trackUpdate(time.Now())

	c.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE cases SET client_name = ?, vehicle_year = ?, vehicle_make = ?, vehicle_model = ?, vin = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		c.ClientName, c.VehicleYear, c.VehicleMake, c.VehicleModel, c.VIN, string(c.Status), formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return model.Case{}, fmt.Errorf("update case: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Case{}, ErrNotFound
	}
	return s.GetCase(ctx, c.ID)
}

// DeleteCase removes a case; documents, entries, and visits cascade.
func (s *SQLiteStore) DeleteCase(ctx context.Context, id string) error {
	defer trackUpdate(time.Now())

	res, err := s.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddDocument records an uploaded document for a case.
func (s *SQLiteStore) AddDocument(ctx context.Context, d model.Document) (model.Document, error) {
	defer trackUpdate(time.Now())

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = model.DocumentPending
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, case_id, kind, filename, text, status, error, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CaseID, string(d.Kind), d.Filename, d.Text, string(d.Status), d.Error, formatTime(d.UploadedAt))
	if err != nil {
		return model.Document{}, fmt.Errorf("insert document: %w", err)
	}
	return d, nil
}

// ListDocuments returns a case's documents, newest first.
func (s *SQLiteStore) ListDocuments(ctx context.Context, caseID string) ([]model.Document, error) {
	defer trackQuery(time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, kind, filename, text, status, error, uploaded_at
		 FROM documents WHERE case_id = ? ORDER BY uploaded_at DESC`, caseID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []model.Document
	for rows.Next() {
		var (
			d            model.Document
			kind, status string
			uploadedAt   string
		)
		if err := rows.Scan(&d.ID, &d.CaseID, &kind, &d.Filename, &d.Text, &status, &d.Error, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.Kind = model.DocumentKind(kind)
		d.Status = model.DocumentStatus(status)
		d.UploadedAt = parseTime(uploadedAt)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// SetDocumentStatus transitions a document through the extraction pipeline.
func (s *SQLiteStore) SetDocumentStatus(ctx context.Context, id string, status model.DocumentStatus, errMsg string) error {
	defer trackUpdate(time.Now())

	if status != model.DocumentFailed {
		errMsg = ""
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, error = ? WHERE id = ?`, string(status), errMsg, id)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddTimeEntries persists billing rows in a single transaction so a failed
// extraction never leaves a partial billing picture behind.
func (s *SQLiteStore) AddTimeEntries(ctx context.Context, entries []model.TimeEntry) ([]model.TimeEntry, error) {
	defer trackUpdate(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]model.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		var yearsExp sql.NullInt64
		if e.YearsExperience != nil {
			yearsExp = sql.NullInt64{Int64: int64(*e.YearsExperience), Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO time_entries (id, case_id, attorney_name, work_date, hours, billed_rate, years_experience, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.CaseID, e.AttorneyName, formatTime(e.Date), e.Hours, e.BilledRate, yearsExp, e.Description)
		if err != nil {
			return nil, fmt.Errorf("insert time entry: %w", err)
		}
		out = append(out, e)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit time entries: %w", err)
	}
	return out, nil
}

// ListTimeEntries returns a case's time entries in insertion order, which
// keeps the downstream fee report deterministic.
func (s *SQLiteStore) ListTimeEntries(ctx context.Context, caseID string) ([]model.TimeEntry, error) {
	defer trackQuery(time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, attorney_name, work_date, hours, billed_rate, years_experience, description
		 FROM time_entries WHERE case_id = ? ORDER BY rowid`, caseID)
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.TimeEntry
	for rows.Next() {
		var (
			e        model.TimeEntry
			workDate string
			yearsExp sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.CaseID, &e.AttorneyName, &workDate, &e.Hours, &e.BilledRate, &yearsExp, &e.Description); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		e.Date = parseTime(workDate)
		if yearsExp.Valid {
			years := int(yearsExp.Int64)
			e.YearsExperience = &years
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time entries: %w", err)
	}
	return entries, nil
}

// AddRepairVisits persists repair chronology rows in one transaction.
func (s *SQLiteStore) AddRepairVisits(ctx context.Context, visits []model.RepairVisit) ([]model.RepairVisit, error) {
	defer trackUpdate(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]model.RepairVisit, 0, len(visits))
	for _, v := range visits {
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO repair_visits (id, case_id, date_in, date_out, odometer, complaint, work_performed, days_out_of_service)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.CaseID, formatTime(v.DateIn), formatTime(v.DateOut), v.Odometer, v.Complaint, v.WorkPerformed, v.DaysOutOfService)
		if err != nil {
			return nil, fmt.Errorf("insert repair visit: %w", err)
		}
		out = append(out, v)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit repair visits: %w", err)
	}
	return out, nil
}

// ListRepairVisits returns a case's repair visits ordered by date in.
func (s *SQLiteStore) ListRepairVisits(ctx context.Context, caseID string) ([]model.RepairVisit, error) {
	defer trackQuery(time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, date_in, date_out, odometer, complaint, work_performed, days_out_of_service
		 FROM repair_visits WHERE case_id = ? ORDER BY date_in`, caseID)
	if err != nil {
		return nil, fmt.Errorf("query repair visits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var visits []model.RepairVisit
	for rows.Next() {
		var (
			v               model.RepairVisit
			dateIn, dateOut string
		)
		if err := rows.Scan(&v.ID, &v.CaseID, &dateIn, &dateOut, &v.Odometer, &v.Complaint, &v.WorkPerformed, &v.DaysOutOfService); err != nil {
			return nil, fmt.Errorf("scan repair visit: %w", err)
		}
		v.DateIn = parseTime(dateIn)
		v.DateOut = parseTime(dateOut)
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repair visits: %w", err)
	}
	return visits, nil
}

// GetRateSchedule returns the single stored benchmark schedule.
func (s *SQLiteStore) GetRateSchedule(ctx context.Context) (model.RateSchedule, error) {
	defer trackQuery(time.Now())

	row := s.db.QueryRowContext(ctx,
		`SELECT tier_1_3_rate, tier_4_7_rate, tier_8_10_rate, tier_11_19_rate, tier_20plus_rate, paralegal_rate
		 FROM rate_schedule WHERE id = 1`)

	var t13, t47, t810, t1119, t20, para sql.NullFloat64
	err := row.Scan(&t13, &t47, &t810, &t1119, &t20, &para)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RateSchedule{}, ErrNotFound
	}
	if err != nil {
		return model.RateSchedule{}, fmt.Errorf("scan rate schedule: %w", err)
	}
	return model.RateSchedule{
		Tier1to3Rate:   nullableRate(t13),
		Tier4to7Rate:   nullableRate(t47),
		Tier8to10Rate:  nullableRate(t810),
		Tier11to19Rate: nullableRate(t1119),
		Tier20PlusRate: nullableRate(t20),
		ParalegalRate:  nullableRate(para),
	}, nil
}

func nullableRate(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	rate := v.Float64
	return &rate
}

func rateValue(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// PutRateSchedule replaces the stored benchmark schedule.
func (s *SQLiteStore) PutRateSchedule(ctx context.Context, sched model.RateSchedule) error {
	defer trackUpdate(time.Now())

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rate_schedule (id, tier_1_3_rate, tier_4_7_rate, tier_8_10_rate, tier_11_19_rate, tier_20plus_rate, paralegal_rate)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			tier_1_3_rate = excluded.tier_1_3_rate,
			tier_4_7_rate = excluded.tier_4_7_rate,
			tier_8_10_rate = excluded.tier_8_10_rate,
			tier_11_19_rate = excluded.tier_11_19_rate,
			tier_20plus_rate = excluded.tier_20plus_rate,
			paralegal_rate = excluded.paralegal_rate`,
		rateValue(sched.Tier1to3Rate), rateValue(sched.Tier4to7Rate), rateValue(sched.Tier8to10Rate),
		rateValue(sched.Tier11to19Rate), rateValue(sched.Tier20PlusRate), rateValue(sched.ParalegalRate))
	if err != nil {
		return fmt.Errorf("upsert rate schedule: %w", err)
	}
	return nil
}

// ListRoster returns the attorney roster ordered by name.
func (s *SQLiteStore) ListRoster(ctx context.Context) ([]model.Attorney, error) {
	defer trackQuery(time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, years_experience, is_paralegal FROM attorneys ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var roster []model.Attorney
	for rows.Next() {
		var (
			a         model.Attorney
			paralegal int
		)
		if err := rows.Scan(&a.Name, &a.YearsExperience, &paralegal); err != nil {
			return nil, fmt.Errorf("scan roster member: %w", err)
		}
		a.IsParalegal = paralegal != 0
		roster = append(roster, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster: %w", err)
	}
	return roster, nil
}

// ReplaceRoster swaps the whole roster atomically.
func (s *SQLiteStore) ReplaceRoster(ctx context.Context, roster []model.Attorney) error {
	defer trackUpdate(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attorneys`); err != nil {
		return fmt.Errorf("clear roster: %w", err)
	}
	for _, a := range roster {
		paralegal := 0
		if a.IsParalegal {
			paralegal = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO attorneys (name, years_experience, is_paralegal) VALUES (?, ?, ?)`,
			a.Name, a.YearsExperience, paralegal); err != nil {
			return fmt.Errorf("insert roster member %q: %w", a.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster: %w", err)
	}
	return nil
}

// CountCases returns the number of cases tracked.
func (s *SQLiteStore) CountCases(ctx context.Context) int {
	defer trackQuery(time.Now())

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&n); err != nil {
		return 0
	}
	return n
}
