package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/roi"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS submissions (
	id                 TEXT PRIMARY KEY,
	email              TEXT NOT NULL,
	segment            TEXT NOT NULL DEFAULT '',
	industry           TEXT NOT NULL DEFAULT '',
	employees_impacted REAL NOT NULL DEFAULT 0,
	workflow_ids       TEXT NOT NULL DEFAULT '[]',
	scenario           TEXT NOT NULL DEFAULT 'expected',
	results            TEXT NOT NULL,
	pricing            TEXT NOT NULL,
	status             TEXT NOT NULL DEFAULT 'new',
	created_at         DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS pricing_settings (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	settings   TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_submissions_email ON submissions(email);
CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if sub.Status == "" {
		sub.Status = model.SubmissionStatusNew
	}

	cols, err := marshalSubmission(sub)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal submission")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, email, segment, industry, employees_impacted, workflow_ids, scenario, results, pricing, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Email, string(sub.Segment), sub.Industry, sub.EmployeesImpacted,
		string(cols.workflowIDs), string(sub.Scenario), string(cols.results), string(cols.pricing),
		string(sub.Status), sub.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert submission")
}

func (s *SQLiteStore) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, segment, industry, employees_impacted, workflow_ids, scenario, results, pricing, status, created_at
		 FROM submissions WHERE id = ?`,
		id,
	)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: submission %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get submission")
	}
	return sub, nil
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context, filter model.SubmissionFilter) ([]model.Submission, error) {
	query := `SELECT id, email, segment, industry, employees_impacted, workflow_ids, scenario, results, pricing, status, created_at
		FROM submissions WHERE 1=1`
	var args []any

	if filter.Email != "" {
		query += ` AND email = ?`
		args = append(args, filter.Email)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list submissions")
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan submission")
		}
		subs = append(subs, *sub)
	}
	return subs, eris.Wrap(rows.Err(), "sqlite: list submissions iterate")
}

func (s *SQLiteStore) UpdateSubmissionStatus(ctx context.Context, id string, status model.SubmissionStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET status = ? WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update submission status %s", id)
	}
	return checkRowsAffected(res, "submission", id)
}

func (s *SQLiteStore) GetPricingSettings(ctx context.Context) (*model.PricingSettingsRecord, error) {
	var raw string
	var rec model.PricingSettingsRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT settings, updated_at FROM pricing_settings WHERE id = 1`,
	).Scan(&raw, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get pricing settings")
	}
	if err := json.Unmarshal([]byte(raw), &rec.Settings); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal pricing settings")
	}
	return &rec, nil
}

func (s *SQLiteStore) SetPricingSettings(ctx context.Context, settings roi.PricingSettings) (*model.PricingSettingsRecord, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal pricing settings")
	}
	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pricing_settings (id, settings, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET settings = excluded.settings, updated_at = excluded.updated_at`,
		string(raw), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: set pricing settings")
	}
	return &model.PricingSettingsRecord{Settings: settings, UpdatedAt: now}, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

// submissionColumns holds the JSON-encoded columns of a submission row.
type submissionColumns struct {
	workflowIDs []byte
	results     []byte
	pricing     []byte
}

func marshalSubmission(sub *model.Submission) (submissionColumns, error) {
	var cols submissionColumns
	var err error
	ids := sub.SelectedWorkflowIDs
	if ids == nil {
		ids = []string{}
	}
	if cols.workflowIDs, err = json.Marshal(ids); err != nil {
		return cols, err
	}
	if cols.results, err = json.Marshal(sub.Results); err != nil {
		return cols, err
	}
	if cols.pricing, err = json.Marshal(sub.Pricing); err != nil {
		return cols, err
	}
	return cols, nil
}

func unmarshalSubmission(sub *model.Submission, cols submissionColumns) error {
	if err := json.Unmarshal(cols.workflowIDs, &sub.SelectedWorkflowIDs); err != nil {
		return eris.Wrap(err, "unmarshal workflow ids")
	}
	if err := json.Unmarshal(cols.results, &sub.Results); err != nil {
		return eris.Wrap(err, "unmarshal results")
	}
	if err := json.Unmarshal(cols.pricing, &sub.Pricing); err != nil {
		return eris.Wrap(err, "unmarshal pricing")
	}
	return nil
}

// scanSubmission returns sql.ErrNoRows unwrapped so callers can map it.
func scanSubmission(row scannable) (*model.Submission, error) {
	var sub model.Submission
	var ids, results, pricing string
	err := row.Scan(
		&sub.ID, &sub.Email, &sub.Segment, &sub.Industry, &sub.EmployeesImpacted,
		&ids, &sub.Scenario, &results, &pricing, &sub.Status, &sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	cols := submissionColumns{workflowIDs: []byte(ids), results: []byte(results), pricing: []byte(pricing)}
	if err := unmarshalSubmission(&sub, cols); err != nil {
		return nil, err
	}
	return &sub, nil
}
