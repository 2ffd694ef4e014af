package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/novique-ai/roi-cli/internal/db"
	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/roi"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS submissions (
	id                 TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	email              TEXT NOT NULL,
	segment            TEXT NOT NULL DEFAULT '',
	industry           TEXT NOT NULL DEFAULT '',
	employees_impacted DOUBLE PRECISION NOT NULL DEFAULT 0,
	workflow_ids       JSONB NOT NULL DEFAULT '[]',
	scenario           TEXT NOT NULL DEFAULT 'expected',
	results            JSONB NOT NULL,
	pricing            JSONB NOT NULL,
	status             TEXT NOT NULL DEFAULT 'new',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS pricing_settings (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	settings   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_submissions_email ON submissions(email);
CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateSubmission(ctx context.Context, sub *model.Submission) error {
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
		return eris.Wrap(err, "postgres: marshal submission")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO submissions (id, email, segment, industry, employees_impacted, workflow_ids, scenario, results, pricing, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		sub.ID, sub.Email, string(sub.Segment), sub.Industry, sub.EmployeesImpacted,
		cols.workflowIDs, string(sub.Scenario), cols.results, cols.pricing,
		string(sub.Status), sub.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert submission")
}

func (s *PostgresStore) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, segment, industry, employees_impacted, workflow_ids, scenario, results, pricing, status, created_at
		 FROM submissions WHERE id = $1`,
		id,
	)
	sub, err := scanPgSubmission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: submission %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get submission")
	}
	return sub, nil
}

func (s *PostgresStore) ListSubmissions(ctx context.Context, filter model.SubmissionFilter) ([]model.Submission, error) {
	query := `SELECT id, email, segment, industry, employees_impacted, workflow_ids, scenario, results, pricing, status, created_at
		FROM submissions WHERE 1=1`
	var args []any

	if filter.Email != "" {
		args = append(args, filter.Email)
		query += ` AND email = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list submissions")
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub, err := scanPgSubmission(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan submission")
		}
		subs = append(subs, *sub)
	}
	return subs, eris.Wrap(rows.Err(), "postgres: list submissions iterate")
}

func (s *PostgresStore) UpdateSubmissionStatus(ctx context.Context, id string, status model.SubmissionStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE submissions SET status = $1 WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update submission status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "submission %s", id)
	}
	return nil
}

func (s *PostgresStore) GetPricingSettings(ctx context.Context) (*model.PricingSettingsRecord, error) {
	var raw []byte
	var rec model.PricingSettingsRecord
	err := s.pool.QueryRow(ctx,
		`SELECT settings, updated_at FROM pricing_settings WHERE id = 1`,
	).Scan(&raw, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get pricing settings")
	}
	if err := json.Unmarshal(raw, &rec.Settings); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal pricing settings")
	}
	return &rec, nil
}

func (s *PostgresStore) SetPricingSettings(ctx context.Context, settings roi.PricingSettings) (*model.PricingSettingsRecord, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal pricing settings")
	}
	now := time.Now().UTC()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO pricing_settings (id, settings, updated_at) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = EXCLUDED.updated_at`,
		raw, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: set pricing settings")
	}
	return &model.PricingSettingsRecord{Settings: settings, UpdatedAt: now}, nil
}

func scanPgSubmission(row pgx.Row) (*model.Submission, error) {
	var sub model.Submission
	var segment, scenario, status string
	var cols submissionColumns
	err := row.Scan(
		&sub.ID, &sub.Email, &segment, &sub.Industry, &sub.EmployeesImpacted,
		&cols.workflowIDs, &scenario, &cols.results, &cols.pricing, &status, &sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Segment = roi.Segment(segment)
	sub.Scenario = roi.Scenario(scenario)
	sub.Status = model.SubmissionStatus(status)
	if err := unmarshalSubmission(&sub, cols); err != nil {
		return nil, err
	}
	return &sub, nil
}
