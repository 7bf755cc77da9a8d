package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"thermocycle"
)

// sqliteTimeLayout is the TIMESTAMP text format SQLite sorts correctly.
const sqliteTimeLayout = "2006-01-02 15:04:05"

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

// Ensure implementation of RunRepo interface at compile time.
var _ RunRepo = (*RunSQLite)(nil)

const (
	insertRunSQL = `
		INSERT INTO profile_runs (id, name, created_at, config, profile, key_points, cycles, point_count, duration_h)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	selectRunSQL = `
		SELECT id, name, created_at, config, profile, key_points, point_count, duration_h
		FROM profile_runs WHERE id = ?
	`
	selectRunSummarySQL = `SELECT id, name, created_at, cycles, point_count, duration_h FROM profile_runs`
)

// Insert stores a finished run. Empty ID or zero CreatedAt are filled in.
// Config, profile and key points go into JSON text columns; the summary
// columns are duplicated out so listing never parses profiles.
func (r *RunSQLite) Insert(ctx context.Context, run thermocycle.ProfileRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	} else {
		createdAt = createdAt.UTC()
	}

	cfgJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	profileJSON, err := json.Marshal(run.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	keysJSON, err := json.Marshal(run.KeyPoints)
	if err != nil {
		return fmt.Errorf("encode key points: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.Name,
		createdAt.Format(sqliteTimeLayout),
		string(cfgJSON),
		string(profileJSON),
		string(keysJSON),
		run.Config.Cycles,
		run.PointCount,
		run.DurationH,
	)
	return err
}

// Get fetches one run by id, including the full profile.
func (r *RunSQLite) Get(ctx context.Context, id string) (thermocycle.ProfileRun, error) {
	row := r.db.QueryRowContext(ctx, selectRunSQL, id)

	var (
		run                         thermocycle.ProfileRun
		cfgStr, profileStr, keysStr string
	)
	if err := row.Scan(
		&run.ID,
		&run.Name,
		&run.CreatedAt,
		&cfgStr,
		&profileStr,
		&keysStr,
		&run.PointCount,
		&run.DurationH,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return thermocycle.ProfileRun{}, ErrRunNotFound
		}
		return thermocycle.ProfileRun{}, err
	}

	if err := json.Unmarshal([]byte(cfgStr), &run.Config); err != nil {
		return thermocycle.ProfileRun{}, fmt.Errorf("decode config column: %w", err)
	}
	if err := json.Unmarshal([]byte(profileStr), &run.Profile); err != nil {
		return thermocycle.ProfileRun{}, fmt.Errorf("decode profile column: %w", err)
	}
	if err := json.Unmarshal([]byte(keysStr), &run.KeyPoints); err != nil {
		return thermocycle.ProfileRun{}, fmt.Errorf("decode key points column: %w", err)
	}
	run.CreatedAt = run.CreatedAt.UTC()

	return run, nil
}

// List returns run summaries filtered by [from, to] (inclusive), newest
// first. limit <= 0 means no limit.
func (r *RunSQLite) List(ctx context.Context, from, to time.Time, limit int) ([]thermocycle.RunSummary, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}

	q := selectRunSummarySQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]thermocycle.RunSummary, 0, 32)
	for rows.Next() {
		var s thermocycle.RunSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.Cycles, &s.PointCount, &s.DurationH); err != nil {
			return nil, err
		}
		s.CreatedAt = s.CreatedAt.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
