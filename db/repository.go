package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go_fsr2/nativebuild"
)

// ErrBuildNotFound is returned by GetBuild for unknown ids.
var ErrBuildNotFound = errors.New("db: build not found")

// BuildStatus is the outcome stored for a build.
type BuildStatus string

const (
	StatusSucceeded BuildStatus = "succeeded"
	StatusFailed    BuildStatus = "failed"
)

// BuildRecord is one row of the builds table with its steps and artifacts.
type BuildRecord struct {
	ID          string
	Backend     string
	GFXAPI      string
	BuildConfig string
	Platform    string
	SourceDir   string
	ToolVersion string
	Status      BuildStatus
	Error       string // empty on success
	LDFlags     string
	StartedAt   time.Time
	FinishedAt  time.Time

	Steps     []nativebuild.StepRecord
	Artifacts []ArtifactRecord
}

// Duration returns the wall time of the build.
func (r BuildRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ArtifactRecord is one relocated library of a build.
type ArtifactRecord struct {
	Name   string
	Size   int64
	SHA256 string
}

// RecordFromManifest converts the outcome of a build.
func RecordFromManifest(m *nativebuild.Manifest, buildErr error) BuildRecord {
	rec := BuildRecord{
		ID:          m.BuildID,
		Backend:     m.Backend,
		GFXAPI:      m.GFXAPI,
		BuildConfig: m.BuildConfig,
		Platform:    m.Platform,
		SourceDir:   m.SourceDir,
		ToolVersion: m.ToolVersion,
		Status:      StatusSucceeded,
		LDFlags:     m.LDFlags,
		StartedAt:   m.StartedAt,
		FinishedAt:  m.FinishedAt,
		Steps:       append([]nativebuild.StepRecord(nil), m.Steps...),
	}
	if buildErr != nil {
		rec.Status = StatusFailed
		rec.Error = buildErr.Error()
	}
	for _, a := range m.Artifacts {
		rec.Artifacts = append(rec.Artifacts, ArtifactRecord{Name: a.Name, Size: a.Size, SHA256: a.SHA256})
	}
	return rec
}

// Repository reads and writes build history.
type Repository struct {
	db *Database
}

// NewRepository creates a Repository over db.
func NewRepository(db *Database) *Repository {
	return &Repository{db: db}
}

// RecordBuild stores the outcome of a build. It lets a Repository serve
// as a nativebuild.Recorder.
func (r *Repository) RecordBuild(ctx context.Context, m *nativebuild.Manifest, buildErr error) error {
	return r.InsertBuild(ctx, RecordFromManifest(m, buildErr))
}

// InsertBuild stores rec with its steps and artifacts in one transaction.
func (r *Repository) InsertBuild(ctx context.Context, rec BuildRecord) error {
	conn, err := r.conn()
	if err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("build id is required")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO builds (
			id, backend, gfx_api, build_config, platform, source_dir,
			tool_version, status, error, ldflags, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Backend, rec.GFXAPI, rec.BuildConfig, rec.Platform, rec.SourceDir,
		rec.ToolVersion, string(rec.Status), rec.Error, rec.LDFlags,
		rec.StartedAt.UnixMilli(), rec.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert build %s: %w", rec.ID, err)
	}

	for i, s := range rec.Steps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO build_steps (build_id, position, name, command, duration_ms) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, i, s.Name, s.Command, s.Duration.Milliseconds(),
		); err != nil {
			return fmt.Errorf("failed to insert step %s: %w", s.Name, err)
		}
	}

	for _, a := range rec.Artifacts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO build_artifacts (build_id, name, size, sha256) VALUES (?, ?, ?, ?)`,
			rec.ID, a.Name, a.Size, a.SHA256,
		); err != nil {
			return fmt.Errorf("failed to insert artifact %s: %w", a.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit build %s: %w", rec.ID, err)
	}
	return nil
}

const buildColumns = `id, backend, gfx_api, build_config, platform, source_dir,
	tool_version, status, error, ldflags, started_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(row rowScanner) (BuildRecord, error) {
	var (
		rec               BuildRecord
		status            string
		started, finished int64
	)
	err := row.Scan(
		&rec.ID, &rec.Backend, &rec.GFXAPI, &rec.BuildConfig, &rec.Platform, &rec.SourceDir,
		&rec.ToolVersion, &status, &rec.Error, &rec.LDFlags, &started, &finished,
	)
	if err != nil {
		return BuildRecord{}, err
	}
	rec.Status = BuildStatus(status)
	rec.StartedAt = time.UnixMilli(started).UTC()
	rec.FinishedAt = time.UnixMilli(finished).UTC()
	return rec, nil
}

// RecentBuilds returns up to limit builds, newest first, without steps or
// artifacts.
func (r *Repository) RecentBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	conn, err := r.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := conn.QueryContext(ctx,
		`SELECT `+buildColumns+` FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	defer rows.Close()

	var builds []BuildRecord
	for rows.Next() {
		rec, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		builds = append(builds, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating builds: %w", err)
	}
	return builds, nil
}

// GetBuild returns the build with id, including steps in run order and
// artifacts sorted by name.
func (r *Repository) GetBuild(ctx context.Context, id string) (BuildRecord, error) {
	conn, err := r.conn()
	if err != nil {
		return BuildRecord{}, err
	}

	rec, err := scanBuild(conn.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return BuildRecord{}, fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	}
	if err != nil {
		return BuildRecord{}, fmt.Errorf("failed to query build %s: %w", id, err)
	}

	if rec.Steps, err = r.querySteps(ctx, conn, id); err != nil {
		return BuildRecord{}, err
	}
	if rec.Artifacts, err = r.queryArtifacts(ctx, conn, id); err != nil {
		return BuildRecord{}, err
	}
	return rec, nil
}

func (r *Repository) querySteps(ctx context.Context, conn *sql.DB, id string) ([]nativebuild.StepRecord, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT name, command, duration_ms FROM build_steps WHERE build_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps: %w", err)
	}
	defer rows.Close()

	var steps []nativebuild.StepRecord
	for rows.Next() {
		var (
			s  nativebuild.StepRecord
			ms int64
		)
		if err := rows.Scan(&s.Name, &s.Command, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		s.Duration = time.Duration(ms) * time.Millisecond
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

func (r *Repository) queryArtifacts(ctx context.Context, conn *sql.DB, id string) ([]ArtifactRecord, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT name, size, sha256 FROM build_artifacts WHERE build_id = ? ORDER BY name`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []ArtifactRecord
	for rows.Next() {
		var a ArtifactRecord
		if err := rows.Scan(&a.Name, &a.Size, &a.SHA256); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// CountBuilds returns the number of stored builds.
func (r *Repository) CountBuilds(ctx context.Context) (int64, error) {
	conn, err := r.conn()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM builds`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count builds: %w", err)
	}
	return n, nil
}

func (r *Repository) conn() (*sql.DB, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	conn := r.db.DB()
	if conn == nil {
		return nil, fmt.Errorf("database is closed")
	}
	return conn, nil
}
