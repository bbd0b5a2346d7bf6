package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
	"github.com/atul48kumar90/resume-tailor-agent/internal/versions"
)

// VersionStore implements versions.Store on PostgreSQL. Appends lock the
// resume row, so concurrent appends to one resume are numbered in commit
// order while other resumes proceed in parallel.
type VersionStore struct {
	*DB
}

var _ versions.Store = (*VersionStore)(nil)

// NewVersionStore connects and returns a store ready for use.
func NewVersionStore(ctx context.Context, databaseURL string, logger *zap.Logger) (*VersionStore, error) {
	db, err := Connect(ctx, databaseURL, logger)
	if err != nil {
		return nil, err
	}
	return &VersionStore{DB: db}, nil
}

func versionNotFound(resumeID, versionID string) error {
	return &versions.NotFoundError{Kind: "version", ResumeID: resumeID, VersionID: versionID}
}

func resumeNotFound(resumeID string) error {
	return &versions.NotFoundError{Kind: "resume", ResumeID: resumeID}
}

// Append implements versions.Store.
func (s *VersionStore) Append(ctx context.Context, resumeID string, snapshot *types.ResumeDocument, parentVersionID, changeSummary string) (*types.ResumeVersion, error) {
	if err := versions.CheckResumeID(resumeID); err != nil {
		return nil, err
	}
	doc := snapshot.Clone()
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO resumes (resume_id) VALUES ($1) ON CONFLICT (resume_id) DO NOTHING`,
		resumeID,
	); err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}

	var current *string
	if err := tx.QueryRow(ctx,
		`SELECT current_version_id FROM resumes WHERE resume_id = $1 FOR UPDATE`, resumeID,
	).Scan(&current); err != nil {
		return nil, fmt.Errorf("failed to lock resume: %w", err)
	}

	parent := parentVersionID
	if parent == "" || parent == types.CurrentVersionID {
		parent = ""
		if current != nil {
			parent = *current
		}
	} else {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM resume_versions WHERE resume_id = $1 AND version_id = $2)`,
			resumeID, parent,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check parent version: %w", err)
		}
		if !exists {
			return nil, versionNotFound(resumeID, parent)
		}
	}

	var number int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM resume_versions WHERE resume_id = $1`, resumeID,
	).Scan(&number); err != nil {
		return nil, fmt.Errorf("failed to allocate version number: %w", err)
	}

	v := &types.ResumeVersion{
		VersionID:       uuid.NewString(),
		ResumeID:        resumeID,
		VersionNumber:   number,
		ParentVersionID: parent,
		ChangeSummary:   changeSummary,
		Snapshot:        doc,
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO resume_versions
		 (version_id, resume_id, version_number, parent_version_id, change_summary, snapshot)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		v.VersionID, resumeID, number, nullable(parent), changeSummary, payload,
	).Scan(&v.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert version: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE resumes SET current_version_id = $1 WHERE resume_id = $2`, v.VersionID, resumeID,
	); err != nil {
		return nil, fmt.Errorf("failed to move current version: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit version: %w", err)
	}

	s.logger.Debug("version appended",
		zap.String("resume_id", resumeID),
		zap.Int("version_number", number),
	)
	v.CreatedAt = v.CreatedAt.UTC()
	return v, nil
}

const selectVersion = `SELECT v.version_id, v.resume_id, v.version_number, v.parent_version_id,
	v.created_at, v.change_summary, v.snapshot FROM resume_versions v`

func scanVersion(row pgx.Row) (*types.ResumeVersion, error) {
	var (
		v        types.ResumeVersion
		parent   *string
		snapshot []byte
	)
	if err := row.Scan(&v.VersionID, &v.ResumeID, &v.VersionNumber, &parent, &v.CreatedAt, &v.ChangeSummary, &snapshot); err != nil {
		return nil, err
	}
	if parent != nil {
		v.ParentVersionID = *parent
	}
	v.CreatedAt = v.CreatedAt.UTC()
	if err := json.Unmarshal(snapshot, &v.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &v, nil
}

// Get implements versions.Store.
func (s *VersionStore) Get(ctx context.Context, resumeID, versionID string) (*types.ResumeVersion, error) {
	row := s.pool.QueryRow(ctx, selectVersion+` WHERE v.resume_id = $1 AND v.version_id = $2`, resumeID, versionID)
	v, err := scanVersion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if ok, cerr := s.resumeExists(ctx, resumeID); cerr == nil && !ok {
			return nil, resumeNotFound(resumeID)
		}
		return nil, versionNotFound(resumeID, versionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return v, nil
}

func (s *VersionStore) resumeExists(ctx context.Context, resumeID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM resumes WHERE resume_id = $1)`, resumeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up resume: %w", err)
	}
	return exists, nil
}

// List implements versions.Store.
func (s *VersionStore) List(ctx context.Context, resumeID string) ([]types.VersionMeta, error) {
	var current *string
	err := s.pool.QueryRow(ctx,
		`SELECT current_version_id FROM resumes WHERE resume_id = $1`, resumeID,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, resumeNotFound(resumeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up resume: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT version_id, resume_id, version_number, parent_version_id, created_at, change_summary
		 FROM resume_versions WHERE resume_id = $1 ORDER BY version_number`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	out := []types.VersionMeta{}
	for rows.Next() {
		var (
			m       types.VersionMeta
			parent  *string
			created time.Time
		)
		if err := rows.Scan(&m.VersionID, &m.ResumeID, &m.VersionNumber, &parent, &created, &m.ChangeSummary); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		if parent != nil {
			m.ParentVersionID = *parent
		}
		m.CreatedAt = created.UTC()
		m.IsCurrent = current != nil && *current == m.VersionID
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return out, nil
}

// GetCurrent implements versions.Store.
func (s *VersionStore) GetCurrent(ctx context.Context, resumeID string) (*types.ResumeVersion, error) {
	row := s.pool.QueryRow(ctx,
		selectVersion+` JOIN resumes r ON r.current_version_id = v.version_id WHERE r.resume_id = $1`,
		resumeID,
	)
	v, err := scanVersion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, resumeNotFound(resumeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current version: %w", err)
	}
	return v, nil
}

// SetCurrent implements versions.Store.
func (s *VersionStore) SetCurrent(ctx context.Context, resumeID, versionID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE resumes SET current_version_id = $2
		 WHERE resume_id = $1
		   AND EXISTS (SELECT 1 FROM resume_versions WHERE resume_id = $1 AND version_id = $2)`,
		resumeID, versionID,
	)
	if err != nil {
		return fmt.Errorf("failed to set current version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if ok, cerr := s.resumeExists(ctx, resumeID); cerr == nil && !ok {
			return resumeNotFound(resumeID)
		}
		return versionNotFound(resumeID, versionID)
	}
	return nil
}

// Step implements versions.Store. The resume row is locked for the
// duration, so a step never interleaves with an append.
func (s *VersionStore) Step(ctx context.Context, resumeID string, delta int) (*types.ResumeVersion, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var number *int
	err = tx.QueryRow(ctx,
		`SELECT v.version_number FROM resumes r
		 LEFT JOIN resume_versions v ON v.version_id = r.current_version_id
		 WHERE r.resume_id = $1 FOR UPDATE OF r`, resumeID,
	).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, resumeNotFound(resumeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock resume: %w", err)
	}
	if number == nil {
		return nil, versions.NoAdjacentVersion(resumeID, delta)
	}

	v, err := scanVersion(tx.QueryRow(ctx,
		selectVersion+` WHERE v.resume_id = $1 AND v.version_number = $2`, resumeID, *number+delta,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, versions.NoAdjacentVersion(resumeID, delta)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE resumes SET current_version_id = $1 WHERE resume_id = $2`, v.VersionID, resumeID,
	); err != nil {
		return nil, fmt.Errorf("failed to move current version: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit step: %w", err)
	}
	return v, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
