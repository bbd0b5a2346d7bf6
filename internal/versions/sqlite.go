package versions

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// SQLiteStore is a Store backed by a single SQLite file. It holds one
// connection, so every append runs as the only writer.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema. Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("failed to read schema dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		data, err := schemaFS.ReadFile("schema/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		for _, stmt := range strings.Split(string(data), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, resumeID string, snapshot *types.ResumeDocument, parentVersionID, changeSummary string) (*types.ResumeVersion, error) {
	if err := CheckResumeID(resumeID); err != nil {
		return nil, err
	}
	doc := snapshot.Clone()
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO resumes (resume_id, created_at) VALUES (?, ?)`,
		resumeID, now.Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}

	var current sql.NullString
	if err := tx.QueryRowContext(ctx,
		`SELECT current_version_id FROM resumes WHERE resume_id = ?`, resumeID,
	).Scan(&current); err != nil {
		return nil, fmt.Errorf("failed to read current version: %w", err)
	}

	parent := parentVersionID
	if parent == "" || parent == types.CurrentVersionID {
		parent = current.String
	} else {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM resume_versions WHERE resume_id = ? AND version_id = ?`, resumeID, parent,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, versionNotFound(resumeID, parent)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check parent version: %w", err)
		}
	}

	var number int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM resume_versions WHERE resume_id = ?`, resumeID,
	).Scan(&number); err != nil {
		return nil, fmt.Errorf("failed to allocate version number: %w", err)
	}

	v := &types.ResumeVersion{
		VersionID:       uuid.NewString(),
		ResumeID:        resumeID,
		VersionNumber:   number,
		ParentVersionID: parent,
		CreatedAt:       now,
		ChangeSummary:   changeSummary,
		Snapshot:        doc,
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO resume_versions
		 (version_id, resume_id, version_number, parent_version_id, created_at, change_summary, snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.VersionID, resumeID, number, nullable(parent), now.Format(time.RFC3339Nano), changeSummary, string(payload),
	); err != nil {
		return nil, fmt.Errorf("failed to insert version: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE resumes SET current_version_id = ? WHERE resume_id = ?`, v.VersionID, resumeID,
	); err != nil {
		return nil, fmt.Errorf("failed to move current version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit version: %w", err)
	}
	return cloneVersion(v), nil
}

const versionColumns = `version_id, resume_id, version_number, parent_version_id, created_at, change_summary, snapshot`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (*types.ResumeVersion, error) {
	var (
		v        types.ResumeVersion
		parent   sql.NullString
		created  string
		snapshot string
	)
	if err := row.Scan(&v.VersionID, &v.ResumeID, &v.VersionNumber, &parent, &created, &v.ChangeSummary, &snapshot); err != nil {
		return nil, err
	}
	v.ParentVersionID = parent.String
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	v.CreatedAt = t
	if err := json.Unmarshal([]byte(snapshot), &v.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &v, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, resumeID, versionID string) (*types.ResumeVersion, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+versionColumns+` FROM resume_versions WHERE resume_id = ? AND version_id = ?`,
		resumeID, versionID,
	)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
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

func (s *SQLiteStore) resumeExists(ctx context.Context, resumeID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM resumes WHERE resume_id = ?`, resumeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up resume: %w", err)
	}
	return true, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, resumeID string) ([]types.VersionMeta, error) {
	var current sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT current_version_id FROM resumes WHERE resume_id = ?`, resumeID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, resumeNotFound(resumeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up resume: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT version_id, resume_id, version_number, parent_version_id, created_at, change_summary
		 FROM resume_versions WHERE resume_id = ? ORDER BY version_number`,
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
			parent  sql.NullString
			created string
		)
		if err := rows.Scan(&m.VersionID, &m.ResumeID, &m.VersionNumber, &parent, &created, &m.ChangeSummary); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		m.ParentVersionID = parent.String
		if m.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		m.IsCurrent = current.Valid && m.VersionID == current.String
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return out, nil
}

// GetCurrent implements Store.
func (s *SQLiteStore) GetCurrent(ctx context.Context, resumeID string) (*types.ResumeVersion, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+prefixed("v", versionColumns)+`
		 FROM resumes r JOIN resume_versions v ON v.version_id = r.current_version_id
		 WHERE r.resume_id = ?`,
		resumeID,
	)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, resumeNotFound(resumeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current version: %w", err)
	}
	return v, nil
}

// SetCurrent implements Store.
func (s *SQLiteStore) SetCurrent(ctx context.Context, resumeID, versionID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE resumes SET current_version_id = ?
		 WHERE resume_id = ?
		   AND EXISTS (SELECT 1 FROM resume_versions WHERE resume_id = ? AND version_id = ?)`,
		versionID, resumeID, resumeID, versionID,
	)
	if err != nil {
		return fmt.Errorf("failed to set current version: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if ok, cerr := s.resumeExists(ctx, resumeID); cerr == nil && !ok {
			return resumeNotFound(resumeID)
		}
		return versionNotFound(resumeID, versionID)
	}
	return nil
}

// Step implements Store.
func (s *SQLiteStore) Step(ctx context.Context, resumeID string, delta int) (*types.ResumeVersion, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var number sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT v.version_number FROM resumes r
		 LEFT JOIN resume_versions v ON v.version_id = r.current_version_id
		 WHERE r.resume_id = ?`, resumeID,
	).Scan(&number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, resumeNotFound(resumeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read current version: %w", err)
	}
	if !number.Valid {
		return nil, NoAdjacentVersion(resumeID, delta)
	}

	v, err := scanVersion(tx.QueryRowContext(ctx,
		`SELECT `+versionColumns+` FROM resume_versions WHERE resume_id = ? AND version_number = ?`,
		resumeID, number.Int64+int64(delta),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NoAdjacentVersion(resumeID, delta)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE resumes SET current_version_id = ? WHERE resume_id = ?`, v.VersionID, resumeID,
	); err != nil {
		return nil, fmt.Errorf("failed to move current version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit step: %w", err)
	}
	return v, nil
}

func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
