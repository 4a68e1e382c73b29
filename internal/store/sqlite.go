package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps documents and audit records in one SQLite database.
// Uses WAL mode so history can be read while a submission writes.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite creates or opens a SQLite database at path and applies the
// schema. It is safe to call on an existing database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close implements DocumentStore.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Read implements DocumentStore.
func (s *SQLiteStore) Read(ctx context.Context, projectID string, kind Kind, out any) (bool, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return false, err
	}
	if err := checkKind(kind); err != nil {
		return false, err
	}

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE project_id = ? AND kind = ?`,
		projectID, string(kind),
	).Scan(&body)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	if kind == KindBrief {
		return true, setBrief(body, out)
	}
	if err := yaml.Unmarshal([]byte(body), out); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", kind, err)
	}
	return true, nil
}

// Write implements DocumentStore.
func (s *SQLiteStore) Write(ctx context.Context, projectID string, kind Kind, doc any) error {
	if err := ValidateProjectID(projectID); err != nil {
		return err
	}
	if err := checkKind(kind); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	if kind == KindBrief {
		text, err := briefText(doc)
		if err != nil {
			return err
		}
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO documents (project_id, kind, body, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(project_id, kind) DO NOTHING`,
			projectID, string(kind), text, now,
		)
		if err != nil {
			return fmt.Errorf("failed to write brief: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to write brief: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("brief for %s: %w", projectID, ErrImmutable)
		}
		return nil
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (project_id, kind, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(project_id, kind) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		projectID, string(kind), string(data), now,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return nil
}

// AppendAudit implements DocumentStore.
func (s *SQLiteStore) AppendAudit(ctx context.Context, projectID string, rec *AuditRecord) (string, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit record: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO audits (id, project_id, handoff_id, from_agent, to_agent, is_valid, logged_at, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, projectID, rec.HandoffID, rec.FromAgent, rec.ToAgent,
		rec.Validation.IsValid, rec.LoggedAt.UTC().Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert audit record: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("failed to read audit sequence: %w", err)
	}

	rec.Location = s.location(seq)
	return rec.Location, nil
}

func (s *SQLiteStore) location(seq int64) string {
	return fmt.Sprintf("%s#audits/%d", s.path, seq)
}

// Audits implements DocumentStore.
func (s *SQLiteStore) Audits(ctx context.Context, projectID string) ([]AuditRecord, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, body FROM audits WHERE project_id = ? ORDER BY seq ASC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audits: %w", err)
	}
	defer rows.Close()

	records := []AuditRecord{}
	for rows.Next() {
		var (
			seq  int64
			body string
		)
		if err := rows.Scan(&seq, &body); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		var rec AuditRecord
		if err := yaml.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("failed to parse audit record %d: %w", seq, err)
		}
		rec.Location = s.location(seq)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audits: %w", err)
	}
	return records, nil
}

// Projects implements DocumentStore.
func (s *SQLiteStore) Projects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id FROM documents WHERE kind = ? ORDER BY project_id ASC`,
		string(KindProjectState),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return ids, nil
}

// Exists implements DocumentStore.
func (s *SQLiteStore) Exists(ctx context.Context, projectID string) (bool, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return false, err
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE project_id = ? AND kind = ?`,
		projectID, string(KindProjectState),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return n > 0, nil
}
