// Package store persists project documents and the append-only handoff audit
// log. Two backends implement DocumentStore: FileStore keeps one directory
// per project in the layout humans browse, and SQLiteStore keeps everything
// in a single database file.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thruflo/relay/internal/config"
	"github.com/thruflo/relay/internal/handoff"
)

// Kind names a per-project document.
type Kind string

// Document kinds.
const (
	// KindBrief is the original brief. It is stored as text and can be
	// written only once.
	KindBrief          Kind = "brief"
	KindProjectState   Kind = "project-state"
	KindSnapshot       Kind = "current-snapshot"
	KindDecisions      Kind = "decision-record"
	KindBlockerArchive Kind = "blocker-archive"
)

// Kinds lists every document kind.
func Kinds() []Kind {
	return []Kind{KindBrief, KindProjectState, KindSnapshot, KindDecisions, KindBlockerArchive}
}

// Errors returned by stores.
var (
	ErrNotFound         = errors.New("not found")
	ErrImmutable        = errors.New("document is write-once")
	ErrUnknownKind      = errors.New("unknown document kind")
	ErrInvalidProjectID = errors.New("invalid project id")
)

// DocumentStore is the persistence used by the coordinator.
type DocumentStore interface {
	// Read decodes the document of kind into out. It reports false when the
	// document does not exist. Briefs decode into *string.
	Read(ctx context.Context, projectID string, kind Kind, out any) (bool, error)
	// Write replaces the document of kind. Writing an existing brief fails
	// with ErrImmutable.
	Write(ctx context.Context, projectID string, kind Kind, doc any) error
	// AppendAudit adds rec to the project's audit log and returns where it
	// was recorded. rec.ID is assigned when empty.
	AppendAudit(ctx context.Context, projectID string, rec *AuditRecord) (string, error)
	// Audits returns the audit log oldest first.
	Audits(ctx context.Context, projectID string) ([]AuditRecord, error)
	// Projects returns the ids of all projects with a stored state, sorted.
	Projects(ctx context.Context) ([]string, error)
	// Exists reports whether the project has a stored state.
	Exists(ctx context.Context, projectID string) (bool, error)
	Close() error
}

// Validation is the validation outcome recorded in an audit record.
type Validation struct {
	IsValid  bool     `yaml:"is_valid"`
	Errors   []string `yaml:"errors"`
	Warnings []string `yaml:"warnings"`
}

// AuditRecord is one submitted handoff, accepted or not.
type AuditRecord struct {
	ID         string        `yaml:"id"`
	HandoffID  string        `yaml:"handoff_id,omitempty"`
	LoggedAt   time.Time     `yaml:"logged_at"`
	FromAgent  string        `yaml:"from_agent"`
	ToAgent    string        `yaml:"to_agent,omitempty"`
	Validation Validation    `yaml:"validation"`
	Handoff    handoff.Block `yaml:"handoff,omitempty"`

	// Location is where the record was stored. It is filled in on read.
	Location string `yaml:"-"`
}

// Open returns the store selected by cfg under basePath.
func Open(basePath string, cfg *config.Config) (DocumentStore, error) {
	path := config.StoragePath(basePath, cfg)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.BackendFile, "":
		return NewFileStore(path), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// ValidateProjectID rejects ids that cannot safely name a directory.
func ValidateProjectID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("%w: empty", ErrInvalidProjectID)
	case id != strings.TrimSpace(id):
		return fmt.Errorf("%w: %q has surrounding space", ErrInvalidProjectID, id)
	case strings.HasPrefix(id, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidProjectID, id)
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidProjectID, id)
	}
	return nil
}

func checkKind(kind Kind) error {
	for _, k := range Kinds() {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// briefText converts a brief document to text.
func briefText(doc any) (string, error) {
	switch v := doc.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("brief must be a string, got %T", doc)
}

// setBrief stores a brief read as text into out.
func setBrief(text string, out any) error {
	switch v := out.(type) {
	case *string:
		*v = text
	case *[]byte:
		*v = []byte(text)
	default:
		return fmt.Errorf("brief must be read into *string, got %T", out)
	}
	return nil
}
