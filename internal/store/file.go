package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	stateFile   = ".state.yaml"
	auditDir    = "handoff_log"
	unknownName = "unknown"
)

var kindFiles = map[Kind]string{
	KindBrief:          "ORIGINAL_BRIEF.md",
	KindProjectState:   stateFile,
	KindSnapshot:       "CURRENT_STATE.yaml",
	KindDecisions:      filepath.Join("decisions", "DECISIONS.yaml"),
	KindBlockerArchive: filepath.Join("decisions", "BLOCKER_ARCHIVE.yaml"),
}

// FileStore keeps each project in its own directory:
//
//	<root>/<project>/ORIGINAL_BRIEF.md
//	<root>/<project>/.state.yaml
//	<root>/<project>/CURRENT_STATE.yaml
//	<root>/<project>/decisions/DECISIONS.yaml
//	<root>/<project>/decisions/BLOCKER_ARCHIVE.yaml
//	<root>/<project>/handoff_log/NNN_<from>_to_<to>.yaml
type FileStore struct {
	root string
	// mu serializes audit numbering.
	mu sync.Mutex
}

// NewFileStore creates a FileStore rooted at root.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the projects directory.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) projectDir(projectID string) string {
	return filepath.Join(s.root, projectID)
}

// sanitizeName converts an agent name to a safe file name component.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return unknownName
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ':
			return '-'
		}
		return r
	}, name)
}

// Read implements DocumentStore.
func (s *FileStore) Read(ctx context.Context, projectID string, kind Kind, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := ValidateProjectID(projectID); err != nil {
		return false, err
	}
	if err := checkKind(kind); err != nil {
		return false, err
	}

	path := filepath.Join(s.projectDir(projectID), kindFiles[kind])
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	if kind == KindBrief {
		return true, setBrief(string(data), out)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", kind, err)
	}
	return true, nil
}

// Write implements DocumentStore.
func (s *FileStore) Write(ctx context.Context, projectID string, kind Kind, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateProjectID(projectID); err != nil {
		return err
	}
	if err := checkKind(kind); err != nil {
		return err
	}

	path := filepath.Join(s.projectDir(projectID), kindFiles[kind])
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	if kind == KindBrief {
		text, err := briefText(doc)
		if err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				return fmt.Errorf("brief for %s: %w", projectID, ErrImmutable)
			}
			return fmt.Errorf("failed to create brief: %w", err)
		}
		if _, err := f.WriteString(text); err != nil {
			f.Close()
			return fmt.Errorf("failed to write brief: %w", err)
		}
		return f.Close()
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return nil
}

// writeFileAtomic replaces path so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// AppendAudit implements DocumentStore. Records are numbered in arrival order
// and never overwritten.
func (s *FileStore) AppendAudit(ctx context.Context, projectID string, rec *AuditRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
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

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.projectDir(projectID), auditDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audit directory: %w", err)
	}
	names, err := auditFiles(dir)
	if err != nil {
		return "", err
	}

	next := 1
	if len(names) > 0 {
		next = auditNumber(names[len(names)-1]) + 1
	}
	for {
		name := fmt.Sprintf("%03d_%s_to_%s.yaml", next, sanitizeName(rec.FromAgent), sanitizeName(rec.ToAgent))
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			next++
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create audit record: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to write audit record: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to write audit record: %w", err)
		}
		rec.Location = path
		return path, nil
	}
}

// auditFiles returns the audit file names in dir in numeric order.
func auditFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") || auditNumber(e.Name()) == 0 {
			continue
		}
		names = append(names, e.Name())
	}
	sort.SliceStable(names, func(i, j int) bool {
		return auditNumber(names[i]) < auditNumber(names[j])
	})
	return names, nil
}

// auditNumber parses the sequence prefix of an audit file name, or 0.
func auditNumber(name string) int {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Audits implements DocumentStore.
func (s *FileStore) Audits(ctx context.Context, projectID string) ([]AuditRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateProjectID(projectID); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.projectDir(projectID), auditDir)
	names, err := auditFiles(dir)
	if err != nil {
		return nil, err
	}

	records := make([]AuditRecord, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read audit record %s: %w", name, err)
		}
		var rec AuditRecord
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse audit record %s: %w", name, err)
		}
		rec.Location = path
		records = append(records, rec)
	}
	return records, nil
}

// Projects implements DocumentStore.
func (s *FileStore) Projects(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	ids := []string{}
	for _, e := range entries {
		if !e.IsDir() || ValidateProjectID(e.Name()) != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, e.Name(), stateFile)); err != nil {
			continue // Skip directories without a project state
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// Exists implements DocumentStore.
func (s *FileStore) Exists(ctx context.Context, projectID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := ValidateProjectID(projectID); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(s.projectDir(projectID), stateFile))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat project state: %w", err)
}

// Close implements DocumentStore.
func (s *FileStore) Close() error {
	return nil
}
