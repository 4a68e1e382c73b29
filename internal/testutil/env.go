package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/relay/internal/handoff"
)

// FixedTime is the reference instant used by tests that need a stable clock.
var FixedTime = time.Date(2026, 1, 25, 20, 0, 0, 0, time.UTC)

// Clock returns a clock that always reports at.
func Clock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// TickingClock returns a clock that starts at start and advances by step on
// every call. It is safe for concurrent use.
func TickingClock(start time.Time, step time.Duration) func() time.Time {
	ch := make(chan time.Time, 1)
	ch <- start
	return func() time.Time {
		now := <-ch
		ch <- now.Add(step)
		return now
	}
}

// SetupTestDir creates a temporary directory with the .relay directory
// structure and a minimal config. The directory is removed when the test
// completes.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	relayDir := filepath.Join(tmpDir, ".relay")
	dirs := []string{
		relayDir,
		filepath.Join(relayDir, "projects"),
		filepath.Join(relayDir, "templates"),
	}
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}

	configContent := `validation:
  strict: false
  min_intent_length: 20
drift:
  enabled: true
storage:
  backend: file
  path: projects
logging:
  level: error
`
	require.NoError(t, os.WriteFile(filepath.Join(relayDir, "config.yaml"), []byte(configContent), 0644))

	return tmpDir
}

// MustParse parses a handoff fixture, failing the test on error.
func MustParse(t *testing.T, data string) *handoff.Document {
	t.Helper()
	doc, err := handoff.Parse([]byte(data))
	require.NoError(t, err)
	return doc
}

// WriteTestFile writes content to a file in the test directory.
// Creates parent directories as needed.
func WriteTestFile(t *testing.T, basePath, relativePath string, content []byte) string {
	t.Helper()
	fullPath := filepath.Join(basePath, relativePath)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(t, os.WriteFile(fullPath, content, 0644))
	return fullPath
}
