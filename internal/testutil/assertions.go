package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/relay/internal/handoff"
	"github.com/thruflo/relay/internal/project"
)

// AssertValid asserts that a validation result carries no errors.
func AssertValid(t *testing.T, res *handoff.Result) {
	t.Helper()
	require.NotNil(t, res, "result is nil")
	assert.Empty(t, res.Errors, "expected no errors")
	assert.True(t, res.Valid(), "result should be valid")
}

// AssertClean asserts that a validation result carries no errors or warnings.
func AssertClean(t *testing.T, res *handoff.Result) {
	t.Helper()
	AssertValid(t, res)
	assert.Empty(t, res.Warnings, "expected no warnings")
}

// AssertInvalid asserts that a validation result was rejected without an id.
func AssertInvalid(t *testing.T, res *handoff.Result) {
	t.Helper()
	require.NotNil(t, res, "result is nil")
	assert.NotEmpty(t, res.Errors, "expected errors")
	assert.False(t, res.Valid(), "result should be invalid")
	assert.Empty(t, res.HandoffID, "rejected handoff should have no id")
}

// AssertHasError asserts that one of the errors contains substr.
func AssertHasError(t *testing.T, res *handoff.Result, substr string) {
	t.Helper()
	require.NotNil(t, res, "result is nil")
	assert.True(t, containsMessage(res.Errors, substr),
		"expected an error containing %q, got %v", substr, res.Errors)
}

// AssertHasWarning asserts that one of the warnings contains substr.
func AssertHasWarning(t *testing.T, res *handoff.Result, substr string) {
	t.Helper()
	require.NotNil(t, res, "result is nil")
	assert.True(t, containsMessage(res.Warnings, substr),
		"expected a warning containing %q, got %v", substr, res.Warnings)
}

// AssertNoWarning asserts that no warning contains substr.
func AssertNoWarning(t *testing.T, res *handoff.Result, substr string) {
	t.Helper()
	require.NotNil(t, res, "result is nil")
	assert.False(t, containsMessage(res.Warnings, substr),
		"unexpected warning containing %q in %v", substr, res.Warnings)
}

func containsMessage(msgs []string, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// AssertProjectStatus asserts that a project state has the expected status.
func AssertProjectStatus(t *testing.T, st *project.State, expected project.Status) {
	t.Helper()
	require.NotNil(t, st, "state is nil")
	assert.Equal(t, expected, st.Status, "project status mismatch")
}

// AssertBlockers asserts the full blocker list of a project state.
func AssertBlockers(t *testing.T, st *project.State, expected ...string) {
	t.Helper()
	require.NotNil(t, st, "state is nil")
	if len(expected) == 0 {
		assert.Empty(t, st.Blockers, "expected no blockers")
		return
	}
	assert.Equal(t, expected, st.Blockers, "blockers mismatch")
}
