package coordinator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/relay/internal/coordinator"
	"github.com/thruflo/relay/internal/drift"
	"github.com/thruflo/relay/internal/handoff"
	"github.com/thruflo/relay/internal/logging"
	"github.com/thruflo/relay/internal/project"
	"github.com/thruflo/relay/internal/store"
	"github.com/thruflo/relay/internal/testutil"
)

const projectID = "store-ai-auth"

func newCoordinator(t *testing.T, st store.DocumentStore, opts ...coordinator.Option) *coordinator.Coordinator {
	t.Helper()
	opts = append([]coordinator.Option{
		coordinator.WithClock(testutil.Clock(testutil.FixedTime)),
		coordinator.WithLogger(logging.Discard()),
	}, opts...)
	return coordinator.New(st, opts...)
}

// setup returns a coordinator over a file store holding one project created
// from testutil.SampleBrief.
func setup(t *testing.T, opts ...coordinator.Option) (*coordinator.Coordinator, *store.FileStore) {
	t.Helper()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "projects"))
	c := newCoordinator(t, fs, opts...)
	_, err := c.CreateProject(context.Background(), projectID, testutil.SampleBrief)
	require.NoError(t, err)
	return c, fs
}

func submit(t *testing.T, c *coordinator.Coordinator, data string) *coordinator.Outcome {
	t.Helper()
	out, err := c.Submit(context.Background(), projectID, testutil.MustParse(t, data), "", "")
	require.NoError(t, err)
	return out
}

func edit(t *testing.T, src, old, new string) string {
	t.Helper()
	require.Contains(t, src, old, "fixture does not contain the text to replace")
	return strings.Replace(src, old, new, 1)
}

func TestCreateProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, fs := setup(t)

	st, err := c.ProjectState(ctx, projectID)
	require.NoError(t, err)
	testutil.AssertProjectStatus(t, st, project.StatusActive)
	testutil.AssertBlockers(t, st)
	assert.Empty(t, st.CurrentAgent)
	assert.Empty(t, st.LastHandoff)
	assert.Equal(t, testutil.FixedTime, st.CreatedAt)

	brief, err := c.Brief(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleBrief, brief)

	snap, err := c.Snapshot(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, project.SnapshotAwaitingFirstHandoff, snap.Status)

	decisions, err := c.Decisions(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, decisions)

	assert.FileExists(t, filepath.Join(fs.Root(), projectID, "ORIGINAL_BRIEF.md"))
	assert.FileExists(t, filepath.Join(fs.Root(), projectID, "CURRENT_STATE.yaml"))
}

func TestCreateProjectRejectsDuplicates(t *testing.T) {
	t.Parallel()

	c, _ := setup(t)
	_, err := c.CreateProject(context.Background(), projectID, "another brief")
	assert.ErrorIs(t, err, coordinator.ErrProjectExists)

	brief, err := c.Brief(context.Background(), projectID)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleBrief, brief)
}

func TestCreateProjectInvalidID(t *testing.T) {
	t.Parallel()

	c := newCoordinator(t, store.NewFileStore(t.TempDir()))
	for _, id := range []string{"", " x", "../escape", ".hidden"} {
		_, err := c.CreateProject(context.Background(), id, "brief")
		assert.ErrorIs(t, err, store.ErrInvalidProjectID, "id %q", id)
	}
}

func TestSubmitAccepted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := setup(t)
	out := submit(t, c, testutil.ArchitectHandoff)

	require.True(t, out.Valid, "errors: %v", out.Errors)
	assert.Empty(t, out.Errors)
	assert.Empty(t, out.Warnings)
	assert.False(t, out.Drift.HasDrift())
	assert.Equal(t, "store-ai-auth_architect_to_implementer_20260125_200000", out.HandoffID)
	assert.Equal(t, "implementer", out.NextAgent)
	assert.Equal(t, project.StatusActive, out.Status)
	assert.Equal(t, "001_architect_to_implementer.yaml", filepath.Base(out.AuditLocation))

	st, err := c.ProjectState(ctx, projectID)
	require.NoError(t, err)
	testutil.AssertProjectStatus(t, st, project.StatusActive)
	assert.Equal(t, "implementer", st.CurrentAgent)
	assert.Equal(t, out.HandoffID, st.LastHandoff)

	decisions, err := c.Decisions(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, "Use JWT for auth", decisions[0].Decision)
	assert.Equal(t, "architect", decisions[0].Agent)
	assert.Equal(t, out.HandoffID, decisions[0].HandoffID)

	snap, err := c.Snapshot(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, project.SnapshotCurrent, snap.Status)
	assert.Equal(t, out.HandoffID, snap.HandoffID)
	assert.True(t, snap.Handoff.Set())

	history, err := c.History(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Validation.IsValid)
	assert.Equal(t, out.HandoffID, history[0].HandoffID)
	assert.Equal(t, "architect", history[0].FromAgent)
	assert.Equal(t, "implementer", history[0].ToAgent)
}

func TestSubmitRejectedIsAuditedButNotApplied(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := setup(t)
	data := edit(t, testutil.ImplementerToSecurityHandoff,
		"  original_intent: Build simple, secure authentication for the store AI server POC.\n", "")
	out := submit(t, c, data)

	assert.False(t, out.Valid)
	assert.Equal(t, []string{
		"Missing required field: context_for_next_agent.original_intent",
		"[DRIFT] Original intent is too short or missing - drift likely",
	}, out.Errors)
	assert.Empty(t, out.HandoffID)
	assert.Empty(t, out.NextAgent)
	assert.Equal(t, project.StatusActive, out.Status)
	assert.NotEmpty(t, out.AuditLocation)

	history, err := c.History(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Validation.IsValid)
	assert.Equal(t, out.Errors, history[0].Validation.Errors)
	assert.Empty(t, history[0].HandoffID)

	st, err := c.ProjectState(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, st.LastHandoff)
	assert.Empty(t, st.CurrentAgent)

	decisions, err := c.Decisions(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, decisions)

	snap, err := c.Snapshot(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, project.SnapshotAwaitingFirstHandoff, snap.Status)
}

func TestSubmitDriftRejectsValidHandoff(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := setup(t)
	data := edit(t, testutil.TesterHandoff,
		"what_was_done: Ran unit and integration tests for registration and login.",
		"what_was_done: Tested the new OAuth login via Google.")

	// Structurally the handoff is fine.
	res := handoff.NewValidator().Validate(testutil.MustParse(t, data), "tester", "devops")
	testutil.AssertClean(t, res)

	out := submit(t, c, data)
	assert.False(t, out.Valid)
	assert.True(t, out.Drift.HasDrift())
	assert.Equal(t, []string{
		"[DRIFT] Possible out-of-scope work detected: 'oauth' mentioned in what_was_done",
	}, out.Errors)
	assert.Empty(t, out.HandoffID)
	assert.Empty(t, out.NextAgent)

	history, err := c.History(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Validation.IsValid)
}

func TestSubmitBlankBriefStillChecksIntent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	short := edit(t, testutil.ArchitectHandoff,
		"    original_intent: |\n      Build simple, secure authentication for the store AI server POC.\n      Local only, no external dependencies, privacy-first.\n",
		"    original_intent: Auth.\n")

	for _, brief := range []string{"", "Build auth."} {
		c := newCoordinator(t, store.NewFileStore(t.TempDir()))
		_, err := c.CreateProject(ctx, projectID, brief)
		require.NoError(t, err)

		out := submit(t, c, short)
		assert.False(t, out.Valid, "brief %q", brief)
		assert.Equal(t, []string{coordinator.DriftPrefix + drift.IntentIssue}, out.Errors, "brief %q", brief)
	}
}

func TestSubmitWithoutBriefSkipsDrift(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs := store.NewFileStore(t.TempDir())
	require.NoError(t, fs.Write(ctx, projectID, store.KindProjectState, project.New(projectID, testutil.FixedTime)))
	c := newCoordinator(t, fs)

	short := edit(t, testutil.ArchitectHandoff,
		"    original_intent: |\n      Build simple, secure authentication for the store AI server POC.\n      Local only, no external dependencies, privacy-first.\n",
		"    original_intent: Auth.\n")
	out := submit(t, c, short)
	assert.False(t, out.Drift.HasDrift())
	assert.True(t, out.Valid, "errors: %v", out.Errors)
}

type failingStore struct {
	store.DocumentStore
	fail store.Kind
}

func (s failingStore) Write(ctx context.Context, projectID string, kind store.Kind, doc any) error {
	if kind == s.fail {
		return errors.New("disk full")
	}
	return s.DocumentStore.Write(ctx, projectID, kind, doc)
}

func TestSubmitLeavesStateOnFailedWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs := store.NewFileStore(t.TempDir())
	_, err := newCoordinator(t, fs).CreateProject(ctx, projectID, testutil.SampleBrief)
	require.NoError(t, err)

	for _, kind := range []store.Kind{store.KindDecisions, store.KindSnapshot} {
		c := newCoordinator(t, failingStore{DocumentStore: fs, fail: kind})
		_, err := c.Submit(ctx, projectID, testutil.MustParse(t, testutil.ArchitectHandoff), "", "")
		require.Error(t, err, "kind %v", kind)

		st, err := c.ProjectState(ctx, projectID)
		require.NoError(t, err)
		assert.Equal(t, project.StatusActive, st.Status)
		assert.Empty(t, st.LastHandoff, "kind %v", kind)
		assert.Empty(t, st.CurrentAgent, "kind %v", kind)
	}
}

func TestSubmitCompletesProject(t *testing.T) {
	t.Parallel()

	c, _ := setup(t)
	out := submit(t, c, testutil.DevOpsHandoff)

	require.True(t, out.Valid, "errors: %v", out.Errors)
	assert.Empty(t, out.NextAgent)
	assert.Equal(t, project.StatusCompleted, out.Status)
	assert.Equal(t, "store-ai-auth_devops_to_any_20260125_200000", out.HandoffID)

	st, err := c.ProjectState(context.Background(), projectID)
	require.NoError(t, err)
	testutil.AssertProjectStatus(t, st, project.StatusCompleted)
	assert.Empty(t, st.CurrentAgent)
}

func TestSubmitBlockersAccumulate(t *testing.T) {
	t.Parallel()

	c, _ := setup(t, coordinator.WithClock(testutil.TickingClock(testutil.FixedTime, time.Second)))

	first := submit(t, c, testutil.BlockedHandoff)
	require.True(t, first.Valid, "errors: %v", first.Errors)
	assert.Equal(t, project.StatusBlocked, first.Status)

	second := submit(t, c, edit(t, testutil.BlockedHandoff,
		"blocker: Token lifetime not specified", "blocker: Signing key not provisioned"))
	require.True(t, second.Valid, "errors: %v", second.Errors)
	assert.NotEqual(t, first.HandoffID, second.HandoffID)

	st, err := c.ProjectState(context.Background(), projectID)
	require.NoError(t, err)
	testutil.AssertProjectStatus(t, st, project.StatusBlocked)
	testutil.AssertBlockers(t, st, "Token lifetime not specified", "Signing key not provisioned")
	assert.Equal(t, "architect", st.CurrentAgent)

	blocked, err := c.BlockedProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, projectID, blocked[0].ProjectID)

	// A later partial handoff reactivates the project but keeps the blockers.
	third := submit(t, c, testutil.PartialHandoff)
	require.True(t, third.Valid, "errors: %v", third.Errors)
	st, err = c.ProjectState(context.Background(), projectID)
	require.NoError(t, err)
	testutil.AssertProjectStatus(t, st, project.StatusActive)
	testutil.AssertBlockers(t, st, "Token lifetime not specified", "Signing key not provisioned")
}

func TestSubmitRoleOverrides(t *testing.T) {
	t.Parallel()

	c, _ := setup(t)

	// The explicit to-role wins over the document's to_agent, so the
	// implementer to tester contract applies and security_context is not
	// enough.
	doc := testutil.MustParse(t, testutil.ImplementerToSecurityHandoff)
	out, err := c.Submit(context.Background(), projectID, doc, "build", "test")
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.Contains(t, strings.Join(out.Errors, "\n"), "[IMPLEMENTER→TESTER]")

	history, err := c.History(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "implementer", history[0].FromAgent)
	assert.Equal(t, "tester", history[0].ToAgent)
}

func TestSubmitUnknownRole(t *testing.T) {
	t.Parallel()

	c, _ := setup(t)
	doc := testutil.MustParse(t, testutil.ArchitectHandoff)
	out, err := c.Submit(context.Background(), projectID, doc, "manager", "")
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.Equal(t, "Invalid from_agent: manager. Must be one of: architect, implementer, security, tester, devops", out.Errors[0])

	history, err := c.History(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "manager", history[0].FromAgent)
}

func TestSubmitStrictMode(t *testing.T) {
	t.Parallel()

	data := edit(t, testutil.TesterHandoff, "      classification: bug\n", "")

	lenient, _ := setup(t)
	out := submit(t, lenient, data)
	assert.True(t, out.Valid, "errors: %v", out.Errors)
	assert.Equal(t, []string{"[TESTER] Bug BUG-1 missing classification (bug vs feature_request)"}, out.Warnings)

	strict, _ := setup(t, coordinator.WithValidator(handoff.NewValidator(
		handoff.WithStrict(true),
		handoff.WithClock(testutil.Clock(testutil.FixedTime)),
	)))
	out = submit(t, strict, data)
	assert.False(t, out.Valid)
	assert.Equal(t, []string{"[STRICT] [TESTER] Bug BUG-1 missing classification (bug vs feature_request)"}, out.Errors)
	assert.Empty(t, out.NextAgent)
}

func TestSubmitUnknownProject(t *testing.T) {
	t.Parallel()

	c := newCoordinator(t, store.NewFileStore(t.TempDir()))
	_, err := c.Submit(context.Background(), "missing", testutil.MustParse(t, testutil.ArchitectHandoff), "", "")
	assert.ErrorIs(t, err, coordinator.ErrProjectNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = c.History(context.Background(), "missing")
	assert.ErrorIs(t, err, coordinator.ErrProjectNotFound)
}

func TestSubmitNilDocument(t *testing.T) {
	t.Parallel()

	c, _ := setup(t)
	out, err := c.Submit(context.Background(), projectID, nil, "architect", "")
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.Contains(t, out.Errors, "Missing required field: context_for_next_agent.original_intent")
}

func TestSubmitSerializesPerProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := setup(t, coordinator.WithClock(testutil.TickingClock(testutil.FixedTime, time.Second)))

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := handoff.Parse([]byte(testutil.PartialHandoff))
			if err != nil {
				errs <- err
				return
			}
			out, err := c.Submit(ctx, projectID, doc, "", "")
			if err != nil {
				errs <- err
				return
			}
			if !out.Valid {
				errs <- errors.New(strings.Join(out.Errors, "; "))
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	history, err := c.History(ctx, projectID)
	require.NoError(t, err)
	assert.Len(t, history, n)

	decisions, err := c.Decisions(ctx, projectID)
	require.NoError(t, err)
	assert.Len(t, decisions, n, "every accepted handoff appends its decision")
}

func TestSubmitCancelled(t *testing.T) {
	t.Parallel()

	c, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Submit(ctx, projectID, testutil.MustParse(t, testutil.ArchitectHandoff), "", "")
	assert.ErrorIs(t, err, context.Canceled)

	history, err := c.History(context.Background(), projectID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestListProjects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := setup(t)
	_, err := c.CreateProject(ctx, "another", "brief")
	require.NoError(t, err)
	submit(t, c, testutil.DevOpsHandoff)

	states, err := c.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "another", states[0].ProjectID)
	assert.Equal(t, project.StatusActive, states[0].Status)
	assert.Equal(t, projectID, states[1].ProjectID)
	assert.Equal(t, project.StatusCompleted, states[1].Status)

	blocked, err := c.BlockedProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, blocked)
}

func TestDecisionLog(t *testing.T) {
	t.Parallel()

	c, _ := setup(t)
	submit(t, c, testutil.ArchitectHandoff)

	log, err := c.DecisionLog(context.Background(), projectID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(log, "# Decision Log: store-ai-auth\n"))
	assert.Contains(t, log, "| 2026-01-25 | architect | Use JWT for auth | Stateless, scales well, simple to implement |")
}

func TestAssign(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := setup(t, coordinator.WithClock(testutil.TickingClock(testutil.FixedTime, time.Second)))
	for _, data := range []string{
		testutil.ArchitectHandoff,
		testutil.PartialHandoff,
		testutil.ImplementerToSecurityHandoff,
		testutil.SecurityHandoff,
	} {
		out := submit(t, c, data)
		require.True(t, out.Valid, "errors: %v", out.Errors)
	}

	a, err := c.Assign(ctx, projectID, "test", "  Write the integration suite  ")
	require.NoError(t, err)
	assert.Equal(t, "tester", a.Role.Name())
	assert.Equal(t, "Write the integration suite", a.Task)
	assert.Equal(t, testutil.SampleBrief, a.Brief)
	assert.Equal(t, "tester", a.State.CurrentAgent)
	assert.Equal(t, project.SnapshotCurrent, a.Snapshot.Status)
	require.Len(t, a.Recent, 3)
	assert.Equal(t, "implementer", a.Recent[0].FromAgent)
	assert.Equal(t, "security", a.Recent[2].FromAgent)
	require.NotNil(t, a.Expected)
	assert.Contains(t, a.Expected.Required, "test_results.summary")

	_, err = c.Assign(ctx, projectID, "manager", "")
	assert.Error(t, err)
	_, err = c.Assign(ctx, "missing", "tester", "")
	assert.ErrorIs(t, err, coordinator.ErrProjectNotFound)
}

func TestExpectedShape(t *testing.T) {
	t.Parallel()

	c := newCoordinator(t, store.NewFileStore(t.TempDir()))
	tmpl, err := c.ExpectedShape("deploy")
	require.NoError(t, err)
	assert.Equal(t, "devops", tmpl.Role.Name())
	assert.Contains(t, tmpl.Content, "rollback")

	_, err = c.ExpectedShape("manager")
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := setup(t)
	submit(t, c, testutil.ArchitectHandoff)

	bad := edit(t, testutil.ArchitectHandoff, "  task_id: store-ai-auth\n", "")
	for i := 0; i < 2; i++ {
		submit(t, c, bad)
	}
	h, err := c.Health(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Accepted)
	assert.Equal(t, 3, h.Total)
	assert.False(t, h.Stalled)

	submit(t, c, bad)
	h, err = c.Health(ctx, projectID)
	require.NoError(t, err)
	assert.True(t, h.Stalled)
	assert.Equal(t, 0.0, h.RecentRate)
}

func TestPauseResume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := setup(t)
	st, err := c.Pause(ctx, projectID)
	require.NoError(t, err)
	testutil.AssertProjectStatus(t, st, project.StatusPaused)

	_, err = c.Pause(ctx, projectID)
	assert.ErrorIs(t, err, project.ErrInvalidTransition)

	st, err = c.Resume(ctx, projectID)
	require.NoError(t, err)
	testutil.AssertProjectStatus(t, st, project.StatusActive)

	stored, err := c.ProjectState(ctx, projectID)
	require.NoError(t, err)
	testutil.AssertProjectStatus(t, stored, project.StatusActive)

	_, err = c.Resume(ctx, "missing")
	assert.ErrorIs(t, err, coordinator.ErrProjectNotFound)
}

func TestResolveBlockers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := setup(t)
	submit(t, c, testutil.BlockedHandoff)

	resolved, err := c.ResolveBlockers(ctx, projectID, "lifetime set to one hour")
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Token lifetime not specified", resolved[0].Blocker)

	st, err := c.ProjectState(ctx, projectID)
	require.NoError(t, err)
	testutil.AssertProjectStatus(t, st, project.StatusActive)
	testutil.AssertBlockers(t, st)

	archive, err := c.ArchivedBlockers(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, archive, 1)
	assert.Equal(t, "lifetime set to one hour", archive[0].Note)

	// Nothing left to resolve.
	resolved, err = c.ResolveBlockers(ctx, projectID, "")
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestSQLiteBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "relay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c := newCoordinator(t, db, coordinator.WithClock(testutil.TickingClock(testutil.FixedTime, time.Second)))
	_, err = c.CreateProject(ctx, projectID, testutil.SampleBrief)
	require.NoError(t, err)

	for _, data := range []string{testutil.ArchitectHandoff, testutil.BlockedHandoff} {
		out := submit(t, c, data)
		require.True(t, out.Valid, "errors: %v", out.Errors)
		assert.Contains(t, out.AuditLocation, "#audits/")
	}

	st, err := c.ProjectState(ctx, projectID)
	require.NoError(t, err)
	testutil.AssertProjectStatus(t, st, project.StatusBlocked)
	testutil.AssertBlockers(t, st, "Token lifetime not specified")

	decisions, err := c.Decisions(ctx, projectID)
	require.NoError(t, err)
	assert.Len(t, decisions, 2)

	history, err := c.History(ctx, projectID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestMergeDrift(t *testing.T) {
	t.Parallel()

	res := &handoff.Result{HandoffID: "id"}
	coordinator.MergeDrift(res, drift.Report{})
	assert.True(t, res.Valid())
	assert.Equal(t, "id", res.HandoffID)

	coordinator.MergeDrift(res, drift.Report{Issues: []string{"a", "b"}})
	assert.False(t, res.Valid())
	assert.Equal(t, []string{"[DRIFT] a", "[DRIFT] b"}, res.Errors)
	assert.Empty(t, res.HandoffID)
}
