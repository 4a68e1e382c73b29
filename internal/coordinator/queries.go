package coordinator

import (
	"context"
	"fmt"
	"strings"

	"github.com/thruflo/relay/internal/handoff"
	"github.com/thruflo/relay/internal/project"
	"github.com/thruflo/relay/internal/store"
	"github.com/thruflo/relay/internal/template"
)

// recentHandoffs is how many audit records an assignment carries.
const recentHandoffs = 3

// ProjectState returns the stored state of a project.
func (c *Coordinator) ProjectState(ctx context.Context, projectID string) (*project.State, error) {
	return c.loadState(ctx, projectID)
}

// ListProjects returns the state of every project, ordered by id.
func (c *Coordinator) ListProjects(ctx context.Context) ([]*project.State, error) {
	ids, err := c.store.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	states := make([]*project.State, 0, len(ids))
	for _, id := range ids {
		st, err := c.loadState(ctx, id)
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, nil
}

// BlockedProjects returns the projects whose status is blocked.
func (c *Coordinator) BlockedProjects(ctx context.Context) ([]*project.State, error) {
	all, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	var blocked []*project.State
	for _, st := range all {
		if st.Status == project.StatusBlocked {
			blocked = append(blocked, st)
		}
	}
	return blocked, nil
}

// History returns every recorded submission for a project, oldest first.
func (c *Coordinator) History(ctx context.Context, projectID string) ([]store.AuditRecord, error) {
	if err := c.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	records, err := c.store.Audits(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to read handoff log: %w", err)
	}
	return records, nil
}

// Snapshot returns the project's current-state snapshot.
func (c *Coordinator) Snapshot(ctx context.Context, projectID string) (*project.Snapshot, error) {
	if err := c.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	var snap project.Snapshot
	found, err := c.store.Read(ctx, projectID, store.KindSnapshot, &snap)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if !found {
		return project.InitialSnapshot(projectID, c.now()), nil
	}
	return &snap, nil
}

// Brief returns the project's original brief.
func (c *Coordinator) Brief(ctx context.Context, projectID string) (string, error) {
	var brief string
	found, err := c.store.Read(ctx, projectID, store.KindBrief, &brief)
	if err != nil {
		return "", fmt.Errorf("failed to read brief: %w", err)
	}
	if !found {
		return "", fmt.Errorf("%w: %s has no brief", ErrProjectNotFound, projectID)
	}
	return brief, nil
}

// Decisions returns the project's decision record, oldest first.
func (c *Coordinator) Decisions(ctx context.Context, projectID string) ([]project.DecisionEntry, error) {
	if err := c.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	var record []project.DecisionEntry
	if _, err := c.store.Read(ctx, projectID, store.KindDecisions, &record); err != nil {
		return nil, fmt.Errorf("failed to read decision record: %w", err)
	}
	return record, nil
}

// DecisionLog renders the decision record as a markdown table.
func (c *Coordinator) DecisionLog(ctx context.Context, projectID string) (string, error) {
	entries, err := c.Decisions(ctx, projectID)
	if err != nil {
		return "", err
	}
	return project.RenderDecisionLog(projectID, entries), nil
}

// ArchivedBlockers returns the blockers cleared by ResolveBlockers.
func (c *Coordinator) ArchivedBlockers(ctx context.Context, projectID string) ([]project.ArchivedBlocker, error) {
	if err := c.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	var archive []project.ArchivedBlocker
	if _, err := c.store.Read(ctx, projectID, store.KindBlockerArchive, &archive); err != nil {
		return nil, fmt.Errorf("failed to read blocker archive: %w", err)
	}
	return archive, nil
}

// ExpectedShape returns the handoff template for a role name or alias.
func (c *Coordinator) ExpectedShape(roleName string) (*template.Template, error) {
	role, ok := handoff.ParseRole(roleName)
	if !ok {
		return nil, fmt.Errorf("unknown role %q, must be one of: %s", roleName, strings.Join(handoff.RoleNames(), ", "))
	}
	t, ok := c.templates.ExpectedShape(role)
	if !ok {
		return nil, fmt.Errorf("no template for role %s", role.Name())
	}
	return t, nil
}

// Assignment is everything an agent needs to pick up work on a project.
type Assignment struct {
	ProjectID string
	Role      handoff.Role
	Task      string
	Brief     string
	State     *project.State
	Snapshot  *project.Snapshot
	// Recent holds the last few recorded submissions, oldest first.
	Recent []store.AuditRecord
	// Expected is the handoff the agent must return. It is nil when no
	// template is available for the role.
	Expected *template.Template
}

// Assign gathers the context for handing task to an agent of roleName.
func (c *Coordinator) Assign(ctx context.Context, projectID, roleName, task string) (*Assignment, error) {
	role, ok := handoff.ParseRole(roleName)
	if !ok {
		return nil, fmt.Errorf("unknown role %q, must be one of: %s", roleName, strings.Join(handoff.RoleNames(), ", "))
	}
	st, err := c.loadState(ctx, projectID)
	if err != nil {
		return nil, err
	}
	brief, err := c.Brief(ctx, projectID)
	if err != nil {
		return nil, err
	}
	snap, err := c.Snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	records, err := c.store.Audits(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to read handoff log: %w", err)
	}
	if len(records) > recentHandoffs {
		records = records[len(records)-recentHandoffs:]
	}

	a := &Assignment{
		ProjectID: projectID,
		Role:      role,
		Task:      strings.TrimSpace(task),
		Brief:     brief,
		State:     st,
		Snapshot:  snap,
		Recent:    records,
	}
	if t, ok := c.templates.ExpectedShape(role); ok {
		a.Expected = t
	}
	return a, nil
}

// Health summarizes how a project's submissions are going.
type Health struct {
	Accepted int
	Total    int
	// RecentRate is the acceptance rate over the stall threshold window.
	RecentRate float64
	// Stalled is set when the last stall-threshold submissions were all
	// rejected.
	Stalled bool
}

// Health reports submission progress for a project.
func (c *Coordinator) Health(ctx context.Context, projectID string) (*Health, error) {
	records, err := c.History(ctx, projectID)
	if err != nil {
		return nil, err
	}
	attempts := make([]project.Attempt, len(records))
	for i, r := range records {
		attempts[i] = project.Attempt{Valid: r.Validation.IsValid}
	}

	h := &Health{
		RecentRate: project.AcceptanceRate(attempts, c.stallThreshold),
		Stalled:    project.DetectStalled(attempts, c.stallThreshold),
	}
	h.Accepted, h.Total = project.Progress(attempts)
	return h, nil
}

func (c *Coordinator) requireProject(ctx context.Context, projectID string) error {
	if err := store.ValidateProjectID(projectID); err != nil {
		return err
	}
	exists, err := c.store.Exists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	return nil
}
