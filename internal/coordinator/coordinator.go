// Package coordinator is the single entry point for submitted handoffs. It
// sequences validation, drift detection, the audit log and the project state
// machine against a document store.
//
// The coordinator keeps no project state between calls. Every operation
// reloads what it needs from the store and writes it back.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/thruflo/relay/internal/drift"
	"github.com/thruflo/relay/internal/handoff"
	"github.com/thruflo/relay/internal/logging"
	"github.com/thruflo/relay/internal/project"
	"github.com/thruflo/relay/internal/store"
	"github.com/thruflo/relay/internal/template"
)

// Errors returned by the coordinator.
var (
	ErrProjectExists   = errors.New("project already exists")
	ErrProjectNotFound = fmt.Errorf("project %w", store.ErrNotFound)
)

// DriftPrefix marks drift issues merged into a validation result.
const DriftPrefix = "[DRIFT] "

// DefaultStallThreshold is the number of consecutive rejected submissions
// after which a project is reported as stalled.
const DefaultStallThreshold = 3

// Coordinator processes handoffs for the projects in a store.
type Coordinator struct {
	store      store.DocumentStore
	validator  *handoff.Validator
	classifier drift.Classifier
	templates  template.Provider
	now        func() time.Time
	log        *logging.Logger

	stallThreshold int

	mu    sync.Mutex
	locks map[string]*projectLock
}

// projectLock is a per-project semaphore shared by every caller holding or
// waiting for it. It is dropped from the map when refs reaches zero.
type projectLock struct {
	sem  *semaphore.Weighted
	refs int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithValidator replaces the default non-strict validator.
func WithValidator(v *handoff.Validator) Option {
	return func(c *Coordinator) { c.validator = v }
}

// WithClassifier replaces the default drift detector.
func WithClassifier(cl drift.Classifier) Option {
	return func(c *Coordinator) { c.classifier = cl }
}

// WithTemplates replaces the embedded template library.
func WithTemplates(p template.Provider) Option {
	return func(c *Coordinator) { c.templates = p }
}

// WithClock sets the clock used for timestamps. The default validator uses
// the same clock for handoff ids.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger. The package default logger is used otherwise.
func WithLogger(l *logging.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithStallThreshold overrides DefaultStallThreshold.
func WithStallThreshold(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.stallThreshold = n
		}
	}
}

// New creates a Coordinator over st.
func New(st store.DocumentStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:          st,
		now:            time.Now,
		stallThreshold: DefaultStallThreshold,
		locks:          make(map[string]*projectLock),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.validator == nil {
		c.validator = handoff.NewValidator(handoff.WithClock(c.now))
	}
	if c.classifier == nil {
		c.classifier = drift.Default()
	}
	if c.templates == nil {
		c.templates = template.Embedded()
	}
	if c.log == nil {
		c.log = logging.Default()
	}
	return c
}

// Outcome is the result of submitting one handoff.
type Outcome struct {
	Valid     bool
	HandoffID string
	Errors    []string
	Warnings  []string
	// NextAgent is the agent to act next. It is empty when the handoff was
	// rejected or names no next agent.
	NextAgent string
	// AuditLocation is where the submission was recorded.
	AuditLocation string
	Drift         drift.Report
	// Status is the project status after the submission.
	Status project.Status
}

// lock serializes operations on one project. The returned func releases it.
func (c *Coordinator) lock(ctx context.Context, projectID string) (func(), error) {
	c.mu.Lock()
	l, ok := c.locks[projectID]
	if !ok {
		l = &projectLock{sem: semaphore.NewWeighted(1)}
		c.locks[projectID] = l
	}
	l.refs++
	c.mu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		c.unref(projectID, l)
		return nil, fmt.Errorf("waiting for project %s: %w", projectID, err)
	}
	return func() {
		l.sem.Release(1)
		c.unref(projectID, l)
	}, nil
}

func (c *Coordinator) unref(projectID string, l *projectLock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(c.locks, projectID)
	}
}

// CreateProject stores the brief and the initial state, snapshot and
// decision record of a new project.
func (c *Coordinator) CreateProject(ctx context.Context, projectID, brief string) (*project.State, error) {
	if err := store.ValidateProjectID(projectID); err != nil {
		return nil, err
	}
	unlock, err := c.lock(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	exists, err := c.store.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, projectID)
	}

	now := c.now()
	if err := c.store.Write(ctx, projectID, store.KindBrief, brief); err != nil {
		if errors.Is(err, store.ErrImmutable) {
			return nil, fmt.Errorf("%w: %s has a brief", ErrProjectExists, projectID)
		}
		return nil, fmt.Errorf("failed to write brief: %w", err)
	}
	if err := c.store.Write(ctx, projectID, store.KindSnapshot, project.InitialSnapshot(projectID, now)); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := c.store.Write(ctx, projectID, store.KindDecisions, []project.DecisionEntry{}); err != nil {
		return nil, fmt.Errorf("failed to write decision record: %w", err)
	}

	// The state goes last: it is what marks the project as existing.
	st := project.New(projectID, now)
	if err := c.store.Write(ctx, projectID, store.KindProjectState, st); err != nil {
		return nil, fmt.Errorf("failed to write project state: %w", err)
	}

	c.log.Info("project created", "project", projectID)
	return st, nil
}

// Submit processes one handoff for projectID. fromRole defaults to the
// document's from_agent and toRole to its to_agent.
//
// Validation problems and drift are reported in the Outcome. Every
// submission is recorded in the audit log before the outcome is returned,
// and only accepted handoffs change project state. A non-nil error means
// the submission could not be processed.
func (c *Coordinator) Submit(ctx context.Context, projectID string, doc *handoff.Document, fromRole, toRole string) (*Outcome, error) {
	if err := store.ValidateProjectID(projectID); err != nil {
		return nil, err
	}
	unlock, err := c.lock(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	st, err := c.loadState(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if doc == nil {
		doc = &handoff.Document{}
	}
	fromRole = strings.TrimSpace(fromRole)
	if fromRole == "" {
		fromRole = doc.FromAgent.String()
	}
	toRole = strings.TrimSpace(toRole)
	if toRole == "" {
		toRole = doc.ToAgent.String()
	}

	res := c.validator.Validate(doc, fromRole, toRole)

	var (
		brief  string
		report drift.Report
	)
	found, err := c.store.Read(ctx, projectID, store.KindBrief, &brief)
	if err != nil {
		return nil, fmt.Errorf("failed to read brief: %w", err)
	}
	if found {
		report = c.classifier.Check(brief, doc)
		MergeDrift(res, report)
	}

	now := c.now()
	rec := &store.AuditRecord{
		HandoffID: res.HandoffID,
		LoggedAt:  now,
		FromAgent: roleName(fromRole),
		ToAgent:   roleName(toRole),
		Validation: store.Validation{
			IsValid:  res.Valid(),
			Errors:   res.Errors,
			Warnings: res.Warnings,
		},
		Handoff: project.SourceBlock(doc),
	}
	location, err := c.store.AppendAudit(ctx, projectID, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to record handoff: %w", err)
	}

	out := &Outcome{
		Valid:         res.Valid(),
		HandoffID:     res.HandoffID,
		Errors:        res.Errors,
		Warnings:      res.Warnings,
		AuditLocation: location,
		Drift:         report,
		Status:        st.Status,
	}

	log := c.log.WithFields(map[string]interface{}{
		"project": projectID,
		"from":    rec.FromAgent,
		"to":      rec.ToAgent,
	})
	if !out.Valid {
		log.Warn("handoff rejected", "errors", len(res.Errors), "drift", report.HasDrift())
		return out, nil
	}

	if err := c.apply(ctx, st, doc, rec.FromAgent, toRole, res.HandoffID, now); err != nil {
		return nil, err
	}
	out.NextAgent = toRole
	out.Status = st.Status

	log.Info("handoff accepted", "handoff_id", res.HandoffID, "status", st.Status, "warnings", len(res.Warnings))
	return out, nil
}

// apply advances the project for an accepted handoff. The state is written
// last so a failed write leaves the project where it was.
func (c *Coordinator) apply(ctx context.Context, st *project.State, doc *handoff.Document, fromAgent, toAgent, handoffID string, now time.Time) error {
	if entries := project.DecisionsFrom(doc, fromAgent, handoffID, now); len(entries) > 0 {
		var record []project.DecisionEntry
		if _, err := c.store.Read(ctx, st.ProjectID, store.KindDecisions, &record); err != nil {
			return fmt.Errorf("failed to read decision record: %w", err)
		}
		record = append(record, entries...)
		if err := c.store.Write(ctx, st.ProjectID, store.KindDecisions, record); err != nil {
			return fmt.Errorf("failed to write decision record: %w", err)
		}
	}

	if err := c.store.Write(ctx, st.ProjectID, store.KindSnapshot, project.SnapshotOf(st.ProjectID, handoffID, doc, now)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	st.Apply(project.TransitionFor(doc, toAgent, handoffID), now)
	if err := c.store.Write(ctx, st.ProjectID, store.KindProjectState, st); err != nil {
		return fmt.Errorf("failed to write project state: %w", err)
	}
	return nil
}

// MergeDrift adds every drift issue to res as an error. A result that
// becomes invalid loses its handoff id.
func MergeDrift(res *handoff.Result, report drift.Report) {
	for _, issue := range report.Issues {
		res.AddError(DriftPrefix + issue)
	}
	if !res.Valid() {
		res.HandoffID = ""
	}
}

// loadState reads the project state, returning ErrProjectNotFound when the
// project does not exist.
func (c *Coordinator) loadState(ctx context.Context, projectID string) (*project.State, error) {
	var st project.State
	found, err := c.store.Read(ctx, projectID, store.KindProjectState, &st)
	if err != nil {
		return nil, fmt.Errorf("failed to read project state: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	if st.Blockers == nil {
		st.Blockers = []string{}
	}
	return &st, nil
}

// roleName returns the canonical name of a known role and s otherwise.
func roleName(s string) string {
	if r, ok := handoff.ParseRole(s); ok {
		return r.Name()
	}
	return s
}
