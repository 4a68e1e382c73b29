package project

import (
	"strings"
	"time"

	"github.com/thruflo/relay/internal/handoff"
)

// Status is a project lifecycle status.
type Status string

// Status values.
const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusBlocked   Status = "blocked"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusBlocked, StatusCompleted:
		return true
	}
	return false
}

// UnknownBlocker is recorded when a blocked handoff names no blocker.
const UnknownBlocker = "Unknown"

// State is the persisted lifecycle state of one project.
type State struct {
	ProjectID    string    `yaml:"project_id"`
	Status       Status    `yaml:"status"`
	CurrentAgent string    `yaml:"current_agent,omitempty"`
	LastHandoff  string    `yaml:"last_handoff,omitempty"`
	Blockers     []string  `yaml:"blockers"`
	CreatedAt    time.Time `yaml:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

// New returns the state of a freshly created project.
func New(projectID string, now time.Time) *State {
	return &State{
		ProjectID: projectID,
		Status:    StatusActive,
		Blockers:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition is what an accepted handoff contributes to project state.
type Transition struct {
	Completion handoff.Completion
	// ToAgent is the next agent, empty when none is named.
	ToAgent   string
	HandoffID string
	Blocker   string
}

// TransitionFor builds the transition for an accepted handoff.
func TransitionFor(doc *handoff.Document, toAgent, handoffID string) Transition {
	return Transition{
		Completion: doc.Completion(),
		ToAgent:    strings.TrimSpace(toAgent),
		HandoffID:  handoffID,
		Blocker:    doc.Status.IfBlocked.Blocker.String(),
	}
}

// Next returns the status that follows a handoff with the given completion
// and next agent. It is defined for every input, including completion values
// outside the declared set.
func Next(completion handoff.Completion, toAgent string) Status {
	switch {
	case completion == handoff.CompletionBlocked:
		return StatusBlocked
	case completion == handoff.CompletionComplete && strings.TrimSpace(toAgent) == "":
		return StatusCompleted
	default:
		return StatusActive
	}
}

// Apply advances s by t. Blockers only accumulate; CreatedAt never changes.
func (s *State) Apply(t Transition, now time.Time) {
	s.Status = Next(t.Completion, t.ToAgent)
	if s.Status == StatusBlocked {
		blocker := strings.TrimSpace(t.Blocker)
		if blocker == "" {
			blocker = UnknownBlocker
		}
		s.Blockers = append(s.Blockers, blocker)
	}
	s.CurrentAgent = t.ToAgent
	s.LastHandoff = t.HandoffID
	s.UpdatedAt = now
}
