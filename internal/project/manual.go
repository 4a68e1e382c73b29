package project

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when an operator action does not apply to
// the project's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ArchivedBlocker is a cleared blocker kept in the blocker archive.
type ArchivedBlocker struct {
	Blocker    string    `yaml:"blocker"`
	ResolvedAt time.Time `yaml:"resolved_at"`
	Note       string    `yaml:"note,omitempty"`
}

// Pause stops a project until Resume is called. Completed projects cannot be
// paused.
func (s *State) Pause(now time.Time) error {
	switch s.Status {
	case StatusPaused:
		return fmt.Errorf("%w: project %s is already paused", ErrInvalidTransition, s.ProjectID)
	case StatusCompleted:
		return fmt.Errorf("%w: project %s is completed", ErrInvalidTransition, s.ProjectID)
	}
	s.Status = StatusPaused
	s.UpdatedAt = now
	return nil
}

// Resume reactivates a paused project. A project that still has blockers
// resumes as blocked.
func (s *State) Resume(now time.Time) error {
	if s.Status != StatusPaused {
		return fmt.Errorf("%w: project %s is %s, not paused", ErrInvalidTransition, s.ProjectID, s.Status)
	}
	s.Status = StatusActive
	if len(s.Blockers) > 0 {
		s.Status = StatusBlocked
	}
	s.UpdatedAt = now
	return nil
}

// ResolveBlockers clears every blocker and returns them for archival. A
// blocked project becomes active; other statuses are left alone.
func (s *State) ResolveBlockers(now time.Time, note string) []ArchivedBlocker {
	archived := make([]ArchivedBlocker, 0, len(s.Blockers))
	for _, b := range s.Blockers {
		archived = append(archived, ArchivedBlocker{Blocker: b, ResolvedAt: now, Note: note})
	}
	s.Blockers = []string{}
	if s.Status == StatusBlocked {
		s.Status = StatusActive
	}
	s.UpdatedAt = now
	return archived
}
