package project

import (
	"time"

	"github.com/thruflo/relay/internal/handoff"
)

// Snapshot statuses.
const (
	SnapshotAwaitingFirstHandoff = "awaiting_first_handoff"
	SnapshotCurrent              = "current"
)

// Snapshot is the project's current-state document: the content of the most
// recently accepted handoff.
type Snapshot struct {
	ProjectID   string        `yaml:"project_id"`
	Status      string        `yaml:"status"`
	LastUpdated time.Time     `yaml:"last_updated"`
	HandoffID   string        `yaml:"handoff_id,omitempty"`
	Handoff     handoff.Block `yaml:"handoff,omitempty"`
}

// InitialSnapshot is written when a project is created.
func InitialSnapshot(projectID string, now time.Time) *Snapshot {
	return &Snapshot{
		ProjectID:   projectID,
		Status:      SnapshotAwaitingFirstHandoff,
		LastUpdated: now,
	}
}

// SnapshotOf records doc as the project's current state.
func SnapshotOf(projectID, handoffID string, doc *handoff.Document, now time.Time) *Snapshot {
	return &Snapshot{
		ProjectID:   projectID,
		Status:      SnapshotCurrent,
		LastUpdated: now,
		HandoffID:   handoffID,
		Handoff:     SourceBlock(doc),
	}
}

// SourceBlock returns doc as submitted, or doc re-encoded when it was built
// in code.
func SourceBlock(doc *handoff.Document) handoff.Block {
	if doc == nil {
		return handoff.Block{}
	}
	if src := doc.Source(); src != nil {
		return handoff.BlockFromNode(src)
	}
	return handoff.NewBlock(doc)
}
