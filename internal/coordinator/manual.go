package coordinator

import (
	"context"
	"fmt"

	"github.com/thruflo/relay/internal/project"
	"github.com/thruflo/relay/internal/store"
)

// Pause marks a project as paused. Submissions are still accepted and
// move the project on as usual.
func (c *Coordinator) Pause(ctx context.Context, projectID string) (*project.State, error) {
	return c.update(ctx, projectID, "project paused", func(st *project.State) error {
		return st.Pause(c.now())
	})
}

// Resume reactivates a paused project.
func (c *Coordinator) Resume(ctx context.Context, projectID string) (*project.State, error) {
	return c.update(ctx, projectID, "project resumed", func(st *project.State) error {
		return st.Resume(c.now())
	})
}

// ResolveBlockers clears a project's blockers, moving them to the blocker
// archive with note.
func (c *Coordinator) ResolveBlockers(ctx context.Context, projectID, note string) ([]project.ArchivedBlocker, error) {
	var resolved []project.ArchivedBlocker
	_, err := c.update(ctx, projectID, "blockers resolved", func(st *project.State) error {
		resolved = st.ResolveBlockers(c.now(), note)
		if len(resolved) == 0 {
			return nil
		}

		var archive []project.ArchivedBlocker
		if _, err := c.store.Read(ctx, projectID, store.KindBlockerArchive, &archive); err != nil {
			return fmt.Errorf("failed to read blocker archive: %w", err)
		}
		archive = append(archive, resolved...)
		if err := c.store.Write(ctx, projectID, store.KindBlockerArchive, archive); err != nil {
			return fmt.Errorf("failed to write blocker archive: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// update applies fn to the project state under the project lock and writes
// the result.
func (c *Coordinator) update(ctx context.Context, projectID, msg string, fn func(*project.State) error) (*project.State, error) {
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
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := c.store.Write(ctx, projectID, store.KindProjectState, st); err != nil {
		return nil, fmt.Errorf("failed to write project state: %w", err)
	}

	c.log.Info(msg, "project", projectID, "status", st.Status)
	return st, nil
}
