package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <project-id>",
	Short: "Show project status",
	Long: `Shows the state of one project: status, current agent, last accepted
handoff, open blockers and how its recent submissions went.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := commandContext(cmd)
	st, err := ws.coordinator.ProjectState(ctx, args[0])
	if err != nil {
		return err
	}
	health, err := ws.coordinator.Health(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Project: %s\n", st.ProjectID)
	fmt.Printf("Status: %s\n", st.Status)
	fmt.Printf("Current agent: %s\n", valueOr(st.CurrentAgent, "none"))
	fmt.Printf("Last handoff: %s\n", valueOr(st.LastHandoff, "none"))
	fmt.Printf("Created: %s\n", st.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Updated: %s\n", st.UpdatedAt.Format(time.RFC3339))
	fmt.Printf("Handoffs: %d/%d accepted\n", health.Accepted, health.Total)
	if health.Stalled {
		fmt.Printf("Stalled: the last %d handoffs were rejected\n", ws.cfg.History.StallThreshold)
	}

	printList("Blockers", st.Blockers)
	return nil
}
