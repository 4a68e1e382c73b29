package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/thruflo/relay/internal/project"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	Long:  `Lists every project with its status, current agent and last update.`,
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	states, err := ws.coordinator.ListProjects(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(states) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	printProjectTable(states)
	return nil
}

func printProjectTable(states []*project.State) {
	// Calculate column widths
	idWidth := len("PROJECT")
	statusWidth := len("STATUS")
	agentWidth := len("AGENT")
	for _, st := range states {
		idWidth = max(idWidth, len(st.ProjectID))
		statusWidth = max(statusWidth, len(st.Status))
		agentWidth = max(agentWidth, len(valueOr(st.CurrentAgent, "-")))
	}

	fmt.Printf("%-*s  %-*s  %-*s  %s\n", idWidth, "PROJECT", statusWidth, "STATUS", agentWidth, "AGENT", "UPDATED")
	fmt.Printf("%s  %s  %s  %s\n", strings.Repeat("-", idWidth), strings.Repeat("-", statusWidth), strings.Repeat("-", agentWidth), "-------")
	for _, st := range states {
		fmt.Printf("%-*s  %-*s  %-*s  %s\n",
			idWidth, st.ProjectID,
			statusWidth, st.Status,
			agentWidth, valueOr(st.CurrentAgent, "-"),
			st.UpdatedAt.Format(time.RFC3339))
	}
}
