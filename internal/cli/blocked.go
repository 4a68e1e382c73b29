package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var blockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "List blocked projects and their blockers",
	Args:  cobra.NoArgs,
	RunE:  runBlocked,
}

func init() {
	rootCmd.AddCommand(blockedCmd)
}

func runBlocked(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	blocked, err := ws.coordinator.BlockedProjects(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(blocked) == 0 {
		fmt.Println("No blocked projects.")
		return nil
	}

	for i, st := range blocked {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s (current agent: %s)\n", st.ProjectID, valueOr(st.CurrentAgent, "none"))
		for _, b := range st.Blockers {
			fmt.Printf("  - %s\n", b)
		}
	}
	return nil
}
