package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pauseCmd = &cobra.Command{
	Use:   "pause <project-id>",
	Short: "Pause a project",
	Long: `Marks a project as paused. Pausing is an operator action: handoffs
never pause a project on their own. Completed projects cannot be paused.`,
	Args: cobra.ExactArgs(1),
	RunE: runPause,
}

func init() {
	rootCmd.AddCommand(pauseCmd)
}

func runPause(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	st, err := ws.coordinator.Pause(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Project %s is %s\n", st.ProjectID, st.Status)
	return nil
}
