package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <project-id>",
	Short: "Resume a paused project",
	Long: `Reactivates a paused project. A project that still has open blockers
resumes as blocked; use 'relay unblock' to clear them.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	st, err := ws.coordinator.Resume(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Project %s is %s\n", st.ProjectID, st.Status)
	return nil
}
