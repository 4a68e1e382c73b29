package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unblockNote string

var unblockCmd = &cobra.Command{
	Use:   "unblock <project-id>",
	Short: "Clear a project's blockers",
	Long: `Moves every open blocker of a project to its blocker archive and
reactivates the project if it was blocked. Use --note to record how the
blockers were resolved.`,
	Args: cobra.ExactArgs(1),
	RunE: runUnblock,
}

func init() {
	unblockCmd.Flags().StringVarP(&unblockNote, "note", "n", "", "how the blockers were resolved")
	rootCmd.AddCommand(unblockCmd)
}

func runUnblock(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	resolved, err := ws.coordinator.ResolveBlockers(commandContext(cmd), args[0], unblockNote)
	if err != nil {
		return err
	}
	if len(resolved) == 0 {
		fmt.Printf("Project %s has no blockers.\n", args[0])
		return nil
	}

	fmt.Printf("Archived %d blocker(s) for %s:\n", len(resolved), args[0])
	for _, b := range resolved {
		fmt.Printf("  - %s\n", b.Blocker)
	}
	return nil
}
