package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var decisionsCmd = &cobra.Command{
	Use:   "decisions <project-id>",
	Short: "Print a project's decision log",
	Long: `Prints every decision recorded by accepted handoffs as a markdown table
with the date, the deciding agent, the decision and its rationale.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecisions,
}

func init() {
	rootCmd.AddCommand(decisionsCmd)
}

func runDecisions(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	log, err := ws.coordinator.DecisionLog(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	fmt.Print(log)
	return nil
}
