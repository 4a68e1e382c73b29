package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	submitFrom   string
	submitTo     string
	submitStrict bool
)

var submitCmd = &cobra.Command{
	Use:   "submit <project-id> <handoff-file>",
	Short: "Submit a handoff to a project",
	Long: `Validates a handoff, checks it for drift against the project brief and
records it in the project's handoff log. An accepted handoff advances the
project state, appends its decisions to the decision log and becomes the
project's current state.

Rejected handoffs are still logged. Exits non-zero when the handoff is
rejected so the submitting agent can fix and resubmit.`,
	Args: cobra.ExactArgs(2),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitFrom, "from", "", "role of the submitting agent (default from_agent)")
	submitCmd.Flags().StringVar(&submitTo, "to", "", "role of the receiving agent (default to_agent)")
	submitCmd.Flags().BoolVar(&submitStrict, "strict", false, "treat warnings as errors")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	projectID := args[0]
	doc, err := readHandoff(cmd, args[1])
	if err != nil {
		return err
	}

	ws, err := openWorkspace(submitStrict)
	if err != nil {
		return err
	}
	defer ws.Close()

	out, err := ws.coordinator.Submit(commandContext(cmd), projectID, doc, submitFrom, submitTo)
	if err != nil {
		return err
	}

	printValidation(out.Valid, out.HandoffID, out.Errors, out.Warnings)
	fmt.Printf("\nLogged to: %s\n", out.AuditLocation)
	if !out.Valid {
		fmt.Println("Fix the errors above and resubmit.")
		return errHandoffRejected
	}

	fmt.Printf("Project status: %s\n", out.Status)
	fmt.Printf("Next agent: %s\n", valueOr(out.NextAgent, "none"))
	return nil
}
