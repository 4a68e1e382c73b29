package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var historyVerbose bool

var historyCmd = &cobra.Command{
	Use:   "history <project-id>",
	Short: "Show a project's handoff log",
	Long: `Lists every handoff submitted to a project, accepted or rejected, oldest
first. With --verbose the errors and warnings of each submission are shown.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVarP(&historyVerbose, "verbose", "v", false, "show errors and warnings")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	records, err := ws.coordinator.History(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No handoffs recorded.")
		return nil
	}

	fmt.Printf("%-3s  %-20s  %-25s  %-8s  %s\n", "#", "LOGGED", "FROM -> TO", "RESULT", "HANDOFF")
	fmt.Printf("%s  %s  %s  %s  %s\n", "---", strings.Repeat("-", 20), strings.Repeat("-", 25), "--------", "-------")
	for i, rec := range records {
		result := "accepted"
		if !rec.Validation.IsValid {
			result = "rejected"
		}
		route := fmt.Sprintf("%s -> %s", valueOr(rec.FromAgent, "?"), valueOr(rec.ToAgent, "any"))
		fmt.Printf("%-3d  %-20s  %-25s  %-8s  %s\n", i+1, rec.LoggedAt.Format(time.RFC3339), route, result, valueOr(rec.HandoffID, "-"))

		if historyVerbose {
			for _, e := range rec.Validation.Errors {
				fmt.Printf("       error: %s\n", e)
			}
			for _, w := range rec.Validation.Warnings {
				fmt.Printf("       warning: %s\n", w)
			}
		}
	}
	return nil
}
