package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/relay/internal/coordinator"
	"github.com/thruflo/relay/internal/drift"
	"github.com/thruflo/relay/internal/handoff"
)

var (
	validateFrom    string
	validateTo      string
	validateStrict  bool
	validateProject string
)

var validateCmd = &cobra.Command{
	Use:   "validate <handoff-file>",
	Short: "Validate a handoff without submitting it",
	Long: `Checks a handoff file against the rules for its role and prints every
error and warning. Nothing is recorded.

The roles default to the handoff's from_agent and to_agent. With --project
the handoff is also checked for drift against that project's brief.

Exits non-zero when the handoff is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFrom, "from", "", "role of the submitting agent")
	validateCmd.Flags().StringVar(&validateTo, "to", "", "role of the receiving agent")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
	validateCmd.Flags().StringVarP(&validateProject, "project", "p", "", "also check drift against this project's brief")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := readHandoff(cmd, args[0])
	if err != nil {
		return err
	}

	from := valueOr(validateFrom, doc.FromAgent.String())
	to := valueOr(validateTo, doc.ToAgent.String())

	var res *handoff.Result
	if validateProject == "" {
		_, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		res = newValidator(cfg, validateStrict).Validate(doc, from, to)
	} else {
		ws, err := openWorkspace(validateStrict)
		if err != nil {
			return err
		}
		defer ws.Close()

		brief, err := ws.coordinator.Brief(commandContext(cmd), validateProject)
		if err != nil {
			return err
		}
		res = newValidator(ws.cfg, validateStrict).Validate(doc, from, to)
		coordinator.MergeDrift(res, drift.FromConfig(ws.cfg.Drift).Check(brief, doc))
	}

	printValidation(res.Valid(), res.HandoffID, res.Errors, res.Warnings)
	if !res.Valid() {
		return errHandoffRejected
	}
	return nil
}

// readHandoff reads and parses a handoff file, or stdin when path is "-".
func readHandoff(cmd *cobra.Command, path string) (*handoff.Document, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read handoff: %w", err)
	}
	doc, err := handoff.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse handoff: %w", err)
	}
	return doc, nil
}
