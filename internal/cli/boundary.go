package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thruflo/relay/internal/boundary"
	"github.com/thruflo/relay/internal/handoff"
)

var boundaryCmd = &cobra.Command{
	Use:   "boundary",
	Short: "Check agent boundaries and project scope",
}

var boundaryCheckCmd = &cobra.Command{
	Use:   "check <role> <modify|create> <target>",
	Short: "Check whether a role may act on a target",
	Long: `Reports whether an agent of the given role may modify or create the
target path. Exits non-zero when the action is not allowed.`,
	Args: cobra.ExactArgs(3),
	RunE: runBoundaryCheck,
}

var boundaryScopeCmd = &cobra.Command{
	Use:   "scope <project-id> <item>",
	Short: "Classify an item against the project's current scope",
	Long: `Classifies a piece of work against the scope boundaries of the project's
most recently accepted handoff: in scope, out of scope, or unclear.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runBoundaryScope,
}

func init() {
	boundaryCmd.AddCommand(boundaryCheckCmd)
	boundaryCmd.AddCommand(boundaryScopeCmd)
	rootCmd.AddCommand(boundaryCmd)
}

func runBoundaryCheck(cmd *cobra.Command, args []string) error {
	role, ok := handoff.ParseRole(args[0])
	if !ok {
		return fmt.Errorf("unknown role %q, must be one of: %s", args[0], strings.Join(handoff.RoleNames(), ", "))
	}
	action, err := boundary.ParseAction(args[1])
	if err != nil {
		return err
	}

	allowed, reason := boundary.Check(role, action, args[2])
	if !allowed {
		fmt.Printf("DENIED: %s\n", reason)
		return fmt.Errorf("%s may not %s %s", role.Name(), action, args[2])
	}
	fmt.Printf("ALLOWED: %s may %s %s\n", role.Name(), action, args[2])
	return nil
}

func runBoundaryScope(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	snap, err := ws.coordinator.Snapshot(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	if !snap.Handoff.Set() {
		return fmt.Errorf("project %s has no accepted handoff yet", args[0])
	}

	var doc handoff.Document
	if err := snap.Handoff.Decode(&doc); err != nil {
		return fmt.Errorf("failed to read current state: %w", err)
	}

	item := strings.Join(args[1:], " ")
	scope := boundary.CheckScope(doc.Context.ScopeBoundaries, item)
	fmt.Printf("%s: %s\n", item, scope)
	fmt.Println(scope.Recommendation())
	return nil
}
