package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var createBrief string

var createCmd = &cobra.Command{
	Use:   "create <project-id>",
	Short: "Create a project from a brief",
	Long: `Creates a project with its original brief. The brief is read from the
file given by --brief, or from stdin when --brief is "-".

The brief cannot be changed after the project is created. Every handoff is
checked for drift against it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createBrief, "brief", "b", "", "brief file, or - for stdin (required)")
	createCmd.MarkFlagRequired("brief")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	brief, err := readInput(cmd, createBrief)
	if err != nil {
		return fmt.Errorf("failed to read brief: %w", err)
	}
	if strings.TrimSpace(string(brief)) == "" {
		return fmt.Errorf("brief is empty")
	}

	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	st, err := ws.coordinator.CreateProject(commandContext(cmd), args[0], string(brief))
	if err != nil {
		return err
	}

	fmt.Printf("Created project %s (status: %s)\n", st.ProjectID, st.Status)
	return nil
}

// commandContext returns the command's context, or a background context
// when the command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprintln(os.Stderr, "Reading from stdin, finish with Ctrl-D:")
		}
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
