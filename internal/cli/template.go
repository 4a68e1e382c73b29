package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thruflo/relay/internal/config"
	"github.com/thruflo/relay/internal/handoff"
	"github.com/thruflo/relay/internal/template"
)

var templateExport bool
var templateForce bool

var templateCmd = &cobra.Command{
	Use:   "template [role]",
	Short: "Show the expected handoff for a role",
	Long: `Prints the handoff template for a role, including the fields that role
must always provide. Without a role, lists the roles and where each template
comes from.

Templates in .relay/templates/ override the built-in ones. Use --export to
copy the built-in templates there for editing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTemplate,
}

func init() {
	templateCmd.Flags().BoolVar(&templateExport, "export", false, "copy the built-in templates into .relay/templates")
	templateCmd.Flags().BoolVarP(&templateForce, "force", "f", false, "overwrite existing templates when exporting")
	rootCmd.AddCommand(templateCmd)
}

func runTemplate(cmd *cobra.Command, args []string) error {
	base, err := basePath()
	if err != nil {
		return err
	}

	if templateExport {
		written, err := template.Export(filepath.Join(config.Dir(base), "templates"), templateForce)
		if err != nil {
			return err
		}
		if len(written) == 0 {
			fmt.Println("All templates already exist (use --force to overwrite).")
		}
		for _, path := range written {
			fmt.Printf("Wrote %s\n", path)
		}
		return nil
	}

	lib := templateLibrary(base)
	if len(args) == 0 {
		for _, role := range handoff.Roles() {
			source := "missing"
			if t, ok := lib.ExpectedShape(role); ok {
				source = t.Source
			}
			fmt.Printf("%-12s %-28s %s\n", role.Name(), strings.Join(role.Aliases(), ", "), source)
		}
		return nil
	}

	role, ok := handoff.ParseRole(args[0])
	if !ok {
		return fmt.Errorf("unknown role %q, must be one of: %s", args[0], strings.Join(handoff.RoleNames(), ", "))
	}
	t, ok := lib.ExpectedShape(role)
	if !ok {
		return fmt.Errorf("no template for role %s", role.Name())
	}

	fmt.Printf("# Template for %s (%s)\n", role.Name(), t.Source)
	fmt.Printf("# Required fields: %s\n\n", strings.Join(t.Required, ", "))
	fmt.Print(t.Content)
	return nil
}
