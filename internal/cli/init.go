package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/thruflo/relay/internal/config"
	"github.com/thruflo/relay/internal/template"
)

var initForce bool
var initTemplates bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .relay/ directory structure",
	Long: `Creates the .relay/ directory with a default configuration.

This command sets up:
  - config.yaml with validation, drift and storage settings
  - projects/ where the file store keeps one directory per project
  - templates/ for per-role handoff template overrides

With --templates the embedded handoff templates are copied into templates/
so they can be edited.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config and templates")
	initCmd.Flags().BoolVar(&initTemplates, "templates", false, "copy the built-in handoff templates into .relay/templates")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	base, err := basePath()
	if err != nil {
		return err
	}

	relayDir := config.Dir(base)
	configPath := filepath.Join(relayDir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	dirs := []string{
		relayDir,
		filepath.Join(relayDir, config.DefaultFilePath),
		filepath.Join(relayDir, "templates"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := writeConfigYAML(configPath); err != nil {
		return err
	}

	if initTemplates {
		written, err := template.Export(filepath.Join(relayDir, "templates"), initForce)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Printf("Wrote %s\n", path)
		}
	}

	fmt.Printf("Initialized %s in %s\n", config.DirName, base)
	return nil
}

func writeConfigYAML(path string) error {
	content := `# Relay configuration

validation:
  # Treat every quality warning as an error
  strict: false
  # Shortest original_intent that is not reported as too short
  min_intent_length: 20

drift:
  enabled: true
  scope_keywords: true
  intent_check: true
  # Characters of the brief after the out-of-scope marker that are searched
  window: 500
  min_intent_length: 20
  keywords: [oauth, role-based, email, sms, mfa, multi-factor]

storage:
  # file keeps one directory per project; sqlite keeps a single database
  backend: file
  path: projects

history:
  # Consecutive rejected handoffs before a project is reported as stalled
  stall_threshold: 3

logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
