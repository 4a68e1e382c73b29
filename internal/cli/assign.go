package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thruflo/relay/internal/handoff"
	"github.com/thruflo/relay/internal/project"
	"github.com/thruflo/relay/internal/store"
)

var assignCmd = &cobra.Command{
	Use:   "assign <project-id> <role> [task...]",
	Short: "Print the context bundle for assigning work to an agent",
	Long: `Prints, as YAML, everything an agent of the given role needs to pick up
work on a project: the original brief, the current state, the last three
handoffs and the handoff it is expected to return.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAssign,
}

func init() {
	rootCmd.AddCommand(assignCmd)
}

// assignment is the printed form of coordinator.Assignment.
type assignment struct {
	ProjectID      string            `yaml:"project_id"`
	Role           string            `yaml:"role"`
	Task           string            `yaml:"task,omitempty"`
	OriginalBrief  string            `yaml:"original_brief"`
	Status         project.Status    `yaml:"status"`
	CurrentState   *project.Snapshot `yaml:"current_state"`
	RecentHandoffs []recentHandoff   `yaml:"recent_handoffs"`
	RequiredFields []string          `yaml:"required_fields"`
	Template       handoff.Block     `yaml:"expected_handoff,omitempty"`
}

type recentHandoff struct {
	HandoffID string        `yaml:"handoff_id,omitempty"`
	LoggedAt  time.Time     `yaml:"logged_at"`
	FromAgent string        `yaml:"from_agent"`
	ToAgent   string        `yaml:"to_agent,omitempty"`
	Accepted  bool          `yaml:"accepted"`
	Handoff   handoff.Block `yaml:"handoff,omitempty"`
}

func runAssign(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	a, err := ws.coordinator.Assign(commandContext(cmd), args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}

	out := assignment{
		ProjectID:      a.ProjectID,
		Role:           a.Role.Name(),
		Task:           a.Task,
		OriginalBrief:  a.Brief,
		Status:         a.State.Status,
		CurrentState:   a.Snapshot,
		RecentHandoffs: recentHandoffs(a.Recent),
		RequiredFields: handoff.RequiredFields(a.Role),
	}
	if a.Expected != nil {
		var tmpl yaml.Node
		if err := yaml.Unmarshal([]byte(a.Expected.Content), &tmpl); err != nil {
			return fmt.Errorf("failed to parse template for %s: %w", a.Role.Name(), err)
		}
		if len(tmpl.Content) > 0 {
			out.Template = handoff.BlockFromNode(tmpl.Content[0])
		}
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func recentHandoffs(records []store.AuditRecord) []recentHandoff {
	out := make([]recentHandoff, 0, len(records))
	for _, r := range records {
		out = append(out, recentHandoff{
			HandoffID: r.HandoffID,
			LoggedAt:  r.LoggedAt,
			FromAgent: r.FromAgent,
			ToAgent:   r.ToAgent,
			Accepted:  r.Validation.IsValid,
			Handoff:   r.Handoff,
		})
	}
	return out
}
