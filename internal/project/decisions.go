package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/thruflo/relay/internal/handoff"
)

// DecisionEntry is one line of a project's running decision record.
type DecisionEntry struct {
	Date      time.Time `yaml:"date"`
	Agent     string    `yaml:"agent"`
	Decision  string    `yaml:"decision"`
	Rationale string    `yaml:"rationale"`
	HandoffID string    `yaml:"handoff_id,omitempty"`
}

const missingCell = "N/A"

// DecisionsFrom extracts the decision entries of an accepted handoff.
// Entries that are not mappings are skipped.
func DecisionsFrom(doc *handoff.Document, agent, handoffID string, now time.Time) []DecisionEntry {
	var out []DecisionEntry
	for _, d := range doc.Summary.DecisionsMade.Items {
		if !d.Structured() {
			continue
		}
		entry := DecisionEntry{
			Date:      now,
			Agent:     agent,
			Decision:  d.Decision.String(),
			Rationale: d.Rationale.String(),
			HandoffID: handoffID,
		}
		if entry.Decision == "" {
			entry.Decision = missingCell
		}
		if entry.Rationale == "" {
			entry.Rationale = missingCell
		}
		out = append(out, entry)
	}
	return out
}

// RenderDecisionLog renders the decision record as a markdown table.
func RenderDecisionLog(projectID string, entries []DecisionEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Decision Log: %s\n\n", projectID)
	sb.WriteString("| Date | Agent | Decision | Rationale |\n")
	sb.WriteString("|------|-------|----------|-----------|\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			e.Date.Format("2006-01-02"), cell(e.Agent), cell(e.Decision), cell(e.Rationale))
	}
	return sb.String()
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

func cell(s string) string {
	return strings.TrimSpace(cellReplacer.Replace(s))
}
