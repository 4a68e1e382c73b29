package handoff

import (
	"fmt"
	"strings"
)

// Role is one of the five agent roles. The set is closed: every role value
// is declared in this package and carries its own required fields and
// semantic check.
type Role interface {
	// Name is the canonical role name used in messages and handoff ids.
	Name() string
	// Aliases are accepted alternative spellings.
	Aliases() []string

	requiredFields() []rule
	check(doc *Document, res *Result)
}

// Roles.
var (
	Architect   Role = architectRole{}
	Implementer Role = implementerRole{}
	Security    Role = securityRole{}
	Tester      Role = testerRole{}
	DevOps      Role = devopsRole{}
)

// Roles returns every role in declaration order.
func Roles() []Role {
	return []Role{Architect, Implementer, Security, Tester, DevOps}
}

// RoleNames returns the canonical role names in declaration order.
func RoleNames() []string {
	roles := Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name()
	}
	return names
}

// ParseRole resolves a role name or alias, ignoring case and surrounding space.
func ParseRole(s string) (Role, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return nil, false
	}
	for _, r := range Roles() {
		if r.Name() == key {
			return r, true
		}
		for _, alias := range r.Aliases() {
			if alias == key {
				return r, true
			}
		}
	}
	return nil, false
}

// AssessmentValues are the accepted security overall_assessment values.
var AssessmentValues = []string{"approved", "approved_with_conditions", "needs_fixes", "rejected"}

type architectRole struct{}

func (architectRole) Name() string      { return "architect" }
func (architectRole) Aliases() []string { return []string{"design", "designer"} }

func (architectRole) requiredFields() []rule {
	return []rule{
		{"architecture.overview", func(d *Document) shaped { return d.Architecture.Overview }},
		{"architecture.components", func(d *Document) shaped { return d.Architecture.Components }},
		{"next_steps.implementation_order", func(d *Document) shaped { return d.NextSteps.ImplementationOrder }},
	}
}

func (architectRole) check(*Document, *Result) {}

type implementerRole struct{}

func (implementerRole) Name() string      { return "implementer" }
func (implementerRole) Aliases() []string { return []string{"build", "builder"} }

func (implementerRole) requiredFields() []rule {
	return []rule{
		{"implementation.key_files", func(d *Document) shaped { return d.Implementation.KeyFiles }},
	}
}

// Implementer requirements beyond key files depend on the receiving role
// and live in the directional table.
func (implementerRole) check(*Document, *Result) {}

type securityRole struct{}

func (securityRole) Name() string      { return "security" }
func (securityRole) Aliases() []string { return []string{"security_review", "reviewer"} }

func (securityRole) requiredFields() []rule {
	return []rule{
		{"findings", func(d *Document) shaped { return d.Findings }},
		{"summary.overall_assessment", func(d *Document) shaped { return d.Summary.OverallAssessment }},
		{"summary.risk_level", func(d *Document) shaped { return d.Summary.RiskLevel }},
	}
}

func (securityRole) check(doc *Document, res *Result) {
	assessment := doc.Summary.OverallAssessment.String()
	for _, v := range AssessmentValues {
		if assessment == v {
			return
		}
	}
	res.AddError(fmt.Sprintf("[SECURITY] overall_assessment must be one of: %s", strings.Join(AssessmentValues, ", ")))
}

type testerRole struct{}

func (testerRole) Name() string      { return "tester" }
func (testerRole) Aliases() []string { return []string{"test", "qa"} }

func (testerRole) requiredFields() []rule {
	return []rule{
		{"test_results", func(d *Document) shaped { return d.TestResults }},
		{"test_results.summary", func(d *Document) shaped { return d.TestResults.Summary }},
	}
}

func (testerRole) check(doc *Document, res *Result) {
	for _, severity := range doc.Bugs.BySeverity() {
		for i, bug := range severity.Items {
			if !bug.mapping || bug.Classification.Set() {
				continue
			}
			id := bug.BugID.String()
			if id == "" {
				id = fmt.Sprint(i + 1)
			}
			res.AddWarning(fmt.Sprintf("[TESTER] Bug %s missing classification (bug vs feature_request)", id))
		}
	}
}

type devopsRole struct{}

func (devopsRole) Name() string      { return "devops" }
func (devopsRole) Aliases() []string { return []string{"deploy", "deployer", "ops"} }

func (devopsRole) requiredFields() []rule {
	return []rule{
		{"deployment", func(d *Document) shaped { return d.Deployment }},
		{"deployment.target", func(d *Document) shaped { return d.Deployment.Target }},
		{"deployment.version", func(d *Document) shaped { return d.Deployment.Version }},
		{"rollback", func(d *Document) shaped { return d.Rollback }},
	}
}

func (devopsRole) check(doc *Document, res *Result) {
	if !doc.Rollback.Plan.Set() {
		res.AddError("[DEVOPS] rollback.plan is required - how do we undo this?")
	}
}
