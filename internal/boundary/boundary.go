// Package boundary records what each role may touch and answers whether a
// proposed action stays inside those limits.
package boundary

import (
	"fmt"
	"strings"

	"github.com/thruflo/relay/internal/handoff"
)

// Action is something an agent proposes to do to a target.
type Action string

// Actions.
const (
	ActionModify Action = "modify"
	ActionCreate Action = "create"
)

// ParseAction converts a CLI action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionModify, ActionCreate:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q: must be modify or create", s)
}

// Rules are the limits of one role.
type Rules struct {
	CanModify    []string `yaml:"can_modify"`
	CannotModify []string `yaml:"cannot_modify"`
	CanCreate    []string `yaml:"can_create"`
}

var rules = map[string]Rules{
	"architect": {
		CanModify:    []string{"docs", "diagrams", "specs"},
		CannotModify: []string{"src", "tests", "config"},
		CanCreate:    []string{"architecture docs", "api contracts", "diagrams"},
	},
	"implementer": {
		CanModify:    []string{"src", "config"},
		CannotModify: []string{"docs/architecture"},
		CanCreate:    []string{"source files", "config files"},
	},
	"security": {
		CannotModify: []string{"src", "config", "docs"},
		CanCreate:    []string{"security reports", "findings"},
	},
	"tester": {
		CanModify:    []string{"tests"},
		CannotModify: []string{"src"},
		CanCreate:    []string{"test files", "test reports"},
	},
	"devops": {
		CanModify:    []string{"deployment", "infrastructure", "ci-cd"},
		CannotModify: []string{"src"},
		CanCreate:    []string{"deployment configs", "scripts", "runbooks"},
	},
}

// For returns the rules of role.
func For(role handoff.Role) Rules {
	return rules[role.Name()]
}

// Allowed is the reason given when nothing forbids an action.
const Allowed = "Allowed"

// Check reports whether role may perform action on target, and why not.
// Only modifications are restricted; a target is restricted when it
// contains or starts with one of the role's cannot-modify entries.
func Check(role handoff.Role, action Action, target string) (bool, string) {
	if action != ActionModify {
		return true, Allowed
	}
	for _, restricted := range For(role).CannotModify {
		if strings.Contains(target, restricted) {
			return false, fmt.Sprintf("%s cannot modify %s", role.Name(), restricted)
		}
	}
	return true, Allowed
}

// Scope classifies an item against a handoff's scope boundaries.
type Scope string

// Scope values.
const (
	InScope    Scope = "in_scope"
	OutOfScope Scope = "out_of_scope"
	Unclear    Scope = "unclear"
)

// Recommendation is the advice attached to a scope classification.
func (s Scope) Recommendation() string {
	switch s {
	case InScope:
		return "Proceed with this work"
	case OutOfScope:
		return "DO NOT work on this. Log as technical debt."
	}
	return "Not explicitly in or out of scope. Ask for clarification before proceeding."
}

// CheckScope classifies item against the scope boundaries. Matching is a
// case-insensitive substring match in either direction; in-scope entries
// win over out-of-scope ones.
func CheckScope(scope handoff.ScopeBoundaries, item string) Scope {
	needle := strings.ToLower(strings.TrimSpace(item))
	if needle == "" {
		return Unclear
	}
	if matchAny(scope.InScope, needle) {
		return InScope
	}
	if matchAny(scope.OutOfScope, needle) {
		return OutOfScope
	}
	return Unclear
}

func matchAny(entries handoff.Seq[handoff.Text], needle string) bool {
	for _, e := range entries.Items {
		entry := strings.ToLower(e.String())
		if entry == "" {
			continue
		}
		if strings.Contains(entry, needle) || strings.Contains(needle, entry) {
			return true
		}
	}
	return false
}
