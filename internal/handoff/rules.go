package handoff

import (
	"fmt"
	"strings"
)

// rule requires the field at path to be present and non-empty.
type rule struct {
	path  string
	field func(*Document) shaped
}

// baseRules apply to every handoff regardless of role.
var baseRules = []rule{
	{"from_agent", func(d *Document) shaped { return d.FromAgent }},
	{"task_id", func(d *Document) shaped { return d.TaskID }},
	{"summary.what_was_done", func(d *Document) shaped { return d.Summary.WhatWasDone }},
	{"summary.decisions_made", func(d *Document) shaped { return d.Summary.DecisionsMade }},
	{"summary.current_state", func(d *Document) shaped { return d.Summary.CurrentState }},
	{"context_for_next_agent.must_know", func(d *Document) shaped { return d.Context.MustKnow }},
	{"context_for_next_agent.original_intent", func(d *Document) shaped { return d.Context.OriginalIntent }},
	{"context_for_next_agent.scope_boundaries", func(d *Document) shaped { return d.Context.ScopeBoundaries }},
	{"status.completion", func(d *Document) shaped { return d.Status.Completion }},
	{"next_steps", func(d *Document) shaped { return d.NextSteps }},
	{"verification", func(d *Document) shaped { return d.Verification }},
}

var partialRules = []rule{
	{"status.if_partial.remaining_work", func(d *Document) shaped { return d.Status.IfPartial.RemainingWork }},
	{"status.if_partial.why_stopping", func(d *Document) shaped { return d.Status.IfPartial.WhyStopping }},
}

var blockedRules = []rule{
	{"status.if_blocked.blocker", func(d *Document) shaped { return d.Status.IfBlocked.Blocker }},
	{"status.if_blocked.needs_from", func(d *Document) shaped { return d.Status.IfBlocked.NeedsFrom }},
	{"status.if_blocked.unblock_criteria", func(d *Document) shaped { return d.Status.IfBlocked.UnblockCriteria }},
}

// conditionalRules returns the rules gated by the declared completion and
// the prefix their errors carry.
func conditionalRules(c Completion) ([]rule, string) {
	switch c {
	case CompletionPartial:
		return partialRules, "[PARTIAL] "
	case CompletionBlocked:
		return blockedRules, "[BLOCKED] "
	}
	return nil, ""
}

// direction is an ordered (from, to) role pair.
type direction struct {
	from, to string
}

// directionalRules impose sections owed to a specific receiving role.
var directionalRules = map[direction]func(*Document, *Result){
	{"implementer", "security"}: checkSecurityHandoff,
	{"implementer", "tester"}:   checkTestingHandoff,
}

func checkSecurityHandoff(doc *Document, res *Result) {
	const tag = "[IMPLEMENTER→SECURITY] "
	if !doc.SecurityContext.Set() {
		res.AddError(tag + "security_context section is required")
		return
	}
	if !doc.SecurityContext.UserInputs.Set() {
		res.AddError(tag + "security_context.user_inputs must document all external inputs")
	}
}

func checkTestingHandoff(doc *Document, res *Result) {
	const tag = "[IMPLEMENTER→TESTER] "
	if !doc.TestingContext.Set() {
		res.AddError(tag + "testing_context section is required")
		return
	}
	if !doc.TestingContext.WhatToTest.Set() {
		res.AddError(tag + "testing_context.what_to_test must be defined")
	}
}

// checkRequired records one error per missing or empty field.
func checkRequired(doc *Document, rules []rule, prefix string, res *Result) {
	for _, r := range rules {
		switch r.field(doc).fieldState() {
		case fieldAbsent:
			res.AddError(fmt.Sprintf("%sMissing required field: %s", prefix, r.path))
		case fieldBlank:
			res.AddError(fmt.Sprintf("%sEmpty required field: %s", prefix, r.path))
		case fieldEmptyList:
			res.AddError(fmt.Sprintf("%sEmpty required list: %s", prefix, r.path))
		}
	}
}

// RequiredFields lists the dotted paths a role must always provide, base
// fields first.
func RequiredFields(role Role) []string {
	var paths []string
	for _, r := range baseRules {
		paths = append(paths, r.path)
	}
	for _, r := range role.requiredFields() {
		paths = append(paths, r.path)
	}
	return paths
}

func completionValues() string {
	return strings.Join([]string{
		string(CompletionComplete),
		string(CompletionPartial),
		string(CompletionBlocked),
	}, ", ")
}
