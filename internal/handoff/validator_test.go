package handoff_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/relay/internal/handoff"
	"github.com/thruflo/relay/internal/testutil"
)

// edit returns src with old replaced by new, failing if old is not present.
func edit(t *testing.T, src, old, new string) string {
	t.Helper()
	require.Contains(t, src, old, "fixture does not contain the text to replace")
	return strings.Replace(src, old, new, 1)
}

func validator(opts ...handoff.Option) *handoff.Validator {
	opts = append([]handoff.Option{handoff.WithClock(testutil.Clock(testutil.FixedTime))}, opts...)
	return handoff.NewValidator(opts...)
}

func TestFixturesValidateClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		from, to string
	}{
		{"architect", testutil.ArchitectHandoff, "architect", "implementer"},
		{"implementer to security", testutil.ImplementerToSecurityHandoff, "implementer", "security"},
		{"implementer to tester", testutil.ImplementerToTesterHandoff, "implementer", "tester"},
		{"security", testutil.SecurityHandoff, "security", "tester"},
		{"tester", testutil.TesterHandoff, "tester", "devops"},
		{"devops", testutil.DevOpsHandoff, "devops", ""},
		{"blocked", testutil.BlockedHandoff, "implementer", "architect"},
		{"partial", testutil.PartialHandoff, "implementer", "implementer"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := testutil.MustParse(t, tt.data)

			res := validator().Validate(doc, tt.from, tt.to)
			testutil.AssertClean(t, res)
			assert.NotEmpty(t, res.HandoffID)

			strict := validator(handoff.WithStrict(true)).Validate(doc, tt.from, tt.to)
			testutil.AssertClean(t, strict)
		})
	}
}

func TestValidateMissingOriginalIntent(t *testing.T) {
	t.Parallel()

	data := edit(t, testutil.ImplementerToSecurityHandoff,
		"  original_intent: Build simple, secure authentication for the store AI server POC.\n", "")
	res := validator().Validate(testutil.MustParse(t, data), "implementer", "security")

	testutil.AssertInvalid(t, res)
	assert.Equal(t, []string{"Missing required field: context_for_next_agent.original_intent"}, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidateDirectionalRules(t *testing.T) {
	t.Parallel()

	securityBlock := `security_context:
  user_inputs:
    - POST /register body (username, password)
    - POST /login body (username, password)
    - Authorization header
`
	testingBlock := `testing_context:
  what_to_test:
    - Registration rejects duplicate usernames
    - Expired tokens are rejected
`

	tests := []struct {
		name     string
		data     string
		from, to string
		errors   []string
	}{
		{
			name:   "missing security_context, aliased roles",
			data:   edit(t, testutil.ImplementerToSecurityHandoff, securityBlock, ""),
			from:   "build",
			to:     "security",
			errors: []string{"[IMPLEMENTER→SECURITY] security_context section is required"},
		},
		{
			name:   "empty user_inputs",
			data:   edit(t, testutil.ImplementerToSecurityHandoff, securityBlock, "security_context:\n  user_inputs: []\n"),
			from:   "implementer",
			to:     "security",
			errors: []string{"[IMPLEMENTER→SECURITY] security_context.user_inputs must document all external inputs"},
		},
		{
			name:   "missing testing_context",
			data:   edit(t, testutil.ImplementerToTesterHandoff, testingBlock, ""),
			from:   "implementer",
			to:     "test",
			errors: []string{"[IMPLEMENTER→TESTER] testing_context section is required"},
		},
		{
			name:   "testing_context without what_to_test",
			data:   edit(t, testutil.ImplementerToTesterHandoff, testingBlock, "testing_context:\n  notes: see README\n"),
			from:   "implementer",
			to:     "tester",
			errors: []string{"[IMPLEMENTER→TESTER] testing_context.what_to_test must be defined"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := validator().Validate(testutil.MustParse(t, tt.data), tt.from, tt.to)
			testutil.AssertInvalid(t, res)
			assert.Equal(t, tt.errors, res.Errors)
		})
	}
}

func TestValidateDirectionalRulesOnlyForPair(t *testing.T) {
	t.Parallel()

	// No security_context, but the receiver is not security.
	data := edit(t, testutil.ImplementerToTesterHandoff, "to_agent: tester\n", "to_agent: architect\n")
	res := validator().Validate(testutil.MustParse(t, data), "implementer", "architect")
	testutil.AssertClean(t, res)
}

func TestValidateTesterUnclassifiedBug(t *testing.T) {
	t.Parallel()

	data := edit(t, testutil.TesterHandoff, "      classification: bug\n", "")
	doc := testutil.MustParse(t, data)
	const warning = "[TESTER] Bug BUG-1 missing classification (bug vs feature_request)"

	res := validator().Validate(doc, "tester", "devops")
	testutil.AssertValid(t, res)
	assert.Equal(t, []string{warning}, res.Warnings)

	strict := validator(handoff.WithStrict(true)).Validate(doc, "tester", "devops")
	testutil.AssertInvalid(t, strict)
	assert.Equal(t, []string{"[STRICT] " + warning}, strict.Errors)
	assert.Equal(t, []string{warning}, strict.Warnings)
}

func TestValidateTesterBugWithoutID(t *testing.T) {
	t.Parallel()

	data := edit(t, testutil.TesterHandoff, `bugs:
  low:
    - bug_id: BUG-1
      title: Error message casing
      classification: bug
`, `bugs:
  high:
    - title: Crash on empty password
`)
	res := validator().Validate(testutil.MustParse(t, data), "tester", "devops")
	testutil.AssertValid(t, res)
	assert.Equal(t, []string{"[TESTER] Bug 1 missing classification (bug vs feature_request)"}, res.Warnings)
}

func TestValidateDevOpsRollback(t *testing.T) {
	t.Parallel()

	rollback := "rollback:\n  plan: systemctl stop auth && reinstall the previous package\n"
	const planError = "[DEVOPS] rollback.plan is required - how do we undo this?"

	t.Run("no plan", func(t *testing.T) {
		t.Parallel()
		data := edit(t, testutil.DevOpsHandoff, rollback, "rollback:\n  owner: ops\n")
		res := validator().Validate(testutil.MustParse(t, data), "devops", "")
		assert.Equal(t, []string{planError}, res.Errors)
	})

	t.Run("no rollback", func(t *testing.T) {
		t.Parallel()
		data := edit(t, testutil.DevOpsHandoff, rollback, "")
		res := validator().Validate(testutil.MustParse(t, data), "deploy", "")
		assert.Equal(t, []string{"[devops] Missing required field: rollback", planError}, res.Errors)
	})
}

func TestValidateSecurityAssessment(t *testing.T) {
	t.Parallel()

	data := edit(t, testutil.SecurityHandoff, "overall_assessment: approved_with_conditions", "overall_assessment: looks good")
	res := validator().Validate(testutil.MustParse(t, data), "security", "tester")

	assert.Equal(t, []string{
		"[SECURITY] overall_assessment must be one of: approved, approved_with_conditions, needs_fixes, rejected",
	}, res.Errors)
}

func TestValidateRoleRequiredFields(t *testing.T) {
	t.Parallel()

	data := edit(t, testutil.ArchitectHandoff, "    overview: Simple JWT auth with SQLite backend.\n", "    overview: ''\n")
	res := validator().Validate(testutil.MustParse(t, data), "architect", "implementer")
	assert.Equal(t, []string{"[architect] Empty required field: architecture.overview"}, res.Errors)

	data = edit(t, testutil.SecurityHandoff, `findings:
  low:
    - id: SEC-1
      description: Login responses differ in timing for unknown users
`, "findings: []\n")
	res = validator().Validate(testutil.MustParse(t, data), "security", "tester")
	assert.Equal(t, []string{"[security] Empty required list: findings"}, res.Errors)
}

func TestValidateConditionalStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   string
		errors []string
	}{
		{
			name:   "partial without why_stopping",
			data:   edit(t, testutil.PartialHandoff, "    why_stopping: Context budget exhausted\n", ""),
			errors: []string{"[PARTIAL] Missing required field: status.if_partial.why_stopping"},
		},
		{
			name:   "partial without if_partial",
			data:   edit(t, testutil.PartialHandoff, "  if_partial:\n    remaining_work:\n      - Login endpoint\n    why_stopping: Context budget exhausted\n", ""),
			errors: []string{
				"[PARTIAL] Missing required field: status.if_partial.remaining_work",
				"[PARTIAL] Missing required field: status.if_partial.why_stopping",
			},
		},
		{
			name:   "blocked with blank needs_from",
			data:   edit(t, testutil.BlockedHandoff, "    needs_from: human\n", "    needs_from: ''\n"),
			errors: []string{"[BLOCKED] Empty required field: status.if_blocked.needs_from"},
		},
		{
			name:   "unknown completion",
			data:   edit(t, testutil.PartialHandoff, "completion: partial", "completion: done"),
			errors: []string{"Invalid status.completion: done. Must be one of: complete, partial, blocked"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := validator().Validate(testutil.MustParse(t, tt.data), "implementer", "implementer")
			testutil.AssertInvalid(t, res)
			assert.Equal(t, tt.errors, res.Errors)
		})
	}
}

func TestValidateCompletionIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	data := edit(t, testutil.BlockedHandoff, "completion: blocked", "completion: BLOCKED")
	doc := testutil.MustParse(t, data)
	assert.Equal(t, handoff.CompletionBlocked, doc.Completion())
	testutil.AssertClean(t, validator().Validate(doc, "implementer", "architect"))
}

func TestValidateQualityWarnings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		from    string
		to      string
		warning string
	}{
		{
			name:    "decision without rationale",
			data:    edit(t, testutil.ImplementerToTesterHandoff, "      rationale: Clients re-authenticate on 401\n", ""),
			from:    "implementer",
			to:      "tester",
			warning: "Decision 1 missing rationale - this causes drift",
		},
		{
			name: "short intent",
			data: edit(t, testutil.TesterHandoff,
				"  original_intent: Build simple, secure authentication for the store AI server POC.\n",
				"  original_intent: Auth.\n"),
			from:    "tester",
			to:      "devops",
			warning: "original_intent seems too short - are you preserving context?",
		},
		{
			name:    "no in_scope",
			data:    edit(t, testutil.TesterHandoff, "    in_scope: [Registration, Login, JWT]\n", ""),
			from:    "tester",
			to:      "devops",
			warning: "No in_scope defined - agents won't know what to do",
		},
		{
			name:    "no out_of_scope",
			data:    edit(t, testutil.TesterHandoff, "    out_of_scope: [OAuth, Roles]\n", ""),
			from:    "tester",
			to:      "devops",
			warning: "No out_of_scope defined - agents might add unwanted features",
		},
		{
			name:    "verification without instructions",
			data:    edit(t, testutil.TesterHandoff, "  how_to_verify: npm run test:all\n", "  notes: trust me\n"),
			from:    "tester",
			to:      "devops",
			warning: "No verification method specified - how will we know it works?",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := testutil.MustParse(t, tt.data)

			res := validator().Validate(doc, tt.from, tt.to)
			testutil.AssertValid(t, res)
			assert.Equal(t, []string{tt.warning}, res.Warnings)

			strict := validator(handoff.WithStrict(true)).Validate(doc, tt.from, tt.to)
			testutil.AssertInvalid(t, strict)
			assert.Equal(t, []string{"[STRICT] " + tt.warning}, strict.Errors)
		})
	}
}

func TestValidateMinIntentLengthOption(t *testing.T) {
	t.Parallel()

	doc := testutil.MustParse(t, testutil.TesterHandoff)
	res := validator(handoff.WithMinIntentLength(500)).Validate(doc, "tester", "devops")
	testutil.AssertHasWarning(t, res, "original_intent seems too short")
}

func TestValidateUnknownRole(t *testing.T) {
	t.Parallel()

	// Every other check would fail on this document.
	doc := testutil.MustParse(t, "task_id: x\n")
	res := validator().Validate(doc, "manager", "")

	assert.Equal(t, []string{
		"Invalid from_agent: manager. Must be one of: architect, implementer, security, tester, devops",
	}, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.HandoffID)
}

func TestValidateNilDocument(t *testing.T) {
	t.Parallel()

	res := validator().Validate(nil, "architect", "")
	testutil.AssertInvalid(t, res)
	testutil.AssertHasError(t, res, "Missing required field: from_agent")
	testutil.AssertHasError(t, res, "[architect] Missing required field: architecture.overview")
}

func TestValidateStrictIsMonotonic(t *testing.T) {
	t.Parallel()

	docs := []string{
		testutil.ArchitectHandoff,
		edit(t, testutil.TesterHandoff, "      classification: bug\n", ""),
		edit(t, testutil.TesterHandoff, "    out_of_scope: [OAuth, Roles]\n", ""),
		edit(t, testutil.SecurityHandoff, "overall_assessment: approved_with_conditions", "overall_assessment: meh"),
		"from_agent: tester\n",
	}

	for i, data := range docs {
		doc := testutil.MustParse(t, data)
		from := doc.FromAgent.String()
		if from == "" {
			from = "architect"
		}
		lax := validator().Validate(doc, from, "devops")
		strict := validator(handoff.WithStrict(true)).Validate(doc, from, "devops")

		assert.Subset(t, strict.Errors, lax.Errors, "doc %d", i)
		assert.Equal(t, lax.Warnings, strict.Warnings, "doc %d", i)
		if !lax.Valid() {
			assert.False(t, strict.Valid(), "doc %d", i)
		}
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	t.Parallel()

	doc := testutil.MustParse(t, edit(t, testutil.TesterHandoff, "      classification: bug\n", ""))
	v := validator()

	first := v.Validate(doc, "tester", "devops")
	second := v.Validate(doc, "tester", "devops")
	assert.Equal(t, first, second)
}

func TestValidateValidityMatchesErrors(t *testing.T) {
	t.Parallel()

	for _, data := range []string{testutil.ArchitectHandoff, "from_agent: architect\n", "task_id: t\n"} {
		res := validator().Validate(testutil.MustParse(t, data), "architect", "")
		assert.Equal(t, len(res.Errors) == 0, res.Valid())
		assert.Equal(t, res.Valid(), res.HandoffID != "")
	}
}

func TestHandoffID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		from, to string
		want     string
	}{
		{"explicit receiver", testutil.ArchitectHandoff, "design", "implementer", "store-ai-auth_architect_to_implementer_20260125_200000"},
		{"receiver from document", testutil.ArchitectHandoff, "architect", "", "store-ai-auth_architect_to_implementer_20260125_200000"},
		{"no receiver", testutil.DevOpsHandoff, "devops", "", "store-ai-auth_devops_to_any_20260125_200000"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := validator().Validate(testutil.MustParse(t, tt.data), tt.from, tt.to)
			testutil.AssertValid(t, res)
			assert.Equal(t, tt.want, res.HandoffID)
		})
	}
}

func TestValidateWrongShapesFailClosed(t *testing.T) {
	t.Parallel()

	data := `from_agent: implementer
task_id: [not, a, scalar]
summary: just a sentence
context_for_next_agent:
  - must_know
status: complete
next_steps: {}
verification: yes
implementation:
  key_files:
    nested: map
`
	doc := testutil.MustParse(t, data)
	res := validator().Validate(doc, "implementer", "")

	testutil.AssertInvalid(t, res)
	testutil.AssertHasError(t, res, "Missing required field: summary.what_was_done")
	testutil.AssertHasError(t, res, "Missing required field: context_for_next_agent.original_intent")
	testutil.AssertHasError(t, res, "Missing required field: status.completion")
	assert.NotContains(t, res.Errors, "Missing required field: task_id")
	assert.NotContains(t, res.Errors, "[implementer] Missing required field: implementation.key_files")
}

func TestValidateScalarDecisions(t *testing.T) {
	t.Parallel()

	data := edit(t, testutil.TesterHandoff, `  decisions_made:
    - decision: Skip load testing
      rationale: Max 50 users
`, "  decisions_made: Skip load testing\n")
	res := validator().Validate(testutil.MustParse(t, data), "tester", "devops")
	testutil.AssertClean(t, res)
}

func TestRequiredFields(t *testing.T) {
	t.Parallel()

	fields := handoff.RequiredFields(handoff.DevOps)
	assert.Equal(t, "from_agent", fields[0])
	assert.Contains(t, fields, "verification")
	assert.Contains(t, fields, "deployment.version")
	assert.NotContains(t, fields, "to_agent")
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want handoff.Role
		ok   bool
	}{
		{"architect", handoff.Architect, true},
		{"Design", handoff.Architect, true},
		{" build ", handoff.Implementer, true},
		{"security", handoff.Security, true},
		{"QA", handoff.Tester, true},
		{"deploy", handoff.DevOps, true},
		{"manager", nil, false},
		{"", nil, false},
	}

	for _, tt := range tests {
		tt := tt
		got, ok := handoff.ParseRole(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, []string{"architect", "implementer", "security", "tester", "devops"}, handoff.RoleNames())
}
