package handoff

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultMinIntentLength is the shortest original_intent, in characters,
// that is not reported as too short.
const DefaultMinIntentLength = 20

// Validator checks handoffs against the rule tables.
type Validator struct {
	strict          bool
	minIntentLength int
	now             func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithStrict makes every warning also count as an error.
func WithStrict(strict bool) Option {
	return func(v *Validator) { v.strict = strict }
}

// WithMinIntentLength overrides DefaultMinIntentLength.
func WithMinIntentLength(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.minIntentLength = n
		}
	}
}

// WithClock sets the clock used to stamp handoff ids.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// NewValidator creates a non-strict Validator.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		minIntentLength: DefaultMinIntentLength,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Strict reports whether warnings are promoted to errors.
func (v *Validator) Strict() bool {
	return v.strict
}

// Validate checks doc as submitted by fromRole for toRole. toRole may be
// empty when the receiver is unspecified. Errors and warnings are returned
// in the order the checks ran.
func (v *Validator) Validate(doc *Document, fromRole, toRole string) *Result {
	res := &Result{}
	if doc == nil {
		doc = &Document{}
	}

	role, ok := ParseRole(fromRole)
	if !ok {
		res.AddError(fmt.Sprintf("Invalid from_agent: %s. Must be one of: %s", fromRole, strings.Join(RoleNames(), ", ")))
		return res
	}

	checkRequired(doc, baseRules, "", res)
	checkRequired(doc, role.requiredFields(), "["+role.Name()+"] ", res)
	v.checkStatus(doc, res)
	v.checkQuality(doc, res)
	v.checkDirectional(doc, role, toRole, res)
	role.check(doc, res)

	if v.strict {
		for _, w := range res.Warnings {
			res.AddError("[STRICT] " + w)
		}
	}

	if res.Valid() {
		res.HandoffID = v.handoffID(doc, role, toRole)
	}
	return res
}

// checkStatus applies the rules gated by the declared completion value.
func (v *Validator) checkStatus(doc *Document, res *Result) {
	if !doc.Status.Completion.Set() {
		return
	}
	completion := doc.Completion()
	if !completion.Known() {
		res.AddError(fmt.Sprintf("Invalid status.completion: %s. Must be one of: %s", doc.Status.Completion.String(), completionValues()))
		return
	}
	rules, prefix := conditionalRules(completion)
	checkRequired(doc, rules, prefix, res)
}

func (v *Validator) checkQuality(doc *Document, res *Result) {
	intent := doc.Context.OriginalIntent
	if intent.fieldState() == fieldPresent && utf8.RuneCountInString(intent.String()) < v.minIntentLength {
		res.AddWarning("original_intent seems too short - are you preserving context?")
	}

	for i, d := range doc.Summary.DecisionsMade.Items {
		if d.mapping && !d.Rationale.Set() {
			res.AddWarning(fmt.Sprintf("Decision %d missing rationale - this causes drift", i+1))
		}
	}

	scope := doc.Context.ScopeBoundaries
	if !scope.InScope.Set() {
		res.AddWarning("No in_scope defined - agents won't know what to do")
	}
	if !scope.OutOfScope.Set() {
		res.AddWarning("No out_of_scope defined - agents might add unwanted features")
	}

	if doc.Verification.fieldState() == fieldPresent && !doc.Verification.Actionable() {
		res.AddWarning("No verification method specified - how will we know it works?")
	}
}

func (v *Validator) checkDirectional(doc *Document, from Role, toRole string, res *Result) {
	to, ok := ParseRole(toRole)
	if !ok {
		return
	}
	if check, ok := directionalRules[direction{from.Name(), to.Name()}]; ok {
		check(doc, res)
	}
}

// handoffID stamps the submission to the second. Identical content submitted
// at different times gets different ids.
func (v *Validator) handoffID(doc *Document, role Role, toRole string) string {
	taskID := doc.TaskID.String()
	if taskID == "" {
		taskID = "unknown"
	}
	to := strings.TrimSpace(toRole)
	if to == "" {
		to = doc.ToAgent.String()
	}
	if to == "" {
		to = "any"
	}
	return fmt.Sprintf("%s_%s_to_%s_%s", taskID, role.Name(), to, v.now().Format("20060102_150405"))
}
