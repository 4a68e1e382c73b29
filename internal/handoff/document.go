package handoff

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Completion is the declared completion status of a handoff.
type Completion string

// Completion values.
const (
	CompletionComplete Completion = "complete"
	CompletionPartial  Completion = "partial"
	CompletionBlocked  Completion = "blocked"
)

// Known reports whether c is one of the declared completion values.
func (c Completion) Known() bool {
	switch c {
	case CompletionComplete, CompletionPartial, CompletionBlocked:
		return true
	}
	return false
}

// ErrEmptyDocument is returned by Parse when the input holds no document.
var ErrEmptyDocument = errors.New("empty handoff document")

// Document is one agent's submitted handoff.
type Document struct {
	FromAgent       Text            `yaml:"from_agent"`
	ToAgent         Text            `yaml:"to_agent"`
	TaskID          Text            `yaml:"task_id"`
	Timestamp       Text            `yaml:"timestamp"`
	Summary         Summary         `yaml:"summary"`
	Context         AgentContext    `yaml:"context_for_next_agent"`
	Status          Status          `yaml:"status"`
	NextSteps       NextSteps       `yaml:"next_steps"`
	Verification    Verification    `yaml:"verification"`
	Architecture    Architecture    `yaml:"architecture"`
	Implementation  Implementation  `yaml:"implementation"`
	SecurityContext SecurityContext `yaml:"security_context"`
	TestingContext  TestingContext  `yaml:"testing_context"`
	Findings        Block           `yaml:"findings"`
	TestResults     TestResults     `yaml:"test_results"`
	Bugs            Bugs            `yaml:"bugs"`
	Deployment      Deployment      `yaml:"deployment"`
	Rollback        Rollback        `yaml:"rollback"`

	raw *yaml.Node
}

// Parse decodes a YAML or JSON handoff. The handoff may be wrapped in a
// top-level "handoff" key.
func Parse(data []byte) (*Document, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("invalid handoff yaml: %w", err)
	}
	r := resolve(&n)
	if r == nil || stateOf(r) == fieldAbsent {
		return nil, ErrEmptyDocument
	}
	if r.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("handoff document must be a mapping, got %s", r.ShortTag())
	}
	var doc Document
	if err := doc.UnmarshalYAML(r); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Document) UnmarshalYAML(n *yaml.Node) error {
	r := unwrap(resolve(n))
	if r == nil || r.Kind != yaml.MappingNode {
		return nil
	}
	type plain Document
	if err := r.Decode((*plain)(d)); err != nil {
		return fmt.Errorf("failed to decode handoff: %w", err)
	}
	d.raw = r
	return nil
}

// unwrap returns the value of a top-level "handoff" key when the mapping is
// a wrapped handoff.
func unwrap(n *yaml.Node) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return n
	}
	var inner *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		switch n.Content[i].Value {
		case "from_agent":
			return n
		case "handoff":
			inner = resolve(n.Content[i+1])
		}
	}
	if inner != nil && inner.Kind == yaml.MappingNode {
		return inner
	}
	return n
}

// Source returns the handoff as submitted, or nil for documents built in code.
func (d *Document) Source() *yaml.Node {
	return d.raw
}

// Fields decodes the handoff as submitted into a generic map for audit and
// logging. Core validation never reads it.
func (d *Document) Fields() map[string]any {
	out := map[string]any{}
	if d.raw != nil {
		_ = d.raw.Decode(&out)
	}
	return out
}

// Completion returns the declared completion status, lowercased.
func (d *Document) Completion() Completion {
	return Completion(strings.ToLower(d.Status.Completion.String()))
}

// Summary is the summary section.
type Summary struct {
	WhatWasDone       Text          `yaml:"what_was_done"`
	DecisionsMade     Seq[Decision] `yaml:"decisions_made"`
	CurrentState      Block         `yaml:"current_state"`
	OverallAssessment Text          `yaml:"overall_assessment"`
	RiskLevel         Text          `yaml:"risk_level"`
	st                fieldState
}

func (s *Summary) UnmarshalYAML(n *yaml.Node) error {
	type plain Summary
	s.st, _ = decodeSection(n, (*plain)(s))
	return nil
}

func (s Summary) fieldState() fieldState { return s.st }

// Decision is one entry of summary.decisions_made.
type Decision struct {
	Decision             Text      `yaml:"decision"`
	Rationale            Text      `yaml:"rationale"`
	AlternativesRejected Seq[Text] `yaml:"alternatives_rejected"`
	st                   fieldState
	mapping              bool
}

func (d *Decision) UnmarshalYAML(n *yaml.Node) error {
	type plain Decision
	d.st, d.mapping = decodeSection(n, (*plain)(d))
	return nil
}

// Structured reports whether the entry was a mapping rather than a bare value.
func (d Decision) Structured() bool { return d.mapping }

// AgentContext is the context_for_next_agent section.
type AgentContext struct {
	MustKnow        Seq[Text]       `yaml:"must_know"`
	OriginalIntent  Text            `yaml:"original_intent"`
	ScopeBoundaries ScopeBoundaries `yaml:"scope_boundaries"`
	st              fieldState
}

func (c *AgentContext) UnmarshalYAML(n *yaml.Node) error {
	type plain AgentContext
	c.st, _ = decodeSection(n, (*plain)(c))
	return nil
}

func (c AgentContext) fieldState() fieldState { return c.st }

// ScopeBoundaries lists what is and is not part of the work.
type ScopeBoundaries struct {
	InScope    Seq[Text] `yaml:"in_scope"`
	OutOfScope Seq[Text] `yaml:"out_of_scope"`
	st         fieldState
}

func (s *ScopeBoundaries) UnmarshalYAML(n *yaml.Node) error {
	type plain ScopeBoundaries
	s.st, _ = decodeSection(n, (*plain)(s))
	return nil
}

func (s ScopeBoundaries) fieldState() fieldState { return s.st }

// Status is the status section.
type Status struct {
	Completion Text    `yaml:"completion"`
	IfPartial  Partial `yaml:"if_partial"`
	IfBlocked  Blocked `yaml:"if_blocked"`
	st         fieldState
}

func (s *Status) UnmarshalYAML(n *yaml.Node) error {
	type plain Status
	s.st, _ = decodeSection(n, (*plain)(s))
	return nil
}

func (s Status) fieldState() fieldState { return s.st }

// Partial is status.if_partial.
type Partial struct {
	RemainingWork Block `yaml:"remaining_work"`
	WhyStopping   Text  `yaml:"why_stopping"`
	st            fieldState
}

func (p *Partial) UnmarshalYAML(n *yaml.Node) error {
	type plain Partial
	p.st, _ = decodeSection(n, (*plain)(p))
	return nil
}

func (p Partial) fieldState() fieldState { return p.st }

// Blocked is status.if_blocked.
type Blocked struct {
	Blocker         Text  `yaml:"blocker"`
	NeedsFrom       Text  `yaml:"needs_from"`
	UnblockCriteria Block `yaml:"unblock_criteria"`
	st              fieldState
}

func (b *Blocked) UnmarshalYAML(n *yaml.Node) error {
	type plain Blocked
	b.st, _ = decodeSection(n, (*plain)(b))
	return nil
}

func (b Blocked) fieldState() fieldState { return b.st }

// NextSteps is the next_steps section. Only the architect role reads into it;
// other roles may submit a plain list.
type NextSteps struct {
	ImplementationOrder Block     `yaml:"implementation_order"`
	Warnings            Seq[Text] `yaml:"warnings"`
	st                  fieldState
}

func (s *NextSteps) UnmarshalYAML(n *yaml.Node) error {
	type plain NextSteps
	s.st, _ = decodeSection(n, (*plain)(s))
	return nil
}

func (s NextSteps) fieldState() fieldState { return s.st }

// Verification is the verification section.
type Verification struct {
	HowToVerify               Text `yaml:"how_to_verify"`
	HowToVerifyImplementation Text `yaml:"how_to_verify_implementation"`
	st                        fieldState
}

func (v *Verification) UnmarshalYAML(n *yaml.Node) error {
	type plain Verification
	v.st, _ = decodeSection(n, (*plain)(v))
	return nil
}

func (v Verification) fieldState() fieldState { return v.st }

// Actionable reports whether a how-to-verify instruction is given.
func (v Verification) Actionable() bool {
	return v.HowToVerify.Set() || v.HowToVerifyImplementation.Set()
}

// Architecture is the architect's design section.
type Architecture struct {
	Overview   Text  `yaml:"overview"`
	Components Block `yaml:"components"`
	st         fieldState
}

func (a *Architecture) UnmarshalYAML(n *yaml.Node) error {
	type plain Architecture
	a.st, _ = decodeSection(n, (*plain)(a))
	return nil
}

func (a Architecture) fieldState() fieldState { return a.st }

// Implementation is the implementer's build section.
type Implementation struct {
	KeyFiles Block `yaml:"key_files"`
	st       fieldState
}

func (i *Implementation) UnmarshalYAML(n *yaml.Node) error {
	type plain Implementation
	i.st, _ = decodeSection(n, (*plain)(i))
	return nil
}

func (i Implementation) fieldState() fieldState { return i.st }

// SecurityContext documents the attack surface for a security review.
type SecurityContext struct {
	UserInputs Block `yaml:"user_inputs"`
	st         fieldState
}

func (s *SecurityContext) UnmarshalYAML(n *yaml.Node) error {
	type plain SecurityContext
	s.st, _ = decodeSection(n, (*plain)(s))
	return nil
}

func (s SecurityContext) fieldState() fieldState { return s.st }

// TestingContext tells the tester what to exercise.
type TestingContext struct {
	WhatToTest Block `yaml:"what_to_test"`
	st         fieldState
}

func (t *TestingContext) UnmarshalYAML(n *yaml.Node) error {
	type plain TestingContext
	t.st, _ = decodeSection(n, (*plain)(t))
	return nil
}

func (t TestingContext) fieldState() fieldState { return t.st }

// TestResults is the tester's results section.
type TestResults struct {
	Summary Block `yaml:"summary"`
	st      fieldState
}

func (t *TestResults) UnmarshalYAML(n *yaml.Node) error {
	type plain TestResults
	t.st, _ = decodeSection(n, (*plain)(t))
	return nil
}

func (t TestResults) fieldState() fieldState { return t.st }

// Bugs groups reported bugs by severity.
type Bugs struct {
	Critical Seq[Bug] `yaml:"critical"`
	High     Seq[Bug] `yaml:"high"`
	Medium   Seq[Bug] `yaml:"medium"`
	Low      Seq[Bug] `yaml:"low"`
	st       fieldState
}

func (b *Bugs) UnmarshalYAML(n *yaml.Node) error {
	type plain Bugs
	b.st, _ = decodeSection(n, (*plain)(b))
	return nil
}

func (b Bugs) fieldState() fieldState { return b.st }

// BySeverity returns the bug lists from most to least severe.
func (b Bugs) BySeverity() []Seq[Bug] {
	return []Seq[Bug]{b.Critical, b.High, b.Medium, b.Low}
}

// Bug is one bug record.
type Bug struct {
	BugID          Text `yaml:"bug_id"`
	Title          Text `yaml:"title"`
	Classification Text `yaml:"classification"`
	st             fieldState
	mapping        bool
}

func (b *Bug) UnmarshalYAML(n *yaml.Node) error {
	type plain Bug
	b.st, b.mapping = decodeSection(n, (*plain)(b))
	return nil
}

// Deployment is the devops deployment section.
type Deployment struct {
	Target  Text `yaml:"target"`
	Version Text `yaml:"version"`
	st      fieldState
}

func (d *Deployment) UnmarshalYAML(n *yaml.Node) error {
	type plain Deployment
	d.st, _ = decodeSection(n, (*plain)(d))
	return nil
}

func (d Deployment) fieldState() fieldState { return d.st }

// Rollback is the devops rollback section.
type Rollback struct {
	Plan Block `yaml:"plan"`
	st   fieldState
}

func (r *Rollback) UnmarshalYAML(n *yaml.Node) error {
	type plain Rollback
	r.st, _ = decodeSection(n, (*plain)(r))
	return nil
}

func (r Rollback) fieldState() fieldState { return r.st }

// Set reports whether the section holds a non-empty value.
func (s SecurityContext) Set() bool { return s.st == fieldPresent }

// Set reports whether the section holds a non-empty value.
func (t TestingContext) Set() bool { return t.st == fieldPresent }
