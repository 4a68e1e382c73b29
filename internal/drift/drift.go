// Package drift compares a submitted handoff against the project's original
// brief and reports signs that the work has wandered from it.
package drift

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thruflo/relay/internal/config"
	"github.com/thruflo/relay/internal/handoff"
)

// Issue messages.
const (
	scopeIssueFormat = "Possible out-of-scope work detected: '%s' mentioned in what_was_done"
	IntentIssue      = "Original intent is too short or missing - drift likely"
)

// Report is the outcome of a drift check.
type Report struct {
	Issues []string `yaml:"issues" json:"issues"`
}

// HasDrift reports whether any issue was found.
func (r Report) HasDrift() bool {
	return len(r.Issues) > 0
}

// Classifier decides whether a handoff drifts from a brief.
type Classifier interface {
	Check(brief string, doc *handoff.Document) Report
}

// Check is one heuristic run by a Detector. Checks receive the brief
// lowercased.
type Check interface {
	Issues(brief string, doc *handoff.Document) []string
}

// Detector runs a fixed list of checks in order.
type Detector struct {
	checks []Check
}

// NewDetector returns a Detector running checks in order.
func NewDetector(checks ...Check) *Detector {
	return &Detector{checks: checks}
}

// Default returns a Detector with both the scope keyword and intent checks
// at their default settings.
func Default() *Detector {
	return NewDetector(
		ScopeKeywordCheck{Keywords: config.DefaultDriftKeywords, Window: config.DefaultDriftWindow},
		IntentCheck{MinLength: config.DefaultMinIntentLength},
	)
}

// FromConfig builds a Detector from drift configuration. A disabled config
// yields a Detector that never reports drift.
func FromConfig(cfg config.Drift) *Detector {
	if !cfg.Enabled {
		return NewDetector()
	}
	var checks []Check
	if cfg.ScopeKeywords {
		checks = append(checks, ScopeKeywordCheck{Keywords: cfg.Keywords, Window: cfg.Window})
	}
	if cfg.IntentCheck {
		checks = append(checks, IntentCheck{MinLength: cfg.MinIntentLength})
	}
	return NewDetector(checks...)
}

// Check implements Classifier. A blank brief still gets the checks that do
// not depend on its content.
func (d *Detector) Check(brief string, doc *handoff.Document) Report {
	var report Report
	if doc == nil {
		return report
	}
	lower := strings.ToLower(brief)
	for _, c := range d.checks {
		report.Issues = append(report.Issues, c.Issues(lower, doc)...)
	}
	return report
}

// scopeMarkers introduce a brief's exclusions.
var scopeMarkers = []string{"out of scope", "out_of_scope"}

// ScopeKeywordCheck flags keywords that appear in what_was_done and in the
// brief text following its first out-of-scope marker.
type ScopeKeywordCheck struct {
	Keywords []string
	// Window is the number of characters after the marker searched for
	// keywords.
	Window int
}

// Issues implements Check.
func (c ScopeKeywordCheck) Issues(brief string, doc *handoff.Document) []string {
	excluded, ok := exclusionWindow(brief, c.Window)
	if !ok {
		return nil
	}
	done := strings.ToLower(doc.Summary.WhatWasDone.String())
	if done == "" {
		return nil
	}

	var issues []string
	for _, kw := range c.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(done, kw) && strings.Contains(excluded, kw) {
			issues = append(issues, fmt.Sprintf(scopeIssueFormat, kw))
		}
	}
	return issues
}

// exclusionWindow returns up to window characters of brief following the
// earliest scope marker.
func exclusionWindow(brief string, window int) (string, bool) {
	at, marker := -1, ""
	for _, m := range scopeMarkers {
		if i := strings.Index(brief, m); i >= 0 && (at < 0 || i < at) {
			at, marker = i, m
		}
	}
	if at < 0 {
		return "", false
	}
	rest := brief[at+len(marker):]
	if window <= 0 || utf8.RuneCountInString(rest) <= window {
		return rest, true
	}
	return string([]rune(rest)[:window]), true
}

// IntentCheck flags an original_intent shorter than MinLength characters,
// including a missing one.
type IntentCheck struct {
	MinLength int
}

// Issues implements Check.
func (c IntentCheck) Issues(_ string, doc *handoff.Document) []string {
	intent := doc.Context.OriginalIntent.String()
	if utf8.RuneCountInString(intent) < c.MinLength {
		return []string{IntentIssue}
	}
	return nil
}
