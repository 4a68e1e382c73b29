// Package project holds the project lifecycle: its persisted state, the
// transition applied for each accepted handoff, the decision record, and
// history analysis.
//
// Transitions are a pure function of the handoff's declared completion and
// whether a next agent is named:
//
//	blocked                  -> blocked (blocker appended)
//	complete, no next agent  -> completed
//	anything else            -> active
//
// Paused is only ever set by an operator and is never produced by Apply.
package project
