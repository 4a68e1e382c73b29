// Package handoff defines the handoff document exchanged between agents and
// the rules that decide whether a handoff is structurally complete.
//
// A handoff is decoded into a typed Document. Decoding is tolerant: a key
// whose value has an unexpected shape is recorded as present or absent but
// never fails the decode, so malformed input surfaces as validation errors
// rather than parse errors.
//
// Validation runs the fixed rule tables for the submitting Role:
//
//   - base fields required on every handoff
//   - role fields required for the submitting role
//   - conditional fields required by the declared completion status
//   - quality heuristics reported as warnings
//   - directional rules keyed by the (from, to) role pair and role semantics
//
// In strict mode every warning is additionally reported as an error.
package handoff
