// Package testutil provides shared test utilities for relay.
//
// # Fixtures
//
// The fixtures.go file provides sample briefs and one complete handoff per
// role. Each handoff validates without errors or warnings, so tests can
// break one field at a time:
//
//   - SampleBrief, SampleBriefNoExclusions - project briefs
//   - ArchitectHandoff, SecurityHandoff, TesterHandoff, DevOpsHandoff
//   - ImplementerToSecurityHandoff, ImplementerToTesterHandoff
//   - BlockedHandoff, PartialHandoff - conditional status sections
//
// # Environment Helpers
//
//   - SetupTestDir(t) - creates a temp directory with .relay structure
//   - MustParse(t, data) - parses a handoff or fails the test
//   - Clock(at), TickingClock(start, step) - deterministic clocks
//   - WriteTestFile(t, base, path, content) - writes a file in test dir
//
// # Assertions
//
//   - AssertValid, AssertClean, AssertInvalid - validation results
//   - AssertHasError, AssertHasWarning, AssertNoWarning - message checks
//   - AssertProjectStatus, AssertBlockers - project state
//
// # Usage
//
//	func TestSomething(t *testing.T) {
//	    doc := testutil.MustParse(t, testutil.ArchitectHandoff)
//	    res := handoff.NewValidator().Validate(doc, "architect", "implementer")
//	    testutil.AssertClean(t, res)
//	}
package testutil
