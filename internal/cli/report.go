package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// errHandoffRejected is returned by commands that validate a handoff so the
// process exits non-zero when it is rejected.
var errHandoffRejected = errors.New("handoff rejected")

// stdoutIsTerminal reports whether output goes to an interactive terminal.
// Tests override it.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

const (
	colorRed    = "31"
	colorGreen  = "32"
	colorYellow = "33"
)

// paint wraps s in an ANSI color when writing to a terminal.
func paint(color, s string) string {
	if !stdoutIsTerminal() {
		return s
	}
	return "\033[" + color + "m" + s + "\033[0m"
}

// printValidation prints a validation outcome.
func printValidation(valid bool, handoffID string, errs, warnings []string) {
	if valid {
		fmt.Println("Handoff is " + paint(colorGreen, "VALID"))
		if handoffID != "" {
			fmt.Printf("Handoff ID: %s\n", handoffID)
		}
	} else {
		fmt.Println("Handoff is " + paint(colorRed, "INVALID"))
	}

	printList(paint(colorRed, "Errors"), errs)
	printList(paint(colorYellow, "Warnings"), warnings)
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s (%d):\n", title, len(items))
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

// valueOr returns s, or fallback when s is empty.
func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
