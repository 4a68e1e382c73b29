package handoff

// Result is the outcome of validating one handoff. A result is valid exactly
// when it carries no errors.
type Result struct {
	Errors    []string `yaml:"errors" json:"errors"`
	Warnings  []string `yaml:"warnings" json:"warnings"`
	HandoffID string   `yaml:"handoff_id,omitempty" json:"handoff_id,omitempty"`
}

// Valid reports whether no errors were recorded.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// AddError records an error, making the result invalid.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning records a warning.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
