package config

// Validation configures handoff validation.
type Validation struct {
	Strict          bool `yaml:"strict"`
	MinIntentLength int  `yaml:"min_intent_length"`
}

// Drift configures the scope-drift checks run against the project brief.
type Drift struct {
	Enabled         bool     `yaml:"enabled"`
	ScopeKeywords   bool     `yaml:"scope_keywords"`
	IntentCheck     bool     `yaml:"intent_check"`
	Window          int      `yaml:"window"`
	MinIntentLength int      `yaml:"min_intent_length"`
	Keywords        []string `yaml:"keywords"`
}

// Storage selects the document store backend.
type Storage struct {
	Backend string `yaml:"backend"`
	// Path is the projects directory for the file backend or the database
	// file for the sqlite backend. Relative paths resolve against .relay/.
	Path string `yaml:"path"`
}

// History configures project history reporting.
type History struct {
	StallThreshold int `yaml:"stall_threshold"`
}

// Logging configures the default logger.
type Logging struct {
	Level string `yaml:"level"`
}

// Config represents the .relay/config.yaml file.
type Config struct {
	Validation Validation `yaml:"validation"`
	Drift      Drift      `yaml:"drift"`
	Storage    Storage    `yaml:"storage"`
	History    History    `yaml:"history"`
	Logging    Logging    `yaml:"logging"`
}

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)
