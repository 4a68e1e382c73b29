package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/thruflo/relay/internal/config"
	"github.com/thruflo/relay/internal/coordinator"
	"github.com/thruflo/relay/internal/drift"
	"github.com/thruflo/relay/internal/handoff"
	"github.com/thruflo/relay/internal/logging"
	"github.com/thruflo/relay/internal/store"
	"github.com/thruflo/relay/internal/template"
)

// workspace is an opened .relay directory.
type workspace struct {
	base        string
	cfg         *config.Config
	store       store.DocumentStore
	coordinator *coordinator.Coordinator
}

// basePath returns the workspace root.
func basePath() (string, error) {
	if workDir != "" {
		return filepath.Abs(workDir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}

// loadConfig reads the workspace config and applies its log level.
func loadConfig() (string, *config.Config, error) {
	base, err := basePath()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.LoadConfig(base)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load config: %w", err)
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return "", nil, err
	}
	logging.SetLevel(level)
	return base, cfg, nil
}

// newValidator builds the validator configured for the workspace. strict
// forces strict mode on top of the config.
func newValidator(cfg *config.Config, strict bool) *handoff.Validator {
	return handoff.NewValidator(
		handoff.WithStrict(cfg.Validation.Strict || strict),
		handoff.WithMinIntentLength(cfg.Validation.MinIntentLength),
	)
}

// templateLibrary returns the templates with workspace overrides applied.
func templateLibrary(base string) *template.Library {
	return template.New(filepath.Join(config.Dir(base), "templates"))
}

// openWorkspace loads config and opens the configured store. The caller
// must close the workspace.
func openWorkspace(strict bool) (*workspace, error) {
	base, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(config.Dir(base)); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s directory in %s (run 'relay init' first)", config.DirName, base)
		}
		return nil, err
	}

	st, err := store.Open(base, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	c := coordinator.New(st,
		coordinator.WithValidator(newValidator(cfg, strict)),
		coordinator.WithClassifier(drift.FromConfig(cfg.Drift)),
		coordinator.WithTemplates(templateLibrary(base)),
		coordinator.WithStallThreshold(cfg.History.StallThreshold),
	)
	return &workspace{base: base, cfg: cfg, store: st, coordinator: c}, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}
