package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Workflow holds the enumerations requirements and folders are validated
// against. The embedded defaults match a plain review workflow; deployments
// with their own process override them with a YAML file.
type Workflow struct {
	Statuses        []string `yaml:"statuses"`
	DefaultStatus   string   `yaml:"default_status"`
	Priorities      []string `yaml:"priorities"`
	DefaultPriority string   `yaml:"default_priority"`
	FolderTypes     []string `yaml:"folder_types"`
}

// DefaultWorkflow returns the built-in workflow definitions
func DefaultWorkflow() *Workflow {
	return &Workflow{
		Statuses:        []string{"draft", "in_review", "approved", "implemented", "obsolete"},
		DefaultStatus:   "draft",
		Priorities:      []string{"low", "medium", "high", "critical"},
		DefaultPriority: "medium",
		FolderTypes:     []string{"folder", "epic", "feature"},
	}
}

// LoadWorkflow returns the workflow definitions, overridden from the YAML
// file at path when one is configured. Fields absent from the file keep
// their defaults.
func LoadWorkflow(path string) (*Workflow, error) {
	wf := DefaultWorkflow()
	if path == "" {
		return wf, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow config: %w", err)
	}

	if err := yaml.Unmarshal(data, wf); err != nil {
		return nil, fmt.Errorf("parse workflow config: %w", err)
	}

	if err := wf.validate(); err != nil {
		return nil, fmt.Errorf("invalid workflow config %s: %w", path, err)
	}

	return wf, nil
}

func (w *Workflow) validate() error {
	if len(w.Statuses) == 0 {
		return fmt.Errorf("statuses cannot be empty")
	}
	if !slices.Contains(w.Statuses, w.DefaultStatus) {
		return fmt.Errorf("default status %q is not one of the configured statuses", w.DefaultStatus)
	}
	if len(w.Priorities) == 0 {
		return fmt.Errorf("priorities cannot be empty")
	}
	if !slices.Contains(w.Priorities, w.DefaultPriority) {
		return fmt.Errorf("default priority %q is not one of the configured priorities", w.DefaultPriority)
	}
	if len(w.FolderTypes) == 0 {
		return fmt.Errorf("folder types cannot be empty")
	}
	return nil
}

// ValidStatus reports whether s is a configured requirement status
func (w *Workflow) ValidStatus(s string) bool {
	return slices.Contains(w.Statuses, s)
}

// ValidPriority reports whether p is a configured requirement priority
func (w *Workflow) ValidPriority(p string) bool {
	return slices.Contains(w.Priorities, p)
}

// ValidFolderType reports whether t is a configured folder type
func (w *Workflow) ValidFolderType(t string) bool {
	return slices.Contains(w.FolderTypes, t)
}
