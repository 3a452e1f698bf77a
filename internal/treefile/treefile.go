// Package treefile reads plan trees (a plan with its steps and goals)
// from YAML files.
package treefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/ports/primary"
)

// Tree is the document layout:
//
//	title: Release 1.2
//	content: Ship the release.
//	steps:
//	  - content: Tag the build
//	    goals: [CI green]
//	  - content: Announce
//	    executor: human
type Tree struct {
	Title   string             `yaml:"title"`
	Content string             `yaml:"content"`
	Steps   []primary.StepSpec `yaml:"steps"`
}

// Load reads and parses the tree file at path.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.InvalidInput("tree file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read tree file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a tree document. Unknown keys are rejected.
func Parse(data []byte) (*Tree, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var tree Tree
	if err := dec.Decode(&tree); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperr.InvalidInput("tree file is empty")
		}
		return nil, apperr.InvalidInput("invalid tree file: %v", err)
	}
	if len(tree.Steps) == 0 {
		return nil, apperr.InvalidInput("plan add-tree requires at least one --step")
	}
	return &tree, nil
}
