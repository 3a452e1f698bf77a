// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/planpilot/internal/ports/secondary"
)

// PlanDocumentStore implements secondary.PlanDocumentStore, keeping one
// markdown file per plan under <baseDir>/plans.
type PlanDocumentStore struct {
	plansDir string
}

// NewPlanDocumentStore creates a document store rooted at baseDir.
func NewPlanDocumentStore(baseDir string) *PlanDocumentStore {
	return &PlanDocumentStore{plansDir: filepath.Join(baseDir, "plans")}
}

// PathFor returns the document path of a plan.
func (s *PlanDocumentStore) PathFor(planID int64) string {
	return filepath.Join(s.plansDir, fmt.Sprintf("plan_%d.md", planID))
}

// Write replaces the document of a plan.
func (s *PlanDocumentStore) Write(ctx context.Context, planID int64, markdown string) error {
	return writeFile(s.PathFor(planID), markdown)
}

// Remove deletes the document of a plan. A missing document is not an error.
func (s *PlanDocumentStore) Remove(ctx context.Context, planID int64) error {
	if err := os.Remove(s.PathFor(planID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove plan document: %w", err)
	}
	return nil
}

// Export writes markdown to an arbitrary path, creating parent directories.
func (s *PlanDocumentStore) Export(ctx context.Context, path, markdown string) error {
	return writeFile(path, markdown)
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

var _ secondary.PlanDocumentStore = (*PlanDocumentStore)(nil)
