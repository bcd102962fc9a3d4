package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/solvex/internal/shared"
)

// ManifestEntry is the outcome of exporting one problem.
type ManifestEntry struct {
	ProblemID int      `json:"problem_id"`
	Title     string   `json:"title,omitempty"`
	Status    string   `json:"status"`
	Files     []string `json:"files,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ExportManifest summarises a bulk export. It is written next to the exported files.
type ExportManifest struct {
	RunID             string          `json:"run_id,omitempty"`
	ExportedAt        time.Time       `json:"exported_at"`
	Format            string          `json:"format"`
	TotalProblems     int             `json:"total_problems"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Problems          []ManifestEntry `json:"problems"`
}

// WriteExportManifest writes m as indented JSON to path.
func WriteExportManifest(m *ExportManifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
