// package tasks implements bulk operations over the SolveX API.
package tasks

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/solvex/internal/repositories"
	"github.com/desertthunder/solvex/internal/services"
)

const (
	DefaultWorkers   = 4
	MaxWorkers       = 10
	DefaultRateLimit = 5.0
)

// Formats accepted by [Exporter.Export].
var Formats = []string{"json", "markdown", "txt"}

// RunRecorder persists export history.
type RunRecorder interface {
	Start(ctx context.Context, run *repositories.ExportRun) error
	Finish(ctx context.Context, id string, exported, failed int) error
}

// ExportOpts configures one bulk export.
type ExportOpts struct {
	Format     string  // Export format: json, markdown, txt
	OutputDir  string  // Base output directory (default: solvex_export_{epoch})
	NumWorkers int     // Concurrent writers (default: 4, max: 10)
	RateLimit  float64 // Fetches per second (default: 5)
}

// ExportResult is the outcome of exporting a single problem.
type ExportResult struct {
	ProblemID int
	Title     string
	Success   bool
	Files     []string
	Error     error
}

// BulkExportResult aggregates every [ExportResult] of a run.
type BulkExportResult struct {
	RunID             string
	TotalProblems     int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []ExportResult
}

// Exporter fetches problem aggregates and writes them to disk.
type Exporter struct {
	problems services.ProblemService
	runs     RunRecorder
	logger   *log.Logger
}

// NewExporter creates an Exporter. runs and logger may be nil.
func NewExporter(problems services.ProblemService, runs RunRecorder, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Exporter{problems: problems, runs: runs, logger: logger}
}

// ValidFormat reports whether format is one of [Formats].
func ValidFormat(format string) bool {
	return slices.Contains(Formats, strings.ToLower(format))
}
