package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/repositories"
	"github.com/desertthunder/solvex/internal/shared"
)

// exportJob carries either a fetched aggregate or the error that replaced it.
type exportJob struct {
	problemID int
	full      *models.ProblemFull
	err       error
}

// Export writes the aggregates of ids to opts.OutputDir. An empty ids exports every problem.
//
// Per-problem failures are reported in the result; the returned error is
// reserved for setup failures, cancellation and the manifest write.
func (e *Exporter) Export(ctx context.Context, prog chan<- ProgressUpdate, ids []int, opts ExportOpts) (*BulkExportResult, error) {
	if e.problems == nil {
		return nil, fmt.Errorf("%w: problem service not initialized", shared.ErrServiceUnavailable)
	}

	opts.Format = strings.ToLower(opts.Format)
	if opts.Format == "" {
		opts.Format = "json"
	}
	if !ValidFormat(opts.Format) {
		return nil, fmt.Errorf("%w: unsupported format %q (want one of %s)", shared.ErrInvalidArgument, opts.Format, strings.Join(Formats, ", "))
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("solvex_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}

	if len(ids) == 0 {
		sendProgress(prog, listingProblemsUpdate())
		problems, err := e.problems.List(ctx, models.ProblemFilter{})
		if err != nil {
			return nil, fmt.Errorf("failed to list problems: %w", err)
		}
		for _, p := range problems {
			ids = append(ids, p.ProblemID)
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalProblems:   len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ExportResult, 0, len(ids)),
	}
	result.RunID = e.startRun(ctx, opts)

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(ids))
	results := make(chan ExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			if ctx.Err() != nil {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			sendProgress(prog, fetchingProblemUpdate(i+1, len(ids), id))
			full, err := e.problems.Full(ctx, id)
			jobs <- exportJob{problemID: id, full: full, err: err}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Title, len(res.Files)))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res.Title, res.Error))
		}
	}
	slices.SortFunc(result.Results, func(a, b ExportResult) int { return a.ProblemID - b.ProblemID })

	e.finishRun(ctx, result)

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	sendProgress(prog, writingManifestUpdate(manifestPath))
	if err := formatter.WriteExportManifest(manifest(result, opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("%w: %v", shared.ErrCancelled, err)
	}
	return result, nil
}

func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- ExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	// Workers drain jobs even after cancellation; results closes only once the producer is done.
	for job := range jobs {
		switch {
		case job.err != nil:
			results <- ExportResult{
				ProblemID: job.problemID,
				Title:     fmt.Sprintf("Unknown (%d)", job.problemID),
				Error:     fmt.Errorf("failed to fetch problem: %w", job.err),
			}
		case ctx.Err() != nil:
			continue
		default:
			results <- exportSingleProblem(job, opts)
		}
	}
}

func exportSingleProblem(j exportJob, opts ExportOpts) ExportResult {
	result := ExportResult{
		ProblemID: j.problemID,
		Title:     j.full.Problem.Title,
		Files:     []string{},
	}
	base := filepath.Join(opts.OutputDir, formatter.DefaultName(j.problemID))

	switch opts.Format {
	case "markdown":
		mdRes, err := formatter.WriteMarkdownExport(j.full, base)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files

	case "txt":
		path, err := formatter.WriteTextExport(j.full, base+".txt")
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		data, err := formatter.ProblemToJSON(j.full)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(base+".json", data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{base + ".json"}
	}

	result.Success = true
	return result
}

func manifest(r *BulkExportResult, format string) *formatter.ExportManifest {
	m := &formatter.ExportManifest{
		RunID:             r.RunID,
		ExportedAt:        time.Now().UTC(),
		Format:            format,
		TotalProblems:     r.TotalProblems,
		SuccessfulExports: r.SuccessfulExports,
		FailedExports:     r.FailedExports,
		Problems:          make([]formatter.ManifestEntry, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		entry := formatter.ManifestEntry{ProblemID: res.ProblemID, Title: res.Title, Status: "success", Files: res.Files}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		m.Problems = append(m.Problems, entry)
	}
	return m
}

func (e *Exporter) startRun(ctx context.Context, opts ExportOpts) string {
	if e.runs == nil {
		return ""
	}
	run := &repositories.ExportRun{OutputDir: opts.OutputDir, Format: opts.Format}
	if err := e.runs.Start(ctx, run); err != nil {
		e.logger.Warn("failed to record export run", "error", err)
		return ""
	}
	return run.ID
}

func (e *Exporter) finishRun(ctx context.Context, r *BulkExportResult) {
	if e.runs == nil || r.RunID == "" {
		return
	}
	// Record the run even when ctx was cancelled.
	if err := e.runs.Finish(context.WithoutCancel(ctx), r.RunID, r.SuccessfulExports, r.FailedExports); err != nil {
		e.logger.Warn("failed to finish export run", "id", r.RunID, "error", err)
	}
}
