package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/pages"
	"github.com/desertthunder/solvex/internal/shared"
	"github.com/desertthunder/solvex/internal/tasks"
)

// ExportProblem writes one problem aggregate as Markdown (with JSON) or plain text.
func (r *Runner) ExportProblem(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	detail := pages.NewProblemDetail(r.api.Problems)
	if err := detail.Load(ctx, id); err != nil {
		return fmt.Errorf("failed to load problem %d: %w", id, err)
	}

	output := cmd.String("output")
	switch format := strings.ToLower(cmd.String("format")); format {
	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(detail.Data(), output)
		if err != nil {
			return err
		}
		r.printer.Success("Exported problem #%d to %s", id, result.Directory)
		for _, f := range result.Files {
			r.writePlain("  %s\n", f)
		}
	case "txt", "text":
		path, err := formatter.WriteTextExport(detail.Data(), output)
		if err != nil {
			return err
		}
		r.printer.Success("Exported problem #%d to %s", id, path)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	return nil
}

// ExportCSV writes the (optionally filtered) problem list to a CSV file.
func (r *Runner) ExportCSV(ctx context.Context, cmd *cli.Command) error {
	list := pages.NewProblemList(r.api.Problems)
	if err := list.Load(ctx, models.ProblemFilter{Keyword: cmd.String("keyword")}); err != nil {
		return fmt.Errorf("failed to list problems: %w", err)
	}

	path, err := formatter.WriteCSVExport(list.Items(), cmd.String("output"))
	if err != nil {
		return err
	}
	r.printer.Success("Exported %d problems to %s", len(list.Items()), path)
	return nil
}

// ExportBulk exports the given problems, or every problem, concurrently.
func (r *Runner) ExportBulk(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	if !tasks.ValidFormat(format) {
		return fmt.Errorf("%w: format must be one of %s", shared.ErrInvalidArgument, strings.Join(tasks.Formats, ", "))
	}

	var recorder tasks.RunRecorder
	runs, err := r.exportRuns(ctx)
	if err != nil {
		r.logger.Warn("export history unavailable", "error", err)
	} else if runs != nil {
		recorder = runs
	}

	workers := cmd.Int("workers")
	if !cmd.IsSet("workers") && r.config.Export.Workers > 0 {
		workers = r.config.Export.Workers
	}
	rate := cmd.Float("rate")
	if !cmd.IsSet("rate") && r.config.Export.RateLimit > 0 {
		rate = r.config.Export.RateLimit
	}

	exporter := tasks.NewExporter(r.api.Problems, recorder, r.logger)
	ids := cmd.IntArgs("ids")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ListProblems, tasks.WriteManifest:
				r.writePlain("%s\n", update.Message)
			default:
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := exporter.Export(ctx, progressCh, ids, tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: workers,
		RateLimit:  rate,
	})
	close(progressCh)
	<-done

	if result != nil {
		r.printer.Header("Export complete")
		r.writePlain("Directory: %s\n", result.OutputDirectory)
		r.writePlain("Exported:  %d/%d\n", result.SuccessfulExports, result.TotalProblems)
		if result.ManifestPath != "" {
			r.writePlain("Manifest:  %s\n", result.ManifestPath)
		}
		for _, res := range result.Results {
			if !res.Success {
				r.printer.Warning("#%d %s: %v", res.ProblemID, res.Title, res.Error)
			}
		}
	}
	return err
}

// ExportHistory lists recent bulk exports from the local database.
func (r *Runner) ExportHistory(ctx context.Context, cmd *cli.Command) error {
	runs, err := r.exportRuns(ctx)
	if err != nil {
		return err
	}
	if runs == nil {
		r.printer.Info("Export history is not kept for ephemeral sessions")
		return nil
	}

	recent, err := runs.Recent(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		r.printer.Info("No exports yet")
		return nil
	}

	table := formatter.NewTable(r.printer.Out(), "Run", "Started", "Format", "Exported", "Failed", "Directory")
	for _, run := range recent {
		finished := "running"
		if run.FinishedAt != nil {
			finished = fmt.Sprint(run.Exported)
		}
		table.AddRow(run.ID[:min(8, len(run.ID))], run.StartedAt.Local().Format("2006-01-02 15:04"), run.Format, finished, fmt.Sprint(run.Failed), run.OutputDir)
	}
	return table.Render()
}
