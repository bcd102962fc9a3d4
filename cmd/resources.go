package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/pages"
	"github.com/desertthunder/solvex/internal/shared"
)

// TagsList prints every tag.
func (r *Runner) TagsList(ctx context.Context, cmd *cli.Command) error {
	tags, err := r.api.Tags.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(tags, true)
	}
	return formatter.TagsTable(r.printer.Out(), tags)
}

// ResourcesList prints the resources matching the filter flags.
func (r *Runner) ResourcesList(ctx context.Context, cmd *cli.Command) error {
	filter := models.ResourceFilter{
		Keyword: cmd.String("keyword"),
		Tag:     cmd.String("tag"),
	}
	if cmd.IsSet("min-score") {
		filter.MinScore = models.Float(cmd.Float("min-score"))
	}

	list := pages.NewResourceList(r.api.Resources)
	if err := list.Load(ctx, filter); err != nil {
		return fmt.Errorf("failed to list resources: %w", err)
	}
	resources := list.Items()

	if cmd.Bool("json") {
		return r.writeJSON(resources, true)
	}
	if len(resources) == 0 {
		r.printer.Info("No resources found")
		return nil
	}
	return formatter.ResourcesTable(r.printer.Out(), resources)
}

// ResourcesShow prints a resource with its linked problems and solutions.
func (r *Runner) ResourcesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	detail, err := r.api.Resources.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get resource %d: %w", id, err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(detail, true)
	}

	r.printer.Header(detail.Label())
	r.writePlain("%s\n", detail.URL)
	if detail.ContentSummary != "" {
		r.writePlainln("%s", detail.ContentSummary)
	}
	if len(detail.Tags) > 0 {
		r.writePlainln("Tags")
		if err := formatter.TagsTable(r.printer.Out(), detail.Tags); err != nil {
			return err
		}
	}
	if len(detail.LinkedProblems) > 0 {
		r.writePlainln("Linked problems")
		if err := formatter.ProblemsTable(r.printer.Out(), detail.LinkedProblems); err != nil {
			return err
		}
	}
	if len(detail.LinkedSolutions) > 0 {
		r.writePlainln("Linked solutions")
		if err := formatter.SolutionsTable(r.printer.Out(), detail.LinkedSolutions); err != nil {
			return err
		}
	}
	return nil
}

// ResourcesVisit records a visit, then opens the resource unless --no-browser is set.
func (r *Runner) ResourcesVisit(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	resource, err := r.api.Resources.Visit(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	r.printer.Success("Visited %s", resource.Label())

	if cmd.Bool("no-browser") {
		return nil
	}
	return shared.OpenBrowser(ctx, resource.URL)
}
