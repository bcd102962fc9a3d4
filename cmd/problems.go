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
)

// ProblemsList prints the problems matching the filter flags.
func (r *Runner) ProblemsList(ctx context.Context, cmd *cli.Command) error {
	filter := models.ProblemFilter{
		Keyword: cmd.String("keyword"),
		Type:    cmd.String("type"),
		Tag:     cmd.String("tag"),
	}
	list := pages.NewProblemList(r.api.Problems)
	list.SetDraft(filter)

	r.logger.Debug("listing problems", "filter", filter)
	if err := list.Submit(ctx); err != nil {
		return fmt.Errorf("failed to list problems: %w", err)
	}
	problems := list.Items()

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(problems, true)
	case len(problems) == 0:
		r.printer.Info("No problems found")
		return nil
	case cmd.Bool("cards"):
		for _, p := range problems {
			r.writePlain("%s\n", formatter.ProblemCard(p, fmt.Sprintf("#%d", p.ProblemID)))
		}
		return nil
	default:
		return formatter.ProblemsTable(r.printer.Out(), problems)
	}
}

// ProblemsShow prints one problem aggregate.
func (r *Runner) ProblemsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	detail := pages.NewProblemDetail(r.api.Problems)
	if err := detail.Load(ctx, id); err != nil {
		return fmt.Errorf("failed to load problem %d: %w", id, err)
	}
	full := detail.Data()

	var out []byte
	switch format := strings.ToLower(cmd.String("format")); format {
	case "json":
		out, err = formatter.ProblemToJSON(full)
	case "markdown", "md":
		out, err = formatter.ProblemToMarkdown(full)
	case "text", "txt":
		return r.printProblem(full)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", out)
}

func (r *Runner) printProblem(full *models.ProblemFull) error {
	p := full.Problem
	r.writePlain("%s", formatter.ProblemCard(p.Problem, "by "+p.Author.Username, r.config.ProblemLink(p.ProblemID)))

	if len(full.Tags) > 0 {
		r.writePlainln("Tags")
		if err := formatter.TagsTable(r.printer.Out(), full.Tags); err != nil {
			return err
		}
	}
	if len(full.Solutions) > 0 {
		r.writePlainln("Solutions")
		if err := formatter.SolutionsTable(r.printer.Out(), full.Solutions); err != nil {
			return err
		}
	}
	if len(full.LinkedResources) > 0 {
		resources := make([]models.Resource, len(full.LinkedResources))
		for i, lr := range full.LinkedResources {
			resources[i] = lr.Resource
		}
		r.writePlainln("Resources")
		if err := formatter.ResourcesTable(r.printer.Out(), resources); err != nil {
			return err
		}
	}
	return nil
}

// ProblemsCreate creates a problem authored by the signed-in user.
func (r *Runner) ProblemsCreate(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}
	user, err := pages.CurrentUser(ctx, sessions)
	if err != nil {
		return err
	}

	create := pages.NewCreateProblem(r.api.Problems, r.api.Tags)
	create.SetForm(pages.ProblemForm{
		Title:       cmd.String("title"),
		UserID:      fmt.Sprint(user.UserID),
		Description: cmd.String("description"),
		ProblemType: cmd.String("type"),
		TagIDs:      cmd.IntSlice("tag"),
	})

	problem, err := create.Submit(ctx)
	if err != nil {
		return fmt.Errorf("failed to create problem: %w", err)
	}
	_, link := create.Created()

	r.logger.Info("problem created", "id", problem.ProblemID)
	r.printer.Success("Created problem #%d %s", problem.ProblemID, problem.Title)
	r.printer.Info("%s", strings.TrimSuffix(r.config.Web.BaseURL, "/")+link)
	return nil
}

// ProblemsUpdate sends only the fields given on the command line.
func (r *Runner) ProblemsUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	var req models.UpdateProblemRequest
	if cmd.IsSet("title") {
		title := strings.TrimSpace(cmd.String("title"))
		if title == "" {
			return fmt.Errorf("%w: title is required", shared.ErrValidation)
		}
		req.Title = &title
	}
	if cmd.IsSet("description") {
		req.Description = models.String(cmd.String("description"))
	}
	if cmd.IsSet("type") {
		req.ProblemType = models.String(cmd.String("type"))
	}
	if req == (models.UpdateProblemRequest{}) {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	problem, err := r.api.Problems.Update(ctx, id, req)
	if err != nil {
		return fmt.Errorf("failed to update problem %d: %w", id, err)
	}
	r.printer.Success("Updated problem #%d %s", problem.ProblemID, problem.Title)
	return nil
}

// ProblemsResolve marks a problem resolved. A resolved problem is left alone.
func (r *Runner) ProblemsResolve(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	detail := pages.NewProblemDetail(r.api.Problems)
	if err := detail.Load(ctx, id); err != nil {
		return fmt.Errorf("failed to load problem %d: %w", id, err)
	}
	if !detail.CanResolve() {
		r.printer.Info("Problem #%d is already resolved", id)
		return nil
	}
	if err := detail.Resolve(ctx); err != nil {
		return fmt.Errorf("failed to resolve problem %d: %w", id, err)
	}

	r.printer.Success("%s %s", formatter.Badge(detail.Data().Problem.Resolved), detail.Data().Problem.Title)
	return nil
}

// ProblemsDelete deletes one of the signed-in user's problems after confirmation.
func (r *Runner) ProblemsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	sessions, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}

	account := pages.NewAccount(r.api.Users, r.api.Problems, sessions, r.confirmer())
	if err := account.Load(ctx); err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if !account.Owns(id) {
		return fmt.Errorf("%w: problem %d is not one of yours", shared.ErrInvalidArgument, id)
	}

	if err := account.DeleteProblem(ctx, id); err != nil {
		return err
	}
	r.printer.Success("Deleted problem #%d", id)
	return nil
}

// ProblemsOpen opens the problem page of the web front end.
func (r *Runner) ProblemsOpen(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	link := r.config.ProblemLink(id)
	r.logger.Info("opening browser", "url", link)
	return shared.OpenBrowser(ctx, link)
}
