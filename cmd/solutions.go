package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/pages"
	"github.com/desertthunder/solvex/internal/shared"
)

// codeSnippet reads the snippet from --code or --code-file. Both at once is an error.
func codeSnippet(cmd *cli.Command) (string, bool, error) {
	code, file := cmd.String("code"), cmd.String("code-file")
	switch {
	case code != "" && file != "":
		return "", false, fmt.Errorf("%w: cannot specify both --code and --code-file", shared.ErrInvalidArgument)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read code file: %w", err)
		}
		return string(data), true, nil
	default:
		return code, cmd.IsSet("code"), nil
	}
}

// SolutionsList prints the solutions of a problem.
func (r *Runner) SolutionsList(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "problem-id")
	if err != nil {
		return err
	}

	solutions, err := r.api.Solutions.ListForProblem(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list solutions: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(solutions, true)
	}
	if len(solutions) == 0 {
		r.printer.Info("Problem #%d has no solutions yet", id)
		return nil
	}
	return formatter.SolutionsTable(r.printer.Out(), solutions)
}

// SolutionsShow prints one solution with its code.
func (r *Runner) SolutionsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	s, err := r.api.Solutions.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get solution %d: %w", id, err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(s, true)
	}

	r.printer.Header(fmt.Sprintf("Solution #%d (problem #%d)", s.SolutionID, s.ProblemID))
	if err := formatter.SolutionsTable(r.printer.Out(), []models.Solution{s.Solution}); err != nil {
		return err
	}
	if s.Explanation != "" {
		r.writePlainln("%s", s.Explanation)
	}
	r.writePlainln("%s", s.CodeSnippet)
	if s.ParentSolution != nil {
		r.printer.Info("Improves on solution #%d", s.ParentSolution.SolutionID)
	}
	r.printer.Info("%d improvements", s.ChildrenCount)
	return nil
}

// SolutionsCreate adds a solution to a problem.
func (r *Runner) SolutionsCreate(ctx context.Context, cmd *cli.Command) error {
	problemID, err := idArg(cmd, "problem-id")
	if err != nil {
		return err
	}
	code, _, err := codeSnippet(cmd)
	if err != nil {
		return err
	}

	create := pages.NewCreateSolution(r.api.Solutions, problemID)
	create.SetForm(pages.SolutionForm{
		CodeSnippet:            code,
		Explanation:            cmd.String("explanation"),
		ApproachType:           cmd.String("approach"),
		SuccessRate:            cmd.String("success-rate"),
		ParentSolutionID:       cmd.String("parent"),
		ImprovementDescription: cmd.String("improvement"),
		BranchType:             cmd.String("branch"),
	})

	solution, err := create.Submit(ctx)
	if err != nil {
		return fmt.Errorf("failed to create solution: %w", err)
	}
	r.printer.Success("Added solution #%d (v%d) to problem #%d", solution.SolutionID, solution.VersionNumber, problemID)
	return nil
}

// SolutionsUpdate sends only the fields given on the command line.
func (r *Runner) SolutionsUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	var req models.UpdateSolutionRequest
	code, set, err := codeSnippet(cmd)
	if err != nil {
		return err
	}
	if set {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("%w: code snippet is required", shared.ErrValidation)
		}
		req.CodeSnippet = &code
	}
	for flag, field := range map[string]**string{
		"explanation": &req.Explanation,
		"approach":    &req.ApproachType,
		"improvement": &req.ImprovementDescription,
		"branch":      &req.BranchType,
	} {
		if cmd.IsSet(flag) {
			*field = models.String(cmd.String(flag))
		}
	}
	if cmd.IsSet("success-rate") {
		rate, err := strconv.ParseFloat(strings.TrimSpace(cmd.String("success-rate")), 64)
		if err != nil || rate < 0 || rate > 100 {
			return fmt.Errorf("%w: success rate must be between 0 and 100", shared.ErrValidation)
		}
		req.SuccessRate = &rate
	}
	if req.Empty() {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	solution, err := r.api.Solutions.Update(ctx, id, req)
	if err != nil {
		return fmt.Errorf("failed to update solution %d: %w", id, err)
	}
	r.printer.Success("Updated solution #%d", solution.SolutionID)
	return nil
}

// SolutionsDelete deletes a solution after confirmation.
func (r *Runner) SolutionsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	ok, err := r.confirmer().Confirm(ctx, fmt.Sprintf("Delete solution #%d? This cannot be undone.", id))
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrCancelled
	}

	if err := r.api.Solutions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete solution %d: %w", id, err)
	}
	r.printer.Success("Deleted solution #%d", id)
	return nil
}

// SolutionsChildren lists the solutions branching from a solution.
func (r *Runner) SolutionsChildren(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	children, err := r.api.Solutions.Children(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list children of solution %d: %w", id, err)
	}
	if len(children) == 0 {
		r.printer.Info("Solution #%d has no improvements", id)
		return nil
	}
	return formatter.SolutionsTable(r.printer.Out(), children)
}
