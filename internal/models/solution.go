package models

import "strings"

// Solution is one attempt at a problem. ParentSolutionID links versions into a tree.
type Solution struct {
	SolutionID             int      `json:"solution_id"`
	ProblemID              int      `json:"problem_id"`
	CodeSnippet            string   `json:"code_snippet"`
	Explanation            string   `json:"explanation,omitempty"`
	ApproachType           string   `json:"approach_type,omitempty"`
	ParentSolutionID       *int     `json:"parent_solution_id,omitempty"`
	VersionNumber          int      `json:"version_number"`
	ImprovementDescription string   `json:"improvement_description,omitempty"`
	SuccessRate            *float64 `json:"success_rate,omitempty"`
	BranchType             string   `json:"branch_type,omitempty"`
	CreatedAt              Time     `json:"created_at"`
}

func (s *Solution) Validate() error {
	switch {
	case s.SolutionID <= 0:
		return invalid("solution", "missing solution_id")
	case s.ProblemID <= 0:
		return invalid("solution", "solution %d has no problem_id", s.SolutionID)
	case s.SuccessRate != nil && (*s.SuccessRate < 0 || *s.SuccessRate > 100):
		return invalid("solution", "solution %d success_rate %v outside [0,100]", s.SolutionID, *s.SuccessRate)
	}
	return nil
}

// SolutionDetail is returned by GET /solutions/{id}.
type SolutionDetail struct {
	Solution
	ChildrenCount  int       `json:"children_count"`
	ParentSolution *Solution `json:"parent_solution,omitempty"`
}

func (d *SolutionDetail) Validate() error {
	if err := d.Solution.Validate(); err != nil {
		return err
	}
	if d.ParentSolution != nil {
		return d.ParentSolution.Validate()
	}
	return nil
}

// CreateSolutionRequest is the body of POST /problems/{id}/solutions.
type CreateSolutionRequest struct {
	ProblemID              int      `json:"problem_id"`
	CodeSnippet            string   `json:"code_snippet"`
	Explanation            string   `json:"explanation,omitempty"`
	ApproachType           string   `json:"approach_type,omitempty"`
	ParentSolutionID       *int     `json:"parent_solution_id,omitempty"`
	ImprovementDescription string   `json:"improvement_description,omitempty"`
	SuccessRate            *float64 `json:"success_rate,omitempty"`
	BranchType             string   `json:"branch_type,omitempty"`
}

// UpdateSolutionRequest is the body of PATCH /solutions/{id}. Nil fields are left unchanged.
type UpdateSolutionRequest struct {
	CodeSnippet            *string  `json:"code_snippet,omitempty"`
	Explanation            *string  `json:"explanation,omitempty"`
	ApproachType           *string  `json:"approach_type,omitempty"`
	ImprovementDescription *string  `json:"improvement_description,omitempty"`
	SuccessRate            *float64 `json:"success_rate,omitempty"`
	BranchType             *string  `json:"branch_type,omitempty"`
}

// Empty reports whether the request changes nothing.
func (r UpdateSolutionRequest) Empty() bool {
	return r.CodeSnippet == nil && r.Explanation == nil && r.ApproachType == nil &&
		r.ImprovementDescription == nil && r.SuccessRate == nil && r.BranchType == nil
}

// Excerpt returns the first line of the code snippet, truncated to n runes.
func (s *Solution) Excerpt(n int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s.CodeSnippet), "\n")
	return Truncate(line, n)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
