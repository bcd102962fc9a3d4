package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Problem is a tracked programming problem.
//
// List endpoints return only id, title, resolved and created_at; the same type decodes both shapes.
// Resolved only moves from false to true in this client.
type Problem struct {
	ProblemID   int    `json:"problem_id"`
	UserID      int    `json:"user_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ProblemType string `json:"problem_type,omitempty"`
	Resolved    bool   `json:"resolved"`
	CreatedAt   Time   `json:"created_at"`
	UpdatedAt   Time   `json:"updated_at"`
}

func (p *Problem) Validate() error {
	switch {
	case p.ProblemID <= 0:
		return invalid("problem", "missing problem_id")
	case strings.TrimSpace(p.Title) == "":
		return invalid("problem", "problem %d has no title", p.ProblemID)
	}
	return nil
}

// ProblemWithAuthor is a problem joined with its author, as returned by GET /problems/{id}.
type ProblemWithAuthor struct {
	Problem
	Author Author `json:"author"`
}

func (p *ProblemWithAuthor) Validate() error {
	if err := p.Problem.Validate(); err != nil {
		return err
	}
	if p.Author.UserID <= 0 {
		return invalid("problem", "problem %d has no author", p.ProblemID)
	}
	return nil
}

// ProblemRelation is a directed edge between two problems. It is decoded but never shown.
type ProblemRelation struct {
	FromProblemID int      `json:"from_problem_id"`
	ToProblemID   int      `json:"to_problem_id"`
	RelationType  string   `json:"relation_type,omitempty"`
	Strength      *float64 `json:"strength,omitempty"`
}

func (r *ProblemRelation) Validate() error {
	if r.FromProblemID <= 0 || r.ToProblemID <= 0 {
		return invalid("relation", "missing endpoint (%d -> %d)", r.FromProblemID, r.ToProblemID)
	}
	return nil
}

// ProblemResourceSummary is a resource linked to a problem inside the aggregate.
type ProblemResourceSummary struct {
	Resource         Resource `json:"resource"`
	RelevanceScore   *float64 `json:"relevance_score,omitempty"`
	ContributionType string   `json:"contribution_type,omitempty"`
}

func (s *ProblemResourceSummary) Validate() error {
	return s.Resource.Validate()
}

// ProblemFull is the aggregate returned by GET /problems/{id}/full.
type ProblemFull struct {
	Problem         ProblemWithAuthor        `json:"problem"`
	Solutions       []Solution               `json:"solutions"`
	Tags            []Tag                    `json:"tags"`
	LinkedResources []ProblemResourceSummary `json:"linked_resources"`
	RelationsOut    []ProblemRelation        `json:"relations_out"`
	RelationsIn     []ProblemRelation        `json:"relations_in"`
}

func (f *ProblemFull) Validate() error {
	if err := f.Problem.Validate(); err != nil {
		return err
	}
	if err := ValidateAll(f.Solutions); err != nil {
		return fmt.Errorf("solutions: %w", err)
	}
	if err := ValidateAll(f.Tags); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	if err := ValidateAll(f.LinkedResources); err != nil {
		return fmt.Errorf("linked_resources: %w", err)
	}
	if err := ValidateAll(f.RelationsOut); err != nil {
		return fmt.Errorf("relations_out: %w", err)
	}
	if err := ValidateAll(f.RelationsIn); err != nil {
		return fmt.Errorf("relations_in: %w", err)
	}
	return nil
}

// CreateProblemRequest is the body of POST /problems.
type CreateProblemRequest struct {
	UserID      int    `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ProblemType string `json:"problem_type,omitempty"`
	Tags        []int  `json:"tags,omitempty"`
}

// UpdateProblemRequest is the body of PATCH /problems/{id}. Nil fields are left unchanged.
type UpdateProblemRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ProblemType *string `json:"problem_type,omitempty"`
	Resolved    *bool   `json:"resolved,omitempty"`
}

// ProblemFilter narrows GET /problems.
type ProblemFilter struct {
	Keyword string
	Type    string
	Tag     string
}

// Query encodes the filter, omitting empty values.
func (f ProblemFilter) Query() url.Values {
	q := url.Values{}
	if v := strings.TrimSpace(f.Keyword); v != "" {
		q.Set("keyword", v)
	}
	if v := strings.TrimSpace(f.Type); v != "" {
		q.Set("type", v)
	}
	if v := strings.TrimSpace(f.Tag); v != "" {
		q.Set("tag", v)
	}
	return q
}
