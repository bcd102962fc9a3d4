package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	MinUsefulness = 0
	MaxUsefulness = 5
)

// Resource is a piece of learning material. It is read-only apart from visits.
type Resource struct {
	ResourceID      int      `json:"resource_id"`
	UserID          int      `json:"user_id"`
	URL             string   `json:"url"`
	Title           string   `json:"title,omitempty"`
	SourcePlatform  string   `json:"source_platform,omitempty"`
	ContentSummary  string   `json:"content_summary,omitempty"`
	UsefulnessScore *float64 `json:"usefulness_score,omitempty"`
	FirstVisitedAt  Time     `json:"first_visited_at"`
	LastVisitedAt   Time     `json:"last_visited_at"`
}

func (r *Resource) Validate() error {
	switch {
	case r.ResourceID <= 0:
		return invalid("resource", "missing resource_id")
	case strings.TrimSpace(r.URL) == "":
		return invalid("resource", "resource %d has no url", r.ResourceID)
	case r.UsefulnessScore != nil && (*r.UsefulnessScore < MinUsefulness || *r.UsefulnessScore > MaxUsefulness):
		return invalid("resource", "resource %d usefulness_score %v outside [0,5]", r.ResourceID, *r.UsefulnessScore)
	}
	return nil
}

// Label returns the title, falling back to the URL.
func (r *Resource) Label() string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	return r.URL
}

// ResourceFilter narrows GET /resources. A nil MinScore is omitted.
type ResourceFilter struct {
	Tag      string
	MinScore *float64
	Keyword  string
}

// Query encodes the filter, omitting empty values.
func (f ResourceFilter) Query() url.Values {
	q := url.Values{}
	if v := strings.TrimSpace(f.Tag); v != "" {
		q.Set("tag", v)
	}
	if f.MinScore != nil {
		q.Set("min_score", strconv.FormatFloat(*f.MinScore, 'f', -1, 64))
	}
	if v := strings.TrimSpace(f.Keyword); v != "" {
		q.Set("keyword", v)
	}
	return q
}

// ResourceDetail is returned by GET /resources/{id}.
type ResourceDetail struct {
	Resource
	LinkedProblems  []Problem  `json:"linked_problems"`
	LinkedSolutions []Solution `json:"linked_solutions"`
	Tags            []Tag      `json:"tags"`
}

func (d *ResourceDetail) Validate() error {
	if err := d.Resource.Validate(); err != nil {
		return err
	}
	if err := ValidateAll(d.LinkedProblems); err != nil {
		return fmt.Errorf("linked_problems: %w", err)
	}
	if err := ValidateAll(d.LinkedSolutions); err != nil {
		return fmt.Errorf("linked_solutions: %w", err)
	}
	if err := ValidateAll(d.Tags); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	return nil
}
