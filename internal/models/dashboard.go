package models

import "fmt"

// TopTag is a tag ranked by how many problems use it.
type TopTag struct {
	TagID      int    `json:"tag_id"`
	TagName    string `json:"tag_name"`
	UsageCount int    `json:"usage_count"`
}

// TopResource is a resource ranked by how many problems and solutions link it.
type TopResource struct {
	ResourceID int    `json:"resource_id"`
	Title      string `json:"title,omitempty"`
	UsageCount int    `json:"usage_count"`
}

// Dashboard is returned by GET /dashboard/{user_id}.
type Dashboard struct {
	RecentProblems  []Problem     `json:"recent_problems"`
	RecentSolutions []Solution    `json:"recent_solutions"`
	TopTags         []TopTag      `json:"top_tags"`
	TopResources    []TopResource `json:"top_resources"`
}

func (d *Dashboard) Validate() error {
	if err := ValidateAll(d.RecentProblems); err != nil {
		return fmt.Errorf("recent_problems: %w", err)
	}
	if err := ValidateAll(d.RecentSolutions); err != nil {
		return fmt.Errorf("recent_solutions: %w", err)
	}
	for _, t := range d.TopTags {
		if t.TagID <= 0 {
			return invalid("dashboard", "top tag without tag_id")
		}
	}
	for _, r := range d.TopResources {
		if r.ResourceID <= 0 {
			return invalid("dashboard", "top resource without resource_id")
		}
	}
	return nil
}

// Health is returned by GET /health.
type Health struct {
	Status string `json:"status"`
}

func (h *Health) Validate() error {
	if h.Status == "" {
		return invalid("health", "missing status")
	}
	return nil
}
