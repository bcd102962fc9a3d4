package models

import "strings"

// Tag classifies problems and resources.
type Tag struct {
	TagID       int    `json:"tag_id"`
	TagName     string `json:"tag_name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

func (t *Tag) Validate() error {
	switch {
	case t.TagID <= 0:
		return invalid("tag", "missing tag_id")
	case strings.TrimSpace(t.TagName) == "":
		return invalid("tag", "tag %d has no name", t.TagID)
	}
	return nil
}
