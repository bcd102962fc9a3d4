package services

import (
	"context"

	"github.com/desertthunder/solvex/internal/models"
)

// TagsAPI implements [TagService].
type TagsAPI struct {
	client *Client
}

func NewTagsAPI(c *Client) *TagsAPI { return &TagsAPI{client: c} }

// List calls GET /tags.
func (t *TagsAPI) List(ctx context.Context) ([]models.Tag, error) {
	return getList[models.Tag](ctx, t.client, "/tags")
}
