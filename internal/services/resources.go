package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/solvex/internal/models"
)

// ResourcesAPI implements [ResourceService].
type ResourcesAPI struct {
	client *Client
}

func NewResourcesAPI(c *Client) *ResourcesAPI { return &ResourcesAPI{client: c} }

// List calls GET /resources?tag=&min_score=&keyword=.
func (r *ResourcesAPI) List(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error) {
	return getList[models.Resource](ctx, r.client, withQuery("/resources", filter.Query().Encode()))
}

// Get calls GET /resources/{id}.
func (r *ResourcesAPI) Get(ctx context.Context, resourceID int) (*models.ResourceDetail, error) {
	var detail models.ResourceDetail
	if err := r.client.Do(ctx, http.MethodGet, fmt.Sprintf("/resources/%d", resourceID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Visit records a visit and returns the updated resource.
//
// Calls POST /resources/{id}/visit.
func (r *ResourcesAPI) Visit(ctx context.Context, resourceID int) (*models.Resource, error) {
	var resource models.Resource
	if err := r.client.Do(ctx, http.MethodPost, fmt.Sprintf("/resources/%d/visit", resourceID), nil, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}
