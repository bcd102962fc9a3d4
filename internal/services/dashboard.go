package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/solvex/internal/models"
)

// DashboardAPI implements [DashboardService].
type DashboardAPI struct {
	client *Client
}

func NewDashboardAPI(c *Client) *DashboardAPI { return &DashboardAPI{client: c} }

// Get calls GET /dashboard/{user_id}.
func (d *DashboardAPI) Get(ctx context.Context, userID int) (*models.Dashboard, error) {
	var dash models.Dashboard
	if err := d.client.Do(ctx, http.MethodGet, fmt.Sprintf("/dashboard/%d", userID), nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// Health calls GET /health.
func (d *DashboardAPI) Health(ctx context.Context) (*models.Health, error) {
	var health models.Health
	if err := d.client.Do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
