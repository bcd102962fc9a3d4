package pages

import (
	"context"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/repositories"
	"github.com/desertthunder/solvex/internal/services"
)

// Dashboard shows the signed-in user's statistics.
type Dashboard struct {
	view
	dashboard services.DashboardService
	sessions  repositories.SessionStore
	data      *models.Dashboard
}

func NewDashboard(dashboard services.DashboardService, sessions repositories.SessionStore) *Dashboard {
	return &Dashboard{dashboard: dashboard, sessions: sessions}
}

func (d *Dashboard) Load(ctx context.Context) error {
	tok := d.start()

	data, err := func() (*models.Dashboard, error) {
		user, err := CurrentUser(ctx, d.sessions)
		if err != nil {
			return nil, err
		}
		return d.dashboard.Get(ctx, user.UserID)
	}()

	if !d.finish(tok) {
		return ErrStale
	}
	defer d.mu.Unlock()

	if err != nil {
		d.fail(err)
		return err
	}
	d.data = data
	d.status = StatusReady
	return nil
}

// Data returns the loaded dashboard, or nil.
func (d *Dashboard) Data() *models.Dashboard {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data
}
