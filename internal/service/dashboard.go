package service

import (
	"context"
	"time"

	"github.com/kapilraj/pos-backend/internal/repo"
	"github.com/kapilraj/pos-backend/internal/transport"
)

type DashboardService struct {
	Repo *repo.GormRepo
}

func NewDashboardService(r *repo.GormRepo) *DashboardService {
	return &DashboardService{Repo: r}
}

// Summary aggregates the given calendar day, [midnight, next midnight) in
// the date's location, plus the ten most recent orders overall.
func (s *DashboardService) Summary(ctx context.Context, date time.Time) (*transport.DashboardResponse, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)

	sales, err := s.Repo.SumSalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	count, err := s.Repo.CountOrdersBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.LatestOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, err
	}

	return &transport.DashboardResponse{
		TodaySales:      sales,
		TodayOrderCount: count,
		RecentOrders:    recent,
	}, nil
}
