package analytics

import (
	"context"
	"time"
)

type Service struct {
	repo              Repository
	lowStockThreshold int
	expiryWindow      time.Duration
	now               func() time.Time
}

func NewService(repo Repository, lowStockThreshold, expiryWindowDays int) *Service {
	return &Service{
		repo:              repo,
		lowStockThreshold: lowStockThreshold,
		expiryWindow:      time.Duration(expiryWindowDays) * 24 * time.Hour,
		now:               time.Now,
	}
}

// Dashboard assembles the admin overview. Nothing is cached; the queries
// are cheap enough to run on every load.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()

	counts, err := s.repo.Counts(ctx, now)
	if err != nil {
		return nil, err
	}
	stock, err := s.repo.StockByGroup(ctx)
	if err != nil {
		return nil, err
	}
	var low []*StockSummary
	for _, g := range stock {
		g.IsLow = g.Units < s.lowStockThreshold
		if g.IsLow {
			low = append(low, g)
		}
	}

	cutoff := now.Add(s.expiryWindow)
	expiring, err := s.repo.ExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	for _, e := range expiring {
		e.DaysLeft = int(e.ExpiryDate.Sub(now).Hours() / 24)
		if e.DaysLeft < 0 {
			e.DaysLeft = 0
		}
	}

	trend, err := s.repo.DonationTrend(ctx, now.AddDate(-1, 0, 0))
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Counts:        *counts,
		Stock:         stock,
		LowStock:      low,
		NearExpiry:    expiring,
		DonationTrend: trend,
		GeneratedAt:   now,
	}, nil
}
