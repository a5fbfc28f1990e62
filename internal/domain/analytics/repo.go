package analytics

import (
	"context"
	"time"
)

// Repository is read-only: every method is a straight aggregate query.
type Repository interface {
	Counts(ctx context.Context, now time.Time) (*Counts, error)
	StockByGroup(ctx context.Context) ([]*StockSummary, error)
	ExpiringBefore(ctx context.Context, cutoff time.Time) ([]*ExpiringSpecimen, error)
	// DonationTrend buckets donation transactions by calendar month,
	// oldest first, from the given instant forward.
	DonationTrend(ctx context.Context, from time.Time) ([]*TrendBucket, error)
}
