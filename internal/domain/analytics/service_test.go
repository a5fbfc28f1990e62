package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

type mockRepo struct {
	counts   Counts
	stock    []*StockSummary
	expiring []*ExpiringSpecimen
	trend    []*TrendBucket

	gotCutoff time.Time
	gotFrom   time.Time
}

func (m *mockRepo) Counts(_ context.Context, _ time.Time) (*Counts, error) {
	c := m.counts
	return &c, nil
}

func (m *mockRepo) StockByGroup(_ context.Context) ([]*StockSummary, error) {
	return m.stock, nil
}

func (m *mockRepo) ExpiringBefore(_ context.Context, cutoff time.Time) ([]*ExpiringSpecimen, error) {
	m.gotCutoff = cutoff
	return m.expiring, nil
}

func (m *mockRepo) DonationTrend(_ context.Context, from time.Time) ([]*TrendBucket, error) {
	m.gotFrom = from
	return m.trend, nil
}

func TestDashboard_FlagsLowStock(t *testing.T) {
	repo := &mockRepo{
		counts: Counts{Donors: 40, Hospitals: 5, PendingRequests: 3},
		stock: []*StockSummary{
			{BloodGroup: blood.OPositive, Units: 12},
			{BloodGroup: blood.ABNegative, Units: 2},
			{BloodGroup: blood.ANegative, Units: 4},
		},
	}
	svc := NewService(repo, 5, 7)

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(d.LowStock) != 2 {
		t.Fatalf("low stock = %d, want 2", len(d.LowStock))
	}
	for _, g := range d.LowStock {
		if g.Units >= 5 {
			t.Errorf("%s flagged low with %d units", g.BloodGroup, g.Units)
		}
		if !g.IsLow {
			t.Errorf("%s in low list without is_low set", g.BloodGroup)
		}
	}
	if d.Counts.Donors != 40 {
		t.Errorf("donors = %d, want 40", d.Counts.Donors)
	}
}

func TestDashboard_ExpiryWindowAndDaysLeft(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		expiring: []*ExpiringSpecimen{
			{SpecimenNumber: "SP1A2B3C4D", BloodGroup: blood.BPositive, ExpiryDate: now.Add(3 * 24 * time.Hour)},
			{SpecimenNumber: "SP5E6F7A8B", BloodGroup: blood.OPositive, ExpiryDate: now.Add(-2 * time.Hour)},
		},
	}
	svc := NewService(repo, 5, 7)
	svc.now = func() time.Time { return now }

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if want := now.Add(7 * 24 * time.Hour); !repo.gotCutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", repo.gotCutoff, want)
	}
	if d.NearExpiry[0].DaysLeft != 3 {
		t.Errorf("days left = %d, want 3", d.NearExpiry[0].DaysLeft)
	}
	if d.NearExpiry[1].DaysLeft != 0 {
		t.Errorf("already-expired days left = %d, want clamped to 0", d.NearExpiry[1].DaysLeft)
	}
}

func TestDashboard_TrendWindowIsTrailingYear(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockRepo{trend: []*TrendBucket{{Month: "2025-07", Donations: 9}}}
	svc := NewService(repo, 5, 7)
	svc.now = func() time.Time { return now }

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if want := now.AddDate(-1, 0, 0); !repo.gotFrom.Equal(want) {
		t.Errorf("trend from = %v, want %v", repo.gotFrom, want)
	}
	if len(d.DonationTrend) != 1 || d.DonationTrend[0].Donations != 9 {
		t.Errorf("trend = %+v", d.DonationTrend)
	}
}
