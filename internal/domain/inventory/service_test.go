package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/ws"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

type mockSpecimenRepo struct {
	mu        sync.Mutex
	specimens map[uuid.UUID]*Specimen
}

func newMockSpecimenRepo() *mockSpecimenRepo {
	return &mockSpecimenRepo{specimens: make(map[uuid.UUID]*Specimen)}
}

func (m *mockSpecimenRepo) Create(_ context.Context, sp *Specimen) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *sp
	m.specimens[sp.ID] = &copied
	return nil
}

func (m *mockSpecimenRepo) GetByID(_ context.Context, id uuid.UUID) (*Specimen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.specimens[id]
	if !ok {
		return nil, httpx.NotFound("specimen not found")
	}
	copied := *sp
	return &copied, nil
}

func (m *mockSpecimenRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.specimens[id]
	if !ok {
		return httpx.NotFound("specimen not found")
	}
	sp.Status = status
	return nil
}

func (m *mockSpecimenRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.specimens[id]; !ok {
		return httpx.NotFound("specimen not found")
	}
	delete(m.specimens, id)
	return nil
}

func (m *mockSpecimenRepo) List(_ context.Context, filter SpecimenFilter, limit, offset int) ([]*Specimen, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Specimen
	for _, sp := range m.specimens {
		if filter.BloodGroup != "" && sp.BloodGroup != filter.BloodGroup {
			continue
		}
		if filter.Status != "" && sp.Status != filter.Status {
			continue
		}
		items = append(items, sp)
	}
	return items, len(items), nil
}

func (m *mockSpecimenRepo) ListExpiringBefore(_ context.Context, cutoff time.Time) ([]*Specimen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Specimen
	for _, sp := range m.specimens {
		if sp.Status == StatusAvailable && !sp.ExpiryDate.After(cutoff) {
			items = append(items, sp)
		}
	}
	return items, nil
}

type mockStockRepo struct {
	mu    sync.Mutex
	units map[blood.Group]int
}

func newMockStockRepo() *mockStockRepo {
	return &mockStockRepo{units: make(map[blood.Group]int)}
}

func (m *mockStockRepo) Levels(_ context.Context) ([]*StockLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var levels []*StockLevel
	for g, u := range m.units {
		levels = append(levels, &StockLevel{BloodGroup: g, Units: u})
	}
	return levels, nil
}

func (m *mockStockRepo) Level(_ context.Context, group blood.Group) (*StockLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.units[group]
	if !ok {
		return nil, httpx.NotFound("no stock row for %s", group)
	}
	return &StockLevel{BloodGroup: group, Units: u}, nil
}

func (m *mockStockRepo) Add(_ context.Context, group blood.Group, units int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[group] += units
	return nil
}

func (m *mockStockRepo) TryDecrement(_ context.Context, group blood.Group, units int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.units[group] < units {
		return false, nil
	}
	m.units[group] -= units
	return true, nil
}

func newTestService(specimens *mockSpecimenRepo, stock *mockStockRepo) *Service {
	return NewService(specimens, stock, PassthroughTx, ws.NopPublisher{}, zerolog.Nop(), 5, 7)
}

func TestAddSpecimen_CreditsStock(t *testing.T) {
	specimens := newMockSpecimenRepo()
	stock := newMockStockRepo()
	svc := newTestService(specimens, stock)

	sp := &Specimen{BloodGroup: blood.APositive}
	if err := svc.AddSpecimen(context.Background(), sp); err != nil {
		t.Fatalf("AddSpecimen: %v", err)
	}
	if sp.SpecimenNumber == "" {
		t.Error("expected a generated specimen number")
	}
	if sp.Status != StatusAvailable {
		t.Errorf("status = %s, want available", sp.Status)
	}
	if !sp.ExpiryDate.After(sp.CollectionDate) {
		t.Error("expiry should default after collection")
	}
	if stock.units[blood.APositive] != 1 {
		t.Errorf("stock = %d, want 1", stock.units[blood.APositive])
	}
}

func TestWithdraw_InsufficientStock(t *testing.T) {
	stock := newMockStockRepo()
	stock.units[blood.ONegative] = 2
	svc := newTestService(newMockSpecimenRepo(), stock)

	err := svc.Withdraw(context.Background(), blood.ONegative, 3)
	if !httpx.IsKind(err, httpx.KindInsufficientStock) {
		t.Fatalf("err = %v, want insufficient stock", err)
	}
	if stock.units[blood.ONegative] != 2 {
		t.Errorf("stock = %d, want untouched 2", stock.units[blood.ONegative])
	}
}

func TestWithdraw_NeverGoesNegative(t *testing.T) {
	stock := newMockStockRepo()
	stock.units[blood.BPositive] = 5
	svc := newTestService(newMockSpecimenRepo(), stock)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Withdraw(context.Background(), blood.BPositive, 1)
		}()
	}
	wg.Wait()

	if stock.units[blood.BPositive] != 0 {
		t.Errorf("stock = %d, want exactly 0 after 10 competing withdrawals of 5 units", stock.units[blood.BPositive])
	}
}

func TestUpdateSpecimenStatus_MovesStock(t *testing.T) {
	specimens := newMockSpecimenRepo()
	stock := newMockStockRepo()
	svc := newTestService(specimens, stock)

	sp := &Specimen{BloodGroup: blood.ABNegative}
	if err := svc.AddSpecimen(context.Background(), sp); err != nil {
		t.Fatalf("AddSpecimen: %v", err)
	}

	if _, err := svc.UpdateSpecimenStatus(context.Background(), sp.ID, StatusReserved); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if stock.units[blood.ABNegative] != 0 {
		t.Errorf("stock after reserve = %d, want 0", stock.units[blood.ABNegative])
	}

	if _, err := svc.UpdateSpecimenStatus(context.Background(), sp.ID, StatusAvailable); err != nil {
		t.Fatalf("release: %v", err)
	}
	if stock.units[blood.ABNegative] != 1 {
		t.Errorf("stock after release = %d, want 1", stock.units[blood.ABNegative])
	}
}

func TestLevels_FlagsLowStock(t *testing.T) {
	stock := newMockStockRepo()
	stock.units[blood.OPositive] = 3
	stock.units[blood.APositive] = 12
	svc := newTestService(newMockSpecimenRepo(), stock)

	levels, err := svc.Levels(context.Background())
	if err != nil {
		t.Fatalf("Levels: %v", err)
	}
	for _, l := range levels {
		wantLow := l.BloodGroup == blood.OPositive
		if l.IsLow != wantLow {
			t.Errorf("%s IsLow = %v, want %v", l.BloodGroup, l.IsLow, wantLow)
		}
	}
}

func TestExpiringSoon(t *testing.T) {
	specimens := newMockSpecimenRepo()
	svc := newTestService(specimens, newMockStockRepo())

	soon := &Specimen{BloodGroup: blood.APositive, ExpiryDate: time.Now().AddDate(0, 0, 2), CollectionDate: time.Now().AddDate(0, 0, -40)}
	later := &Specimen{BloodGroup: blood.APositive, ExpiryDate: time.Now().AddDate(0, 0, 30), CollectionDate: time.Now().AddDate(0, 0, -12)}
	for _, sp := range []*Specimen{soon, later} {
		if err := svc.AddSpecimen(context.Background(), sp); err != nil {
			t.Fatalf("AddSpecimen: %v", err)
		}
	}

	items, err := svc.ExpiringSoon(context.Background())
	if err != nil {
		t.Fatalf("ExpiringSoon: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d expiring specimens, want 1", len(items))
	}
	if items[0].ID != soon.ID {
		t.Error("wrong specimen flagged as expiring")
	}
}
