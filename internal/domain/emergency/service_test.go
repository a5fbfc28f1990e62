package emergency

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/domain/donor"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/notify"
	"github.com/bloodlink/bloodlink/internal/platform/ws"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

type mockRepo struct {
	mu          sync.Mutex
	emergencies map[uuid.UUID]*Emergency
	responses   map[uuid.UUID]map[uuid.UUID]bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		emergencies: make(map[uuid.UUID]*Emergency),
		responses:   make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (m *mockRepo) Create(_ context.Context, e *Emergency) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *e
	m.emergencies[e.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Emergency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.emergencies[id]
	if !ok {
		return nil, httpx.NotFound("emergency not found")
	}
	copied := *e
	return &copied, nil
}

func (m *mockRepo) ListActive(_ context.Context, now time.Time) ([]*Emergency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Emergency
	for _, e := range m.emergencies {
		if e.Status == StatusActive && e.ExpiresAt.After(now) {
			items = append(items, e)
		}
	}
	return items, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Emergency, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Emergency
	for _, e := range m.emergencies {
		items = append(items, e)
	}
	return items, len(items), nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.emergencies[id]
	if !ok {
		return httpx.NotFound("emergency not found")
	}
	e.Status = status
	return nil
}

func (m *mockRepo) SetDonorsNotified(_ context.Context, id uuid.UUID, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.emergencies[id]; ok {
		e.DonorsNotified = count
	}
	return nil
}

func (m *mockRepo) AddResponse(_ context.Context, emergencyID, donorID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.responses[emergencyID] == nil {
		m.responses[emergencyID] = make(map[uuid.UUID]bool)
	}
	if m.responses[emergencyID][donorID] {
		return false, nil
	}
	m.responses[emergencyID][donorID] = true
	m.emergencies[emergencyID].ResponseCount++
	return true, nil
}

func (m *mockRepo) ListResponses(_ context.Context, emergencyID uuid.UUID) ([]*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Response
	for donorID := range m.responses[emergencyID] {
		items = append(items, &Response{EmergencyID: emergencyID, DonorID: donorID})
	}
	return items, nil
}

type mockDonorFinder struct {
	donors []*donor.Donor
}

func (m *mockDonorFinder) Compatible(_ context.Context, _ blood.Group) ([]*donor.Donor, error) {
	return m.donors, nil
}

type mockRewardSink struct {
	mu      sync.Mutex
	credits []uuid.UUID
}

func (m *mockRewardSink) RecordEmergencyResponse(_ context.Context, donorID uuid.UUID, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credits = append(m.credits, donorID)
	return nil
}

func newTestService(repo *mockRepo, finder *mockDonorFinder, rewards *mockRewardSink) (*Service, *notify.MockSMSSender) {
	sms := &notify.MockSMSSender{}
	engine := notify.NewEngine(&notify.MockEmailSender{}, sms, notify.NewTemplateEngine())
	svc := NewService(repo, finder, rewards, PassthroughTx, engine, ws.NopPublisher{}, zerolog.Nop(), 2*time.Hour)
	return svc, sms
}

func broadcast(t *testing.T, svc *Service) *Emergency {
	t.Helper()
	e := &Emergency{
		BloodGroup:       blood.ONegative,
		UnitsNeeded:      3,
		UrgencyLevel:     UrgencyCritical,
		PatientCondition: "Road accident victim",
	}
	if err := svc.Broadcast(context.Background(), uuid.New(), "City General Hospital", e); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	return e
}

func TestBroadcast_AlertsCompatibleDonors(t *testing.T) {
	finder := &mockDonorFinder{donors: []*donor.Donor{
		{ID: uuid.New(), Name: "A", Phone: "+91-9000000001", BloodGroup: blood.ONegative},
		{ID: uuid.New(), Name: "B", Phone: "+91-9000000002", BloodGroup: blood.ONegative},
	}}
	svc, sms := newTestService(newMockRepo(), finder, &mockRewardSink{})

	e := broadcast(t, svc)
	if e.Status != StatusActive {
		t.Errorf("status = %s, want active", e.Status)
	}
	if e.DonorsNotified != 2 {
		t.Errorf("donors notified = %d, want 2", e.DonorsNotified)
	}
	if len(sms.Calls()) != 2 {
		t.Errorf("sms sent = %d, want 2", len(sms.Calls()))
	}
	if e.ExpiresAt.Before(time.Now().Add(time.Hour)) {
		t.Error("expiry should be roughly two hours out")
	}
}

func TestBroadcast_Validation(t *testing.T) {
	svc, _ := newTestService(newMockRepo(), &mockDonorFinder{}, &mockRewardSink{})

	err := svc.Broadcast(context.Background(), uuid.New(), "H", &Emergency{BloodGroup: "X", UnitsNeeded: 1})
	if !httpx.IsKind(err, httpx.KindValidation) {
		t.Errorf("bad group: err = %v, want validation", err)
	}

	err = svc.Broadcast(context.Background(), uuid.New(), "H", &Emergency{BloodGroup: blood.APositive, UnitsNeeded: 0})
	if !httpx.IsKind(err, httpx.KindValidation) {
		t.Errorf("zero units: err = %v, want validation", err)
	}

	err = svc.Broadcast(context.Background(), uuid.New(), "H", &Emergency{BloodGroup: blood.APositive, UnitsNeeded: 1, UrgencyLevel: "routine"})
	if !httpx.IsKind(err, httpx.KindValidation) {
		t.Errorf("routine urgency: err = %v, want validation", err)
	}
}

func TestRespond_IdempotentAndRewarded(t *testing.T) {
	repo := newMockRepo()
	rewards := &mockRewardSink{}
	svc, _ := newTestService(repo, &mockDonorFinder{}, rewards)

	e := broadcast(t, svc)
	donorID := uuid.New()

	_, added, err := svc.Respond(context.Background(), e.ID, donorID)
	if err != nil {
		t.Fatalf("first Respond: %v", err)
	}
	if !added {
		t.Fatal("first response should be recorded")
	}

	got, added, err := svc.Respond(context.Background(), e.ID, donorID)
	if err != nil {
		t.Fatalf("second Respond: %v", err)
	}
	if added {
		t.Error("second response should be a no-op")
	}
	if got.ResponseCount != 1 {
		t.Errorf("response count = %d, want 1", got.ResponseCount)
	}
	if len(rewards.credits) != 1 {
		t.Errorf("reward credits = %d, want 1", len(rewards.credits))
	}
}

func TestRespond_ExpiredEmergency(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo, &mockDonorFinder{}, &mockRewardSink{})

	e := broadcast(t, svc)
	svc.now = func() time.Time { return time.Now().Add(3 * time.Hour) }

	_, _, err := svc.Respond(context.Background(), e.ID, uuid.New())
	if !httpx.IsKind(err, httpx.KindInvalidState) {
		t.Errorf("err = %v, want invalid state", err)
	}
}

func TestGetActive_ExcludesExpired(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo, &mockDonorFinder{}, &mockRewardSink{})

	broadcast(t, svc)
	broadcast(t, svc)

	active, err := svc.GetActive(context.Background())
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active = %d, want 2", len(active))
	}

	// Jump past the deadline: the feed empties without any status write.
	svc.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
	active, err = svc.GetActive(context.Background())
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active = %d, want 0 after expiry", len(active))
	}
}

func TestGet_PresentsLapsedAsExpired(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo, &mockDonorFinder{}, &mockRewardSink{})

	e := broadcast(t, svc)
	svc.now = func() time.Time { return time.Now().Add(3 * time.Hour) }

	got, err := svc.Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusExpired {
		t.Errorf("status = %s, want expired", got.Status)
	}
}

func TestUpdateStatus_OwnerScoping(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo, &mockDonorFinder{}, &mockRewardSink{})

	owner := uuid.New()
	e := &Emergency{BloodGroup: blood.APositive, UnitsNeeded: 2}
	if err := svc.Broadcast(context.Background(), owner, "H", e); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	_, err := svc.UpdateStatus(context.Background(), e.ID, StatusResolved, uuid.New())
	if !httpx.IsKind(err, httpx.KindPermission) {
		t.Fatalf("stranger resolve: err = %v, want permission", err)
	}

	resolved, err := svc.UpdateStatus(context.Background(), e.ID, StatusResolved, owner)
	if err != nil {
		t.Fatalf("owner resolve: %v", err)
	}
	if resolved.Status != StatusResolved {
		t.Errorf("status = %s, want resolved", resolved.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), e.ID, StatusCancelled, uuid.Nil)
	if !httpx.IsKind(err, httpx.KindInvalidState) {
		t.Errorf("resolve again: err = %v, want invalid state", err)
	}
}
