package rewards

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/ws"
)

type mockRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*Profile
	txns     []*Transaction
	badges   map[uuid.UUID]map[string]*Badge
	names    map[uuid.UUID]string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		profiles: make(map[uuid.UUID]*Profile),
		badges:   make(map[uuid.UUID]map[string]*Badge),
		names:    make(map[uuid.UUID]string),
	}
}

func (m *mockRepo) GetProfile(_ context.Context, donorID uuid.UUID) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[donorID]
	if !ok {
		p = &Profile{DonorID: donorID, Rank: RankBeginner}
		m.profiles[donorID] = p
	}
	copied := *p
	return &copied, nil
}

func (m *mockRepo) SaveProfile(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *p
	m.profiles[p.DonorID] = &copied
	return nil
}

func (m *mockRepo) AddTransaction(_ context.Context, t *Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns = append(m.txns, t)
	return nil
}

func (m *mockRepo) ListTransactions(_ context.Context, donorID uuid.UUID, limit int) ([]*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Transaction
	for _, t := range m.txns {
		if t.DonorID == donorID && len(items) < limit {
			items = append(items, t)
		}
	}
	return items, nil
}

func (m *mockRepo) AwardBadge(_ context.Context, b *Badge) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.badges[b.DonorID] == nil {
		m.badges[b.DonorID] = make(map[string]*Badge)
	}
	if _, ok := m.badges[b.DonorID][b.Name]; ok {
		return false, nil
	}
	m.badges[b.DonorID][b.Name] = b
	return true, nil
}

func (m *mockRepo) ListBadges(_ context.Context, donorID uuid.UUID) ([]*Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Badge
	for _, b := range m.badges[donorID] {
		items = append(items, b)
	}
	return items, nil
}

func (m *mockRepo) Leaderboard(_ context.Context, limit int) ([]*LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*LeaderboardEntry
	for id, p := range m.profiles {
		items = append(items, &LeaderboardEntry{
			DonorID:        id,
			DonorName:      m.names[id],
			TotalPoints:    p.TotalPoints,
			TotalDonations: p.TotalDonations,
			Rank:           p.Rank,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].TotalPoints != items[j].TotalPoints {
			return items[i].TotalPoints > items[j].TotalPoints
		}
		if items[i].TotalDonations != items[j].TotalDonations {
			return items[i].TotalDonations > items[j].TotalDonations
		}
		return items[i].DonorID.String() < items[j].DonorID.String()
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func testPoints() Points {
	return Points{Donation: 100, Emergency: 200, Thresholds: [4]int{100, 300, 600, 1000}}
}

func newTestService(repo *mockRepo) *Service {
	return NewService(repo, PassthroughTx, ws.NopPublisher{}, zerolog.Nop(), testPoints())
}

func TestRankFor_Monotonic(t *testing.T) {
	svc := newTestService(newMockRepo())

	cases := []struct {
		points int
		want   string
	}{
		{0, RankBeginner},
		{99, RankBeginner},
		{100, RankContributor},
		{299, RankContributor},
		{300, RankHero},
		{599, RankHero},
		{600, RankLegend},
		{999, RankLegend},
		{1000, RankLifesaver},
		{5000, RankLifesaver},
	}
	order := map[string]int{RankBeginner: 0, RankContributor: 1, RankHero: 2, RankLegend: 3, RankLifesaver: 4}

	prev := -1
	for _, tc := range cases {
		got := svc.RankFor(tc.points)
		if got != tc.want {
			t.Errorf("RankFor(%d) = %s, want %s", tc.points, got, tc.want)
		}
		if order[got] < prev {
			t.Errorf("rank regressed at %d points", tc.points)
		}
		prev = order[got]
	}
}

func TestRecordDonation_AccruesAndRanksUp(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	donorID := uuid.New()

	for i := 0; i < 3; i++ {
		if err := svc.RecordDonation(context.Background(), donorID, "Camp donation"); err != nil {
			t.Fatalf("RecordDonation: %v", err)
		}
	}

	p, _ := repo.GetProfile(context.Background(), donorID)
	if p.TotalPoints != 300 {
		t.Errorf("points = %d, want 300", p.TotalPoints)
	}
	if p.TotalDonations != 3 {
		t.Errorf("donations = %d, want 3", p.TotalDonations)
	}
	if p.LivesSaved != 9 {
		t.Errorf("lives saved = %d, want 9", p.LivesSaved)
	}
	if p.Rank != RankHero {
		t.Errorf("rank = %s, want hero", p.Rank)
	}
	if p.CurrentStreak != 3 || p.LongestStreak != 3 {
		t.Errorf("streak = %d/%d, want 3/3", p.CurrentStreak, p.LongestStreak)
	}
	if len(repo.txns) != 3 {
		t.Errorf("transactions = %d, want 3", len(repo.txns))
	}
}

func TestRecordDonation_StreakResetsAfterGap(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	donorID := uuid.New()

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	if err := svc.RecordDonation(context.Background(), donorID, "first"); err != nil {
		t.Fatal(err)
	}
	svc.now = func() time.Time { return base.Add(30 * 24 * time.Hour) }
	if err := svc.RecordDonation(context.Background(), donorID, "within window"); err != nil {
		t.Fatal(err)
	}
	svc.now = func() time.Time { return base.Add(200 * 24 * time.Hour) }
	if err := svc.RecordDonation(context.Background(), donorID, "after gap"); err != nil {
		t.Fatal(err)
	}

	p, _ := repo.GetProfile(context.Background(), donorID)
	if p.CurrentStreak != 1 {
		t.Errorf("current streak = %d, want 1 after a long gap", p.CurrentStreak)
	}
	if p.LongestStreak != 2 {
		t.Errorf("longest streak = %d, want 2", p.LongestStreak)
	}
}

func TestBadges_AwardedOnce(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	donorID := uuid.New()

	for i := 0; i < 6; i++ {
		if err := svc.RecordDonation(context.Background(), donorID, "donation"); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := svc.RecordEmergencyResponse(context.Background(), donorID, "pledge"); err != nil {
			t.Fatal(err)
		}
	}

	badges, _ := repo.ListBadges(context.Background(), donorID)
	want := map[string]bool{"First Donation": true, "Life Saver Bronze": true, "Emergency Hero": true}
	if len(badges) != len(want) {
		t.Fatalf("badges = %d, want %d", len(badges), len(want))
	}
	for _, b := range badges {
		if !want[b.Name] {
			t.Errorf("unexpected badge %q", b.Name)
		}
	}
}

func TestRecordEmergencyResponse(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	donorID := uuid.New()

	if err := svc.RecordEmergencyResponse(context.Background(), donorID, "Responded to emergency at City General"); err != nil {
		t.Fatalf("RecordEmergencyResponse: %v", err)
	}

	p, _ := repo.GetProfile(context.Background(), donorID)
	if p.TotalPoints != 200 {
		t.Errorf("points = %d, want 200", p.TotalPoints)
	}
	if p.EmergencyResponses != 1 {
		t.Errorf("responses = %d, want 1", p.EmergencyResponses)
	}
	if p.Rank != RankContributor {
		t.Errorf("rank = %s, want contributor", p.Rank)
	}
	if p.TotalDonations != 0 || p.CurrentStreak != 0 {
		t.Error("emergency response must not touch donation tallies")
	}
}

func TestRecord_NilDonor(t *testing.T) {
	svc := newTestService(newMockRepo())
	if err := svc.RecordDonation(context.Background(), uuid.Nil, "x"); !httpx.IsKind(err, httpx.KindValidation) {
		t.Errorf("err = %v, want validation", err)
	}
	if err := svc.RecordEmergencyResponse(context.Background(), uuid.Nil, "x"); !httpx.IsKind(err, httpx.KindValidation) {
		t.Errorf("err = %v, want validation", err)
	}
}

func TestLeaderboard_DeterministicTieBreak(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	repo.names[a], repo.names[b], repo.names[c] = "Asha", "Bilal", "Chitra"

	// a and b tie on points; b has more donations and must rank first.
	repo.profiles[a] = &Profile{DonorID: a, TotalPoints: 400, TotalDonations: 2, Rank: RankHero}
	repo.profiles[b] = &Profile{DonorID: b, TotalPoints: 400, TotalDonations: 4, Rank: RankHero}
	repo.profiles[c] = &Profile{DonorID: c, TotalPoints: 100, TotalDonations: 1, Rank: RankContributor}

	for i := 0; i < 5; i++ {
		items, err := svc.Leaderboard(context.Background(), 10)
		if err != nil {
			t.Fatalf("Leaderboard: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("entries = %d, want 3", len(items))
		}
		if items[0].DonorID != b || items[1].DonorID != a || items[2].DonorID != c {
			t.Fatalf("iteration %d: order = %s, %s, %s", i, items[0].DonorName, items[1].DonorName, items[2].DonorName)
		}
	}
}

func TestLeaderboard_LimitClamped(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	for i := 0; i < 15; i++ {
		id := uuid.New()
		repo.profiles[id] = &Profile{DonorID: id, TotalPoints: i, Rank: RankBeginner}
	}

	items, err := svc.Leaderboard(context.Background(), 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(items) != 10 {
		t.Errorf("entries = %d, want default 10", len(items))
	}
}
