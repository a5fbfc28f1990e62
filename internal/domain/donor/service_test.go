package donor

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

type mockRepo struct {
	donors map[uuid.UUID]*Donor
}

func newMockRepo() *mockRepo {
	return &mockRepo{donors: make(map[uuid.UUID]*Donor)}
}

func (m *mockRepo) Create(_ context.Context, d *Donor) error {
	copied := *d
	m.donors[d.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Donor, error) {
	d, ok := m.donors[id]
	if !ok {
		return nil, httpx.NotFound("donor not found")
	}
	return d, nil
}

func (m *mockRepo) Update(_ context.Context, d *Donor) error {
	if _, ok := m.donors[d.ID]; !ok {
		return httpx.NotFound("donor not found")
	}
	copied := *d
	m.donors[d.ID] = &copied
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.donors[id]; !ok {
		return httpx.NotFound("donor not found")
	}
	delete(m.donors, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, filter Filter, limit, offset int) ([]*Donor, int, error) {
	var items []*Donor
	for _, d := range m.donors {
		if filter.BloodGroup != "" && d.BloodGroup != filter.BloodGroup {
			continue
		}
		if filter.City != "" && !strings.EqualFold(d.City, filter.City) {
			continue
		}
		items = append(items, d)
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByGroups(_ context.Context, groups []string) ([]*Donor, error) {
	var items []*Donor
	for _, d := range m.donors {
		for _, g := range groups {
			if string(d.BloodGroup) == g {
				items = append(items, d)
				break
			}
		}
	}
	return items, nil
}

func validDonor() *Donor {
	return &Donor{
		Name:       "Rajesh Sharma",
		Age:        30,
		Sex:        "M",
		Phone:      "+91-9876543210",
		BloodGroup: blood.OPositive,
		City:       "Mumbai",
	}
}

func TestRegister(t *testing.T) {
	svc := NewService(newMockRepo())

	d := validDonor()
	if err := svc.Register(context.Background(), d); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []struct {
		name   string
		mutate func(*Donor)
	}{
		{"empty name", func(d *Donor) { d.Name = "  " }},
		{"under age", func(d *Donor) { d.Age = 17 }},
		{"over age", func(d *Donor) { d.Age = 66 }},
		{"bad sex", func(d *Donor) { d.Sex = "X" }},
		{"missing phone", func(d *Donor) { d.Phone = "" }},
		{"bad group", func(d *Donor) { d.BloodGroup = "Z+" }},
		{"missing city", func(d *Donor) { d.City = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDonor()
			tc.mutate(d)
			err := svc.Register(context.Background(), d)
			if !httpx.IsKind(err, httpx.KindValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	d := validDonor()
	d.ID = uuid.New()
	err := svc.Update(context.Background(), d)
	if !httpx.IsKind(err, httpx.KindNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestList_RejectsInvalidGroupFilter(t *testing.T) {
	svc := NewService(newMockRepo())

	_, _, err := svc.List(context.Background(), Filter{BloodGroup: "Q-"}, 20, 0)
	if !httpx.IsKind(err, httpx.KindValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestCompatible(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	groups := []blood.Group{blood.ONegative, blood.ONegative, blood.APositive, blood.ABPositive}
	for i, g := range groups {
		d := validDonor()
		d.ID = uuid.New()
		d.BloodGroup = g
		d.Name = d.Name + string(rune('A'+i))
		repo.donors[d.ID] = d
	}

	// O- patients can only receive O-.
	donors, err := svc.Compatible(context.Background(), blood.ONegative)
	if err != nil {
		t.Fatalf("Compatible: %v", err)
	}
	if len(donors) != 2 {
		t.Errorf("got %d donors for O- patient, want 2", len(donors))
	}

	// AB+ patients can receive from everyone.
	donors, err = svc.Compatible(context.Background(), blood.ABPositive)
	if err != nil {
		t.Fatalf("Compatible: %v", err)
	}
	if len(donors) != len(groups) {
		t.Errorf("got %d donors for AB+ patient, want %d", len(donors), len(groups))
	}
}
