package donor

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(d *Donor) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return httpx.Validation("name is required")
	}
	if d.Age < 18 || d.Age > 65 {
		return httpx.Validation("donor age must be between 18 and 65")
	}
	if d.Sex != "M" && d.Sex != "F" {
		return httpx.Validation("sex must be M or F")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return httpx.Validation("phone is required")
	}
	if !d.BloodGroup.Valid() {
		return httpx.Validation("invalid blood group: %s", d.BloodGroup)
	}
	if strings.TrimSpace(d.City) == "" {
		return httpx.Validation("city is required")
	}
	return nil
}

func (s *Service) Register(ctx context.Context, d *Donor) error {
	if err := s.validate(d); err != nil {
		return err
	}
	d.ID = uuid.New()
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Donor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, d *Donor) error {
	if err := s.validate(d); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Donor, int, error) {
	if filter.BloodGroup != "" && !filter.BloodGroup.Valid() {
		return nil, 0, httpx.Validation("invalid blood group: %s", filter.BloodGroup)
	}
	return s.repo.List(ctx, filter, limit, offset)
}

// Compatible lists donors whose blood can be transfused to a patient of the
// given group.
func (s *Service) Compatible(ctx context.Context, group blood.Group) ([]*Donor, error) {
	if !group.Valid() {
		return nil, httpx.Validation("invalid blood group: %s", group)
	}
	donors := blood.CompatibleDonors(group)
	groups := make([]string, len(donors))
	for i, g := range donors {
		groups[i] = string(g)
	}
	return s.repo.ListByGroups(ctx, groups)
}
