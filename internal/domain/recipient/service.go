package recipient

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(rec *Recipient) error {
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.Name == "" {
		return httpx.Validation("name is required")
	}
	if rec.Age <= 0 {
		return httpx.Validation("age must be positive")
	}
	if rec.Sex != "M" && rec.Sex != "F" {
		return httpx.Validation("sex must be M or F")
	}
	if strings.TrimSpace(rec.Phone) == "" {
		return httpx.Validation("phone is required")
	}
	if !rec.BloodGroup.Valid() {
		return httpx.Validation("invalid blood group: %s", rec.BloodGroup)
	}
	if rec.Quantity <= 0 {
		return httpx.Validation("quantity must be positive")
	}
	if strings.TrimSpace(rec.City) == "" {
		return httpx.Validation("city is required")
	}
	return nil
}

func (s *Service) Register(ctx context.Context, rec *Recipient) error {
	if rec.Quantity == 0 {
		rec.Quantity = 1
	}
	if err := s.validate(rec); err != nil {
		return err
	}
	rec.ID = uuid.New()
	return s.repo.Create(ctx, rec)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Recipient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, rec *Recipient) error {
	if err := s.validate(rec); err != nil {
		return err
	}
	return s.repo.Update(ctx, rec)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Recipient, int, error) {
	return s.repo.List(ctx, limit, offset)
}
