package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

type SpecimenRepository interface {
	Create(ctx context.Context, sp *Specimen) error
	GetByID(ctx context.Context, id uuid.UUID) (*Specimen, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter SpecimenFilter, limit, offset int) ([]*Specimen, int, error)
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*Specimen, error)
}

type StockRepository interface {
	Levels(ctx context.Context) ([]*StockLevel, error)
	Level(ctx context.Context, group blood.Group) (*StockLevel, error)
	Add(ctx context.Context, group blood.Group, units int) error
	// TryDecrement atomically subtracts units if at least that many are on
	// hand, reporting whether the decrement happened.
	TryDecrement(ctx context.Context, group blood.Group, units int) (bool, error)
}
