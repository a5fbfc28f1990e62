package donor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Donor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Donor, error)
	Update(ctx context.Context, d *Donor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Donor, int, error)
	ListByGroups(ctx context.Context, groups []string) ([]*Donor, error)
}
