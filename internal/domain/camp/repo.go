package camp

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Camp) error
	GetByID(ctx context.Context, id uuid.UUID) (*Camp, error)
	Update(ctx context.Context, c *Camp) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Camp, int, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]*Camp, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// IncrementRegistered bumps the walk-in registration counter.
	IncrementRegistered(ctx context.Context, id uuid.UUID) error
}
