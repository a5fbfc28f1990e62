package recipient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Recipient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Recipient, error)
	Update(ctx context.Context, r *Recipient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Recipient, int, error)
}
