package hospital

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	GetByEmail(ctx context.Context, email string) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, approved *bool, limit, offset int) ([]*Hospital, int, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
}
