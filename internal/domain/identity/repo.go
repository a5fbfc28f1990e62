package identity

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, u *AdminUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	List(ctx context.Context, limit, offset int) ([]*AdminUser, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
