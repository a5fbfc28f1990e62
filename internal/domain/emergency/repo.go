package emergency

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Emergency) error
	GetByID(ctx context.Context, id uuid.UUID) (*Emergency, error)
	// ListActive returns broadcasts that are active and unexpired as of now.
	ListActive(ctx context.Context, now time.Time) ([]*Emergency, error)
	List(ctx context.Context, limit, offset int) ([]*Emergency, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetDonorsNotified(ctx context.Context, id uuid.UUID, count int) error
	// AddResponse records a donor response, reporting false when the donor
	// already responded to this emergency.
	AddResponse(ctx context.Context, emergencyID, donorID uuid.UUID) (bool, error)
	ListResponses(ctx context.Context, emergencyID uuid.UUID) ([]*Response, error)
}
