package request

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	// TransitionStatus moves a request from one status to another with a
	// conditional update, reporting whether the row actually changed. A false
	// return means the request was no longer in the from status.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to string, notes, respondedBy *string) (bool, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Request, int, error)
	// Stats aggregates counts by status. A zero hospitalID covers all hospitals.
	Stats(ctx context.Context, hospitalID uuid.UUID) (*Stats, error)
}
