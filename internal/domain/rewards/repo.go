package rewards

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// GetProfile returns the donor's tally, creating a zeroed row on first use.
	GetProfile(ctx context.Context, donorID uuid.UUID) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error
	AddTransaction(ctx context.Context, t *Transaction) error
	ListTransactions(ctx context.Context, donorID uuid.UUID, limit int) ([]*Transaction, error)
	// AwardBadge inserts a badge, reporting false when the donor already
	// holds one by that name.
	AwardBadge(ctx context.Context, b *Badge) (bool, error)
	ListBadges(ctx context.Context, donorID uuid.UUID) ([]*Badge, error)
	Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error)
}
