package rewards

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const profileCols = `donor_id, total_points, total_donations, emergency_responses, lives_saved,
	current_streak, longest_streak, rank, last_donation_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.DonorID, &p.TotalPoints, &p.TotalDonations, &p.EmergencyResponses, &p.LivesSaved,
		&p.CurrentStreak, &p.LongestStreak, &p.Rank, &p.LastDonationAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) GetProfile(ctx context.Context, donorID uuid.UUID) (*Profile, error) {
	p, err := scanProfile(r.conn(ctx).QueryRow(ctx,
		`SELECT `+profileCols+` FROM donor_reward WHERE donor_id = $1`, donorID))
	if errors.Is(err, pgx.ErrNoRows) {
		_, err = r.conn(ctx).Exec(ctx, `
			INSERT INTO donor_reward (donor_id, rank) VALUES ($1, $2)
			ON CONFLICT (donor_id) DO NOTHING`, donorID, RankBeginner)
		if err != nil {
			return nil, err
		}
		return scanProfile(r.conn(ctx).QueryRow(ctx,
			`SELECT `+profileCols+` FROM donor_reward WHERE donor_id = $1`, donorID))
	}
	return p, err
}

func (r *repoPG) SaveProfile(ctx context.Context, p *Profile) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE donor_reward
		SET total_points = $2, total_donations = $3, emergency_responses = $4, lives_saved = $5,
		    current_streak = $6, longest_streak = $7, rank = $8, last_donation_at = $9, updated_at = NOW()
		WHERE donor_id = $1`,
		p.DonorID, p.TotalPoints, p.TotalDonations, p.EmergencyResponses, p.LivesSaved,
		p.CurrentStreak, p.LongestStreak, p.Rank, p.LastDonationAt)
	return err
}

func (r *repoPG) AddTransaction(ctx context.Context, t *Transaction) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO reward_transaction (id, donor_id, type, points, description)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.DonorID, t.Type, t.Points, t.Description)
	return err
}

func (r *repoPG) ListTransactions(ctx context.Context, donorID uuid.UUID, limit int) ([]*Transaction, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, donor_id, type, points, description, created_at
		FROM reward_transaction WHERE donor_id = $1
		ORDER BY created_at DESC LIMIT $2`, donorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.DonorID, &t.Type, &t.Points, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &t)
	}
	return items, rows.Err()
}

func (r *repoPG) AwardBadge(ctx context.Context, b *Badge) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO reward_badge (id, donor_id, name, level, icon)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (donor_id, name) DO NOTHING`,
		b.ID, b.DonorID, b.Name, b.Level, b.Icon)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) ListBadges(ctx context.Context, donorID uuid.UUID) ([]*Badge, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, donor_id, name, level, icon, awarded_at
		FROM reward_badge WHERE donor_id = $1
		ORDER BY awarded_at ASC`, donorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Badge
	for rows.Next() {
		var b Badge
		if err := rows.Scan(&b.ID, &b.DonorID, &b.Name, &b.Level, &b.Icon, &b.AwardedAt); err != nil {
			return nil, err
		}
		items = append(items, &b)
	}
	return items, rows.Err()
}

// Leaderboard orders by points, breaking ties by donation count and then
// donor id so the ordering is stable across requests.
func (r *repoPG) Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT dr.donor_id, d.name, dr.total_points, dr.total_donations, dr.rank
		FROM donor_reward dr
		JOIN donor d ON d.id = dr.donor_id
		ORDER BY dr.total_points DESC, dr.total_donations DESC, dr.donor_id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.DonorID, &e.DonorName, &e.TotalPoints, &e.TotalDonations, &e.Rank); err != nil {
			return nil, err
		}
		items = append(items, &e)
	}
	return items, rows.Err()
}
