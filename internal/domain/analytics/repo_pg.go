package analytics

import (
	"context"
	"time"

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

func (r *repoPG) Counts(ctx context.Context, now time.Time) (*Counts, error) {
	var c Counts
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM donor),
			(SELECT COUNT(*) FROM recipient),
			(SELECT COUNT(*) FROM hospital WHERE is_approved),
			(SELECT COUNT(*) FROM hospital WHERE NOT is_approved),
			(SELECT COUNT(*) FROM emergency_request WHERE status = 'active' AND expires_at > $1),
			(SELECT COUNT(*) FROM hospital_request WHERE status = 'pending'),
			(SELECT COUNT(*) FROM donation_camp WHERE status = 'upcoming' AND camp_date >= $1)`,
		now).
		Scan(&c.Donors, &c.Recipients, &c.Hospitals, &c.PendingHospitals,
			&c.ActiveEmergencies, &c.PendingRequests, &c.UpcomingCamps)
	return &c, err
}

func (r *repoPG) StockByGroup(ctx context.Context) ([]*StockSummary, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT blood_group, units FROM blood_stock ORDER BY blood_group`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*StockSummary
	for rows.Next() {
		var s StockSummary
		if err := rows.Scan(&s.BloodGroup, &s.Units); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

func (r *repoPG) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]*ExpiringSpecimen, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT specimen_number, blood_group, expiry_date
		FROM blood_specimen
		WHERE status = 'available' AND expiry_date <= $1
		ORDER BY expiry_date ASC`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ExpiringSpecimen
	for rows.Next() {
		var e ExpiringSpecimen
		if err := rows.Scan(&e.SpecimenNumber, &e.BloodGroup, &e.ExpiryDate); err != nil {
			return nil, err
		}
		items = append(items, &e)
	}
	return items, rows.Err()
}

func (r *repoPG) DonationTrend(ctx context.Context, from time.Time) ([]*TrendBucket, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM'), COUNT(*)
		FROM reward_transaction
		WHERE type = 'donation' AND created_at >= $1
		GROUP BY 1 ORDER BY 1`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*TrendBucket
	for rows.Next() {
		var b TrendBucket
		if err := rows.Scan(&b.Month, &b.Donations); err != nil {
			return nil, err
		}
		items = append(items, &b)
	}
	return items, rows.Err()
}
