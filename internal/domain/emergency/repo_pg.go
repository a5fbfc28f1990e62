package emergency

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/platform/db"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const cols = `id, hospital_id, hospital_name, blood_group, units_needed, urgency_level,
	patient_condition, address, latitude, longitude, donors_notified, response_count,
	status, expires_at, created_at`

func scan(row pgx.Row) (*Emergency, error) {
	var e Emergency
	err := row.Scan(&e.ID, &e.HospitalID, &e.HospitalName, &e.BloodGroup, &e.UnitsNeeded, &e.UrgencyLevel,
		&e.PatientCondition, &e.Address, &e.Latitude, &e.Longitude, &e.DonorsNotified, &e.ResponseCount,
		&e.Status, &e.ExpiresAt, &e.CreatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Emergency) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO emergency_request (id, hospital_id, hospital_name, blood_group, units_needed,
			urgency_level, patient_condition, address, latitude, longitude, donors_notified, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.ID, e.HospitalID, e.HospitalName, e.BloodGroup, e.UnitsNeeded,
		e.UrgencyLevel, e.PatientCondition, e.Address, e.Latitude, e.Longitude,
		e.DonorsNotified, e.Status, e.ExpiresAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Emergency, error) {
	e, err := scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM emergency_request WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("emergency not found")
	}
	return e, err
}

func (r *repoPG) ListActive(ctx context.Context, now time.Time) ([]*Emergency, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM emergency_request
		WHERE status = 'active' AND expires_at > $1
		ORDER BY created_at DESC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Emergency
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Emergency, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM emergency_request`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM emergency_request ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Emergency
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE emergency_request SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("emergency not found")
	}
	return nil
}

func (r *repoPG) SetDonorsNotified(ctx context.Context, id uuid.UUID, count int) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE emergency_request SET donors_notified = $2 WHERE id = $1`, id, count)
	return err
}

// AddResponse leans on the (emergency_id, donor_id) primary key: the insert
// and counter update commit together, and a duplicate response is reported
// rather than counted twice.
func (r *repoPG) AddResponse(ctx context.Context, emergencyID, donorID uuid.UUID) (bool, error) {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO emergency_response (emergency_id, donor_id) VALUES ($1, $2)`,
		emergencyID, donorID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	_, err = r.conn(ctx).Exec(ctx, `
		UPDATE emergency_request SET response_count = response_count + 1 WHERE id = $1`, emergencyID)
	return true, err
}

func (r *repoPG) ListResponses(ctx context.Context, emergencyID uuid.UUID) ([]*Response, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT emergency_id, donor_id, responded_at FROM emergency_response
		WHERE emergency_id = $1 ORDER BY responded_at`, emergencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Response
	for rows.Next() {
		var resp Response
		if err := rows.Scan(&resp.EmergencyID, &resp.DonorID, &resp.RespondedAt); err != nil {
			return nil, err
		}
		items = append(items, &resp)
	}
	return items, rows.Err()
}
