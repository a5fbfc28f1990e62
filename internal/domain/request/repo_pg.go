package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

const cols = `r.id, r.hospital_id, h.name, h.email, r.blood_group, r.quantity, r.urgency, r.status,
	r.reason, r.patient_details, r.required_by, r.admin_notes, r.responded_by, r.created_at, r.updated_at`

func scan(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.HospitalID, &req.HospitalName, &req.HospitalEmail,
		&req.BloodGroup, &req.Quantity, &req.Urgency, &req.Status,
		&req.Reason, &req.PatientDetails, &req.RequiredBy, &req.AdminNotes, &req.RespondedBy,
		&req.CreatedAt, &req.UpdatedAt)
	return &req, err
}

func (r *repoPG) Create(ctx context.Context, req *Request) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospital_request (id, hospital_id, blood_group, quantity, urgency, status, reason, patient_details, required_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.ID, req.HospitalID, req.BloodGroup, req.Quantity, req.Urgency, req.Status,
		req.Reason, req.PatientDetails, req.RequiredBy)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	req, err := scan(r.conn(ctx).QueryRow(ctx, `
		SELECT `+cols+` FROM hospital_request r
		JOIN hospital h ON h.id = r.hospital_id
		WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("request not found")
	}
	return req, err
}

func (r *repoPG) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string, notes, respondedBy *string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospital_request
		SET status = $3,
			admin_notes = COALESCE($4, admin_notes),
			responded_by = COALESCE($5, responded_by),
			updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, from, to, notes, respondedBy)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) List(ctx context.Context, filter Filter, limit, offset int) ([]*Request, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.HospitalID != uuid.Nil {
		where += fmt.Sprintf(` AND r.hospital_id = $%d`, idx)
		args = append(args, filter.HospitalID)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(` AND r.status = $%d`, idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Urgency != "" {
		where += fmt.Sprintf(` AND r.urgency = $%d`, idx)
		args = append(args, filter.Urgency)
		idx++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM hospital_request r` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + cols + ` FROM hospital_request r JOIN hospital h ON h.id = r.hospital_id` + where +
		fmt.Sprintf(` ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Request
	for rows.Next() {
		req, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, req)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Stats(ctx context.Context, hospitalID uuid.UUID) (*Stats, error) {
	query := `SELECT status, COUNT(*) FROM hospital_request GROUP BY status`
	args := []interface{}{}
	if hospitalID != uuid.Nil {
		query = `SELECT status, COUNT(*) FROM hospital_request WHERE hospital_id = $1 GROUP BY status`
		args = append(args, hospitalID)
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &Stats{ByStatus: make(map[string]int)}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if stats.Total > 0 {
		stats.FulfillmentRate = float64(stats.ByStatus[StatusFulfilled]) / float64(stats.Total)
	}
	return stats, nil
}
