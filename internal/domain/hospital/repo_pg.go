package hospital

import (
	"context"
	"errors"
	"fmt"

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

const cols = `id, name, phone, email, password_hash, city, address, needed_blood_group, is_approved, created_at`

func scan(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Phone, &h.Email, &h.PasswordHash, &h.City, &h.Address,
		&h.NeededBloodGroup, &h.IsApproved, &h.CreatedAt)
	return &h, err
}

func (r *repoPG) Create(ctx context.Context, h *Hospital) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospital (id, name, phone, email, password_hash, city, address, needed_blood_group, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		h.ID, h.Name, h.Phone, h.Email, h.PasswordHash, h.City, h.Address, h.NeededBloodGroup, h.IsApproved)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.Validation("a hospital with this email already exists")
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	h, err := scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM hospital WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("hospital not found")
	}
	return h, err
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Hospital, error) {
	h, err := scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM hospital WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("hospital not found")
	}
	return h, err
}

func (r *repoPG) Update(ctx context.Context, h *Hospital) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospital SET name=$2, phone=$3, email=$4, city=$5, address=$6, needed_blood_group=$7
		WHERE id = $1`,
		h.ID, h.Name, h.Phone, h.Email, h.City, h.Address, h.NeededBloodGroup)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("hospital not found")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM hospital WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("hospital not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, approved *bool, limit, offset int) ([]*Hospital, int, error) {
	where := ``
	var args []interface{}
	idx := 1
	if approved != nil {
		where = fmt.Sprintf(` WHERE is_approved = $%d`, idx)
		args = append(args, *approved)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM hospital`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + cols + ` FROM hospital` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Hospital
	for rows.Next() {
		h, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, h)
	}
	return items, total, rows.Err()
}

func (r *repoPG) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE hospital SET is_approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("hospital not found")
	}
	return nil
}
