package recipient

import (
	"context"
	"errors"

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

const cols = `id, name, age, sex, phone, blood_group, quantity, city, registered_at`

func scan(row pgx.Row) (*Recipient, error) {
	var rec Recipient
	err := row.Scan(&rec.ID, &rec.Name, &rec.Age, &rec.Sex, &rec.Phone, &rec.BloodGroup, &rec.Quantity, &rec.City, &rec.RegisteredAt)
	return &rec, err
}

func (r *repoPG) Create(ctx context.Context, rec *Recipient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO recipient (id, name, age, sex, phone, blood_group, quantity, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Name, rec.Age, rec.Sex, rec.Phone, rec.BloodGroup, rec.Quantity, rec.City)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Recipient, error) {
	rec, err := scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM recipient WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("recipient not found")
	}
	return rec, err
}

func (r *repoPG) Update(ctx context.Context, rec *Recipient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE recipient SET name=$2, age=$3, sex=$4, phone=$5, blood_group=$6, quantity=$7, city=$8
		WHERE id = $1`,
		rec.ID, rec.Name, rec.Age, rec.Sex, rec.Phone, rec.BloodGroup, rec.Quantity, rec.City)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("recipient not found")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM recipient WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("recipient not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Recipient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM recipient`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM recipient ORDER BY registered_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Recipient
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}
