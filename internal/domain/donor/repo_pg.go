package donor

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

const cols = `id, name, age, sex, phone, blood_group, city, registered_at`

func scan(row pgx.Row) (*Donor, error) {
	var d Donor
	err := row.Scan(&d.ID, &d.Name, &d.Age, &d.Sex, &d.Phone, &d.BloodGroup, &d.City, &d.RegisteredAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Donor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO donor (id, name, age, sex, phone, blood_group, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.Name, d.Age, d.Sex, d.Phone, d.BloodGroup, d.City)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Donor, error) {
	d, err := scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM donor WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("donor not found")
	}
	return d, err
}

func (r *repoPG) Update(ctx context.Context, d *Donor) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE donor SET name=$2, age=$3, sex=$4, phone=$5, blood_group=$6, city=$7
		WHERE id = $1`,
		d.ID, d.Name, d.Age, d.Sex, d.Phone, d.BloodGroup, d.City)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("donor not found")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM donor WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("donor not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filter Filter, limit, offset int) ([]*Donor, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.BloodGroup != "" {
		where += fmt.Sprintf(` AND blood_group = $%d`, idx)
		args = append(args, filter.BloodGroup)
		idx++
	}
	if filter.City != "" {
		where += fmt.Sprintf(` AND city ILIKE $%d`, idx)
		args = append(args, filter.City)
		idx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM donor`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + cols + ` FROM donor` + where +
		fmt.Sprintf(` ORDER BY registered_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Donor
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByGroups(ctx context.Context, groups []string) ([]*Donor, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM donor WHERE blood_group = ANY($1)`, groups)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Donor
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
