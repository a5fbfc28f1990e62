package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/platform/db"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

type specimenRepoPG struct{ pool *pgxpool.Pool }

func NewSpecimenRepoPG(pool *pgxpool.Pool) SpecimenRepository { return &specimenRepoPG{pool: pool} }

func (r *specimenRepoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const specimenCols = `id, specimen_number, blood_group, status, collection_date, expiry_date, created_at`

func scanSpecimen(row pgx.Row) (*Specimen, error) {
	var sp Specimen
	err := row.Scan(&sp.ID, &sp.SpecimenNumber, &sp.BloodGroup, &sp.Status, &sp.CollectionDate, &sp.ExpiryDate, &sp.CreatedAt)
	return &sp, err
}

func (r *specimenRepoPG) Create(ctx context.Context, sp *Specimen) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_specimen (id, specimen_number, blood_group, status, collection_date, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sp.ID, sp.SpecimenNumber, sp.BloodGroup, sp.Status, sp.CollectionDate, sp.ExpiryDate)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.Validation("specimen number %s already exists", sp.SpecimenNumber)
	}
	return err
}

func (r *specimenRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Specimen, error) {
	sp, err := scanSpecimen(r.conn(ctx).QueryRow(ctx, `SELECT `+specimenCols+` FROM blood_specimen WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("specimen not found")
	}
	return sp, err
}

func (r *specimenRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE blood_specimen SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("specimen not found")
	}
	return nil
}

func (r *specimenRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM blood_specimen WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("specimen not found")
	}
	return nil
}

func (r *specimenRepoPG) List(ctx context.Context, filter SpecimenFilter, limit, offset int) ([]*Specimen, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.BloodGroup != "" {
		where += fmt.Sprintf(` AND blood_group = $%d`, idx)
		args = append(args, filter.BloodGroup)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, filter.Status)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM blood_specimen`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + specimenCols + ` FROM blood_specimen` + where +
		fmt.Sprintf(` ORDER BY expiry_date ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Specimen
	for rows.Next() {
		sp, err := scanSpecimen(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, sp)
	}
	return items, total, rows.Err()
}

func (r *specimenRepoPG) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*Specimen, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+specimenCols+` FROM blood_specimen
		WHERE status = 'available' AND expiry_date <= $1
		ORDER BY expiry_date ASC`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Specimen
	for rows.Next() {
		sp, err := scanSpecimen(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, sp)
	}
	return items, rows.Err()
}

type stockRepoPG struct{ pool *pgxpool.Pool }

func NewStockRepoPG(pool *pgxpool.Pool) StockRepository { return &stockRepoPG{pool: pool} }

func (r *stockRepoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *stockRepoPG) Levels(ctx context.Context) ([]*StockLevel, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT blood_group, units, updated_at FROM blood_stock ORDER BY blood_group`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []*StockLevel
	for rows.Next() {
		var l StockLevel
		if err := rows.Scan(&l.BloodGroup, &l.Units, &l.UpdatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, &l)
	}
	return levels, rows.Err()
}

func (r *stockRepoPG) Level(ctx context.Context, group blood.Group) (*StockLevel, error) {
	var l StockLevel
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT blood_group, units, updated_at FROM blood_stock WHERE blood_group = $1`, group).
		Scan(&l.BloodGroup, &l.Units, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("no stock row for %s", group)
	}
	return &l, err
}

func (r *stockRepoPG) Add(ctx context.Context, group blood.Group, units int) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_stock (blood_group, units) VALUES ($1, $2)
		ON CONFLICT (blood_group) DO UPDATE
		SET units = blood_stock.units + EXCLUDED.units, updated_at = NOW()`,
		group, units)
	return err
}

// TryDecrement relies on the conditional UPDATE being atomic: concurrent
// fulfillments serialize on the row and the units >= $2 guard keeps the
// count from going negative.
func (r *stockRepoPG) TryDecrement(ctx context.Context, group blood.Group, units int) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE blood_stock SET units = units - $2, updated_at = NOW()
		WHERE blood_group = $1 AND units >= $2`,
		group, units)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
