package camp

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const cols = `id, name, description, camp_date, start_time, end_time, location_name, address, city,
	latitude, longitude, organizer, contact_name, contact_phone, contact_email,
	expected_donors, registered_donors, status, created_at`

func scan(row pgx.Row) (*Camp, error) {
	var c Camp
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CampDate, &c.StartTime, &c.EndTime,
		&c.LocationName, &c.Address, &c.City, &c.Latitude, &c.Longitude, &c.Organizer,
		&c.ContactName, &c.ContactPhone, &c.ContactEmail,
		&c.ExpectedDonors, &c.RegisteredDonors, &c.Status, &c.CreatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Camp) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO donation_camp (id, name, description, camp_date, start_time, end_time,
			location_name, address, city, latitude, longitude, organizer,
			contact_name, contact_phone, contact_email, expected_donors, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		c.ID, c.Name, c.Description, c.CampDate, c.StartTime, c.EndTime,
		c.LocationName, c.Address, c.City, c.Latitude, c.Longitude, c.Organizer,
		c.ContactName, c.ContactPhone, c.ContactEmail, c.ExpectedDonors, c.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Camp, error) {
	c, err := scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM donation_camp WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("camp not found")
	}
	return c, err
}

func (r *repoPG) Update(ctx context.Context, c *Camp) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE donation_camp
		SET name = $2, description = $3, camp_date = $4, start_time = $5, end_time = $6,
		    location_name = $7, address = $8, city = $9, latitude = $10, longitude = $11,
		    organizer = $12, contact_name = $13, contact_phone = $14, contact_email = $15,
		    expected_donors = $16
		WHERE id = $1`,
		c.ID, c.Name, c.Description, c.CampDate, c.StartTime, c.EndTime,
		c.LocationName, c.Address, c.City, c.Latitude, c.Longitude,
		c.Organizer, c.ContactName, c.ContactPhone, c.ContactEmail, c.ExpectedDonors)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("camp not found")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM donation_camp WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("camp not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filter Filter, limit, offset int) ([]*Camp, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.Status != "" {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.City != "" {
		where += fmt.Sprintf(` AND city ILIKE $%d`, idx)
		args = append(args, filter.City)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM donation_camp`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + cols + ` FROM donation_camp` + where +
		fmt.Sprintf(` ORDER BY camp_date ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Camp
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListUpcoming(ctx context.Context, from time.Time) ([]*Camp, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM donation_camp
		WHERE status = 'upcoming' AND camp_date >= $1
		ORDER BY camp_date ASC`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Camp
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE donation_camp SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("camp not found")
	}
	return nil
}

func (r *repoPG) IncrementRegistered(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE donation_camp SET registered_donors = registered_donors + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("camp not found")
	}
	return nil
}
