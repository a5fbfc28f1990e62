package chat

import (
	"context"

	"github.com/google/uuid"
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

func (r *repoPG) Create(ctx context.Context, m *Message) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO chat_message (id, hospital_id, sender, body)
		VALUES ($1, $2, $3, $4)`,
		m.ID, m.HospitalID, m.Sender, m.Body)
	return err
}

func (r *repoPG) ListThread(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Message, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_message WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, hospital_id, sender, body, read, created_at
		FROM chat_message WHERE hospital_id = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`, hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.HospitalID, &m.Sender, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &m)
	}
	return items, total, rows.Err()
}

func (r *repoPG) MarkRead(ctx context.Context, hospitalID uuid.UUID, sender string) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE chat_message SET read = TRUE
		WHERE hospital_id = $1 AND sender = $2 AND read = FALSE`,
		hospitalID, sender)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) UnreadCount(ctx context.Context, hospitalID uuid.UUID, sender string) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM chat_message
		WHERE hospital_id = $1 AND sender = $2 AND read = FALSE`,
		hospitalID, sender).Scan(&count)
	return count, err
}

func (r *repoPG) Threads(ctx context.Context) ([]*ThreadSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT cm.hospital_id, h.name,
		       (SELECT body FROM chat_message
		        WHERE hospital_id = cm.hospital_id ORDER BY created_at DESC LIMIT 1),
		       MAX(cm.created_at),
		       COUNT(*) FILTER (WHERE cm.sender = 'hospital' AND cm.read = FALSE)
		FROM chat_message cm
		JOIN hospital h ON h.id = cm.hospital_id
		GROUP BY cm.hospital_id, h.name
		ORDER BY MAX(cm.created_at) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ThreadSummary
	for rows.Next() {
		var t ThreadSummary
		if err := rows.Scan(&t.HospitalID, &t.HospitalName, &t.LastMessage, &t.LastAt, &t.Unread); err != nil {
			return nil, err
		}
		items = append(items, &t)
	}
	return items, rows.Err()
}
