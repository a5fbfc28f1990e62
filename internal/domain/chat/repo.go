package chat

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	// ListThread returns a hospital's messages, oldest first.
	ListThread(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Message, int, error)
	// MarkRead flags every unread message in the thread sent by the other
	// side, returning how many it touched.
	MarkRead(ctx context.Context, hospitalID uuid.UUID, sender string) (int, error)
	UnreadCount(ctx context.Context, hospitalID uuid.UUID, sender string) (int, error)
	// Threads lists every hospital with at least one message, most recent
	// activity first, with unread counts from the admin's point of view.
	Threads(ctx context.Context) ([]*ThreadSummary, error)
}
