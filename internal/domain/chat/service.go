package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/ws"
)

const maxBodyLength = 2000

type Service struct {
	repo      Repository
	publisher ws.Publisher
	logger    zerolog.Logger
}

func NewService(repo Repository, publisher ws.Publisher, logger zerolog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// Send persists a message and fans it out to the other side of the thread:
// hospital messages land on the admin topic, admin messages on the
// hospital's topic.
func (s *Service) Send(ctx context.Context, hospitalID uuid.UUID, sender, body string) (*Message, error) {
	if sender != SenderAdmin && sender != SenderHospital {
		return nil, httpx.Validation("invalid sender: %s", sender)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, httpx.Validation("message body is required")
	}
	if len(body) > maxBodyLength {
		return nil, httpx.Validation("message body exceeds %d characters", maxBodyLength)
	}
	if hospitalID == uuid.Nil {
		return nil, httpx.Validation("hospital id is required")
	}

	m := &Message{
		ID:         uuid.New(),
		HospitalID: hospitalID,
		Sender:     sender,
		Body:       body,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	topic := ws.TopicAdmin
	if sender == SenderAdmin {
		topic = ws.HospitalTopic(hospitalID)
	}
	if err := s.publisher.Publish(ctx, ws.NewEvent("chat.message", topic, m)); err != nil {
		s.logger.Warn().Err(err).Str("hospital_id", hospitalID.String()).Msg("chat publish failed")
	}
	return m, nil
}

// Thread returns a hospital's messages and marks the other side's messages
// read for the viewer.
func (s *Service) Thread(ctx context.Context, hospitalID uuid.UUID, viewer string, limit, offset int) ([]*Message, int, error) {
	if viewer != SenderAdmin && viewer != SenderHospital {
		return nil, 0, httpx.Validation("invalid viewer: %s", viewer)
	}
	other := SenderHospital
	if viewer == SenderHospital {
		other = SenderAdmin
	}
	if _, err := s.repo.MarkRead(ctx, hospitalID, other); err != nil {
		return nil, 0, err
	}
	return s.repo.ListThread(ctx, hospitalID, limit, offset)
}

// Unread reports how many messages from the other side the viewer has not
// seen yet.
func (s *Service) Unread(ctx context.Context, hospitalID uuid.UUID, viewer string) (int, error) {
	other := SenderHospital
	if viewer == SenderHospital {
		other = SenderAdmin
	}
	return s.repo.UnreadCount(ctx, hospitalID, other)
}

// Threads is the admin inbox.
func (s *Service) Threads(ctx context.Context) ([]*ThreadSummary, error) {
	return s.repo.Threads(ctx)
}
