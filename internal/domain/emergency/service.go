package emergency

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/domain/donor"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/notify"
	"github.com/bloodlink/bloodlink/internal/platform/ws"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

// DonorFinder locates donors able to give to the emergency's blood group.
// The donor service implements it.
type DonorFinder interface {
	Compatible(ctx context.Context, group blood.Group) ([]*donor.Donor, error)
}

// RewardSink credits donors who respond. The rewards service implements it.
type RewardSink interface {
	RecordEmergencyResponse(ctx context.Context, donorID uuid.UUID, description string) error
}

// Notifier is the slice of the notification engine the service needs.
type Notifier interface {
	SendTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*notify.Notification, error)
}

// TxRunner runs fn inside a database transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PassthroughTx runs fn without a transaction.
func PassthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	repo      Repository
	donors    DonorFinder
	rewards   RewardSink
	inTx      TxRunner
	notifier  Notifier
	publisher ws.Publisher
	logger    zerolog.Logger
	ttl       time.Duration
	now       func() time.Time
}

func NewService(repo Repository, donors DonorFinder, rewards RewardSink, inTx TxRunner,
	notifier Notifier, publisher ws.Publisher, logger zerolog.Logger, ttl time.Duration) *Service {
	return &Service{
		repo:      repo,
		donors:    donors,
		rewards:   rewards,
		inTx:      inTx,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Broadcast opens an emergency, alerts every compatible donor by SMS, and
// pushes the event to all connected clients. Notification failures reduce
// donors_notified but never fail the broadcast.
func (s *Service) Broadcast(ctx context.Context, hospitalID uuid.UUID, hospitalName string, e *Emergency) error {
	if !e.BloodGroup.Valid() {
		return httpx.Validation("invalid blood group: %s", e.BloodGroup)
	}
	if e.UnitsNeeded <= 0 {
		return httpx.Validation("units needed must be positive")
	}
	if e.UrgencyLevel == "" {
		e.UrgencyLevel = UrgencyUrgent
	}
	if e.UrgencyLevel != UrgencyCritical && e.UrgencyLevel != UrgencyUrgent {
		return httpx.Validation("urgency level must be critical or urgent")
	}

	e.ID = uuid.New()
	e.HospitalID = hospitalID
	e.HospitalName = hospitalName
	e.Status = StatusActive
	e.ExpiresAt = s.now().Add(s.ttl)

	if err := s.repo.Create(ctx, e); err != nil {
		return err
	}

	e.DonorsNotified = s.alertDonors(ctx, e)
	if err := s.repo.SetDonorsNotified(ctx, e.ID, e.DonorsNotified); err != nil {
		s.logger.Warn().Err(err).Str("emergency_id", e.ID.String()).Msg("recording notified count failed")
	}

	s.publish(ctx, "emergency.created", e)
	return nil
}

func (s *Service) alertDonors(ctx context.Context, e *Emergency) int {
	if s.donors == nil || s.notifier == nil {
		return 0
	}
	compatible, err := s.donors.Compatible(ctx, e.BloodGroup)
	if err != nil {
		s.logger.Warn().Err(err).Msg("compatible donor lookup failed")
		return 0
	}

	notified := 0
	data := map[string]string{
		"hospital":    e.HospitalName,
		"units":       strconv.Itoa(e.UnitsNeeded),
		"blood_group": string(e.BloodGroup),
		"condition":   e.PatientCondition,
	}
	for _, d := range compatible {
		if _, err := s.notifier.SendTemplate(ctx, notify.TplEmergencyAlert, data, d.Phone); err != nil {
			s.logger.Warn().Err(err).Str("donor_id", d.ID.String()).Msg("emergency alert failed")
			continue
		}
		notified++
	}
	return notified
}

// GetActive lists open broadcasts. Expiry is judged at read time, so a
// broadcast past its deadline disappears without a background sweeper.
func (s *Service) GetActive(ctx context.Context) ([]*Emergency, error) {
	return s.repo.ListActive(ctx, s.now())
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Emergency, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Present lapsed broadcasts as expired even before any status write.
	if e.Status == StatusActive && !e.ExpiresAt.After(s.now()) {
		e.Status = StatusExpired
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Emergency, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Respond records a donor pledging to come in. Responding twice is a no-op:
// the first response wins, later ones neither error nor double-credit.
func (s *Service) Respond(ctx context.Context, emergencyID, donorID uuid.UUID) (*Emergency, bool, error) {
	e, err := s.repo.GetByID(ctx, emergencyID)
	if err != nil {
		return nil, false, err
	}
	if e.Status != StatusActive || !e.ExpiresAt.After(s.now()) {
		return nil, false, httpx.InvalidState("emergency is no longer active")
	}

	var added bool
	err = s.inTx(ctx, func(ctx context.Context) error {
		added, err = s.repo.AddResponse(ctx, emergencyID, donorID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if !added {
		return e, false, nil
	}
	e.ResponseCount++

	if s.rewards != nil {
		if err := s.rewards.RecordEmergencyResponse(ctx, donorID, "Responded to emergency at "+e.HospitalName); err != nil {
			s.logger.Warn().Err(err).Str("donor_id", donorID.String()).Msg("reward credit failed")
		}
	}
	s.publish(ctx, "emergency.response", e)
	return e, true, nil
}

// UpdateStatus resolves or cancels a broadcast. Hospital sessions may only
// touch their own; admin callers pass uuid.Nil.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string, hospitalID uuid.UUID) (*Emergency, error) {
	if status != StatusResolved && status != StatusCancelled && status != StatusExpired {
		return nil, httpx.Validation("invalid emergency status: %s", status)
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hospitalID != uuid.Nil && e.HospitalID != hospitalID {
		return nil, httpx.Permission("emergency belongs to another hospital")
	}
	if e.Status != StatusActive {
		return nil, httpx.InvalidState("emergency is already %s", e.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	e.Status = status

	s.publish(ctx, "emergency."+status, e)
	return e, nil
}

func (s *Service) Responses(ctx context.Context, emergencyID uuid.UUID) ([]*Response, error) {
	if _, err := s.repo.GetByID(ctx, emergencyID); err != nil {
		return nil, err
	}
	return s.repo.ListResponses(ctx, emergencyID)
}

func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ws.NewEvent(eventType, ws.TopicEmergencies, payload)); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish failed")
	}
}
