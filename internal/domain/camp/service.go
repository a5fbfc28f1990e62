package camp

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/domain/donor"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/notify"
)

// Status changes a camp may take. Cancellation is allowed from any
// non-terminal state.
var transitions = map[string][]string{
	StatusUpcoming: {StatusOngoing, StatusCancelled},
	StatusOngoing:  {StatusCompleted, StatusCancelled},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DonorLister finds donors to remind about an upcoming camp. The donor
// service implements it.
type DonorLister interface {
	List(ctx context.Context, filter donor.Filter, limit, offset int) ([]*donor.Donor, int, error)
}

// Notifier is the slice of the notification engine the service needs.
type Notifier interface {
	SendTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*notify.Notification, error)
}

// How many donors one reminder run will reach at most.
const reminderBatch = 500

type Service struct {
	repo     Repository
	donors   DonorLister
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, donors DonorLister, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		donors:   donors,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) validate(c *Camp) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return httpx.Validation("name is required")
	}
	if c.CampDate.IsZero() {
		return httpx.Validation("camp date is required")
	}
	if strings.TrimSpace(c.City) == "" {
		return httpx.Validation("city is required")
	}
	if c.ExpectedDonors < 0 {
		return httpx.Validation("expected donors cannot be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, c *Camp) error {
	if err := s.validate(c); err != nil {
		return err
	}
	c.ID = uuid.New()
	c.Status = StatusUpcoming
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Camp, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, c *Camp) error {
	if err := s.validate(c); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Camp, int, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, 0, httpx.Validation("invalid camp status: %s", filter.Status)
	}
	return s.repo.List(ctx, filter, limit, offset)
}

// Upcoming lists camps that have not started yet, soonest first.
func (s *Service) Upcoming(ctx context.Context) ([]*Camp, error) {
	return s.repo.ListUpcoming(ctx, s.now().Truncate(24*time.Hour))
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Camp, error) {
	if !validStatus(status) {
		return nil, httpx.Validation("invalid camp status: %s", status)
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(c.Status, status) {
		return nil, httpx.InvalidState("camp cannot go from %s to %s", c.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c.Status = status
	return c, nil
}

// RegisterDonor counts a donor signing up for a camp. Registration stays
// open until the camp is completed or cancelled.
func (s *Service) RegisterDonor(ctx context.Context, id uuid.UUID) (*Camp, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusUpcoming && c.Status != StatusOngoing {
		return nil, httpx.InvalidState("camp is %s, registration closed", c.Status)
	}
	if err := s.repo.IncrementRegistered(ctx, id); err != nil {
		return nil, err
	}
	c.RegisteredDonors++
	return c, nil
}

// SendReminders texts donors in the camp's city. Send failures skip the
// donor; the returned count is donors actually reached.
func (s *Service) SendReminders(ctx context.Context, id uuid.UUID) (int, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if c.Status != StatusUpcoming {
		return 0, httpx.InvalidState("camp is %s, reminders only go out for upcoming camps", c.Status)
	}

	donors, _, err := s.donors.List(ctx, donor.Filter{City: c.City}, reminderBatch, 0)
	if err != nil {
		return 0, err
	}

	data := map[string]string{
		"camp":     c.Name,
		"date":     c.CampDate.Format("02 Jan 2006"),
		"location": c.LocationName,
		"city":     c.City,
	}
	sent := 0
	for _, d := range donors {
		if _, err := s.notifier.SendTemplate(ctx, notify.TplCampReminder, data, d.Phone); err != nil {
			s.logger.Warn().Err(err).Str("donor_id", d.ID.String()).Msg("camp reminder failed")
			continue
		}
		sent++
	}
	s.logger.Info().Str("camp_id", c.ID.String()).Int("sent", sent).Msg("camp reminders sent")
	return sent, nil
}
