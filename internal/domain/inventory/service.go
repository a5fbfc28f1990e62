package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/ws"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

// TxRunner runs fn inside a database transaction. The db package provides
// the production implementation; tests pass calls straight through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PassthroughTx runs fn without a transaction.
func PassthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	specimens SpecimenRepository
	stock     StockRepository
	inTx      TxRunner
	publisher ws.Publisher
	logger    zerolog.Logger

	lowStockThreshold int
	expiryWindowDays  int
}

func NewService(specimens SpecimenRepository, stock StockRepository, inTx TxRunner,
	publisher ws.Publisher, logger zerolog.Logger, lowStockThreshold, expiryWindowDays int) *Service {
	return &Service{
		specimens:         specimens,
		stock:             stock,
		inTx:              inTx,
		publisher:         publisher,
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
		expiryWindowDays:  expiryWindowDays,
	}
}

// AddSpecimen records a collected bag and credits one unit of stock, both in
// one transaction.
func (s *Service) AddSpecimen(ctx context.Context, sp *Specimen) error {
	if !sp.BloodGroup.Valid() {
		return httpx.Validation("invalid blood group: %s", sp.BloodGroup)
	}
	if sp.CollectionDate.IsZero() {
		sp.CollectionDate = time.Now().Truncate(24 * time.Hour)
	}
	if sp.ExpiryDate.IsZero() {
		// Whole blood keeps 42 days.
		sp.ExpiryDate = sp.CollectionDate.AddDate(0, 0, 42)
	}
	if !sp.ExpiryDate.After(sp.CollectionDate) {
		return httpx.Validation("expiry date must be after collection date")
	}

	sp.ID = uuid.New()
	if strings.TrimSpace(sp.SpecimenNumber) == "" {
		sp.SpecimenNumber = fmt.Sprintf("SP%s", strings.ToUpper(sp.ID.String()[:8]))
	}
	if sp.Status == "" {
		sp.Status = StatusAvailable
	}
	if sp.Status != StatusAvailable && sp.Status != StatusReserved && sp.Status != StatusUsed {
		return httpx.Validation("invalid specimen status: %s", sp.Status)
	}

	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.specimens.Create(ctx, sp); err != nil {
			return err
		}
		if sp.Status != StatusAvailable {
			return nil
		}
		return s.stock.Add(ctx, sp.BloodGroup, 1)
	})
}

func (s *Service) GetSpecimen(ctx context.Context, id uuid.UUID) (*Specimen, error) {
	return s.specimens.GetByID(ctx, id)
}

func (s *Service) ListSpecimens(ctx context.Context, filter SpecimenFilter, limit, offset int) ([]*Specimen, int, error) {
	if filter.BloodGroup != "" && !filter.BloodGroup.Valid() {
		return nil, 0, httpx.Validation("invalid blood group: %s", filter.BloodGroup)
	}
	return s.specimens.List(ctx, filter, limit, offset)
}

// UpdateSpecimenStatus moves a bag through available -> reserved -> used.
// Leaving the available state debits a unit of stock; re-entering credits it.
func (s *Service) UpdateSpecimenStatus(ctx context.Context, id uuid.UUID, status string) (*Specimen, error) {
	if status != StatusAvailable && status != StatusReserved && status != StatusUsed {
		return nil, httpx.Validation("invalid specimen status: %s", status)
	}

	var updated *Specimen
	err := s.inTx(ctx, func(ctx context.Context) error {
		sp, err := s.specimens.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sp.Status == status {
			updated = sp
			return nil
		}
		if err := s.specimens.UpdateStatus(ctx, id, status); err != nil {
			return err
		}

		switch {
		case sp.Status == StatusAvailable && status != StatusAvailable:
			ok, err := s.stock.TryDecrement(ctx, sp.BloodGroup, 1)
			if err != nil {
				return err
			}
			if !ok {
				return httpx.InsufficientStock("no %s units left to reserve", sp.BloodGroup)
			}
		case sp.Status != StatusAvailable && status == StatusAvailable:
			if err := s.stock.Add(ctx, sp.BloodGroup, 1); err != nil {
				return err
			}
		}

		sp.Status = status
		updated = sp
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.alertIfLow(ctx, updated.BloodGroup)
	return updated, nil
}

func (s *Service) DeleteSpecimen(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(ctx context.Context) error {
		sp, err := s.specimens.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.specimens.Delete(ctx, id); err != nil {
			return err
		}
		if sp.Status != StatusAvailable {
			return nil
		}
		ok, err := s.stock.TryDecrement(ctx, sp.BloodGroup, 1)
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Warn().Str("blood_group", sp.BloodGroup.String()).
				Msg("stock ledger out of step with specimens")
		}
		return nil
	})
}

// ExpiringSoon lists available bags that expire within the configured window.
func (s *Service) ExpiringSoon(ctx context.Context) ([]*Specimen, error) {
	cutoff := time.Now().AddDate(0, 0, s.expiryWindowDays)
	return s.specimens.ListExpiringBefore(ctx, cutoff)
}

// Levels returns the stock ledger with low-stock flags applied.
func (s *Service) Levels(ctx context.Context) ([]*StockLevel, error) {
	levels, err := s.stock.Levels(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range levels {
		l.IsLow = l.Units < s.lowStockThreshold
	}
	return levels, nil
}

// AddStock credits whole units outside the specimen flow (bulk transfers in).
func (s *Service) AddStock(ctx context.Context, group blood.Group, units int) error {
	if !group.Valid() {
		return httpx.Validation("invalid blood group: %s", group)
	}
	if units <= 0 {
		return httpx.Validation("units must be positive")
	}
	if err := s.stock.Add(ctx, group, units); err != nil {
		return err
	}
	s.publish(ctx, "stock.updated", map[string]interface{}{"blood_group": group, "delta": units})
	return nil
}

// Withdraw debits units atomically, failing with an insufficient-stock error
// rather than ever going negative.
func (s *Service) Withdraw(ctx context.Context, group blood.Group, units int) error {
	if !group.Valid() {
		return httpx.Validation("invalid blood group: %s", group)
	}
	if units <= 0 {
		return httpx.Validation("units must be positive")
	}
	ok, err := s.stock.TryDecrement(ctx, group, units)
	if err != nil {
		return err
	}
	if !ok {
		return httpx.InsufficientStock("not enough %s units in stock", group)
	}
	s.alertIfLow(ctx, group)
	return nil
}

func (s *Service) alertIfLow(ctx context.Context, group blood.Group) {
	level, err := s.stock.Level(ctx, group)
	if err != nil {
		return
	}
	if level.Units < s.lowStockThreshold {
		s.publish(ctx, "stock.low", map[string]interface{}{
			"blood_group": group,
			"units":       level.Units,
			"threshold":   s.lowStockThreshold,
		})
	}
}

func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ws.NewEvent(eventType, ws.TopicAdmin, payload)); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish failed")
	}
}
