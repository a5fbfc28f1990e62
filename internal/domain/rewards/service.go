package rewards

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/ws"
)

// Points configures how donations are scored and when ranks are reached.
// Thresholds must be strictly ascending; they map to contributor, hero,
// legend and lifesaver in that order.
type Points struct {
	Donation   int
	Emergency  int
	Thresholds [4]int
}

// A donation streak survives as long as donations land within this window
// of each other.
const streakWindow = 90 * 24 * time.Hour

// Each whole-blood donation is counted as three lives saved.
const livesPerDonation = 3

// TxRunner runs fn inside a database transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PassthroughTx runs fn without a transaction.
func PassthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	repo      Repository
	inTx      TxRunner
	publisher ws.Publisher
	logger    zerolog.Logger
	points    Points
	now       func() time.Time
}

func NewService(repo Repository, inTx TxRunner, publisher ws.Publisher, logger zerolog.Logger, points Points) *Service {
	return &Service{
		repo:      repo,
		inTx:      inTx,
		publisher: publisher,
		logger:    logger,
		points:    points,
		now:       time.Now,
	}
}

// RankFor maps a point total to a rank. Ranks only ever move up because
// points only ever accrue.
func (s *Service) RankFor(points int) string {
	switch {
	case points >= s.points.Thresholds[3]:
		return RankLifesaver
	case points >= s.points.Thresholds[2]:
		return RankLegend
	case points >= s.points.Thresholds[1]:
		return RankHero
	case points >= s.points.Thresholds[0]:
		return RankContributor
	default:
		return RankBeginner
	}
}

// RecordDonation credits a completed donation: points, tallies, streak,
// rank and any badges crossed, all in one transaction.
func (s *Service) RecordDonation(ctx context.Context, donorID uuid.UUID, description string) error {
	if donorID == uuid.Nil {
		return httpx.Validation("donor id is required")
	}
	var p *Profile
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetProfile(ctx, donorID)
		if err != nil {
			return err
		}

		now := s.now()
		if p.LastDonationAt != nil && now.Sub(*p.LastDonationAt) <= streakWindow {
			p.CurrentStreak++
		} else {
			p.CurrentStreak = 1
		}
		if p.CurrentStreak > p.LongestStreak {
			p.LongestStreak = p.CurrentStreak
		}
		p.TotalPoints += s.points.Donation
		p.TotalDonations++
		p.LivesSaved += livesPerDonation
		p.LastDonationAt = &now
		p.Rank = s.RankFor(p.TotalPoints)

		if err := s.repo.SaveProfile(ctx, p); err != nil {
			return err
		}
		if err := s.repo.AddTransaction(ctx, &Transaction{
			ID:          uuid.New(),
			DonorID:     donorID,
			Type:        TypeDonation,
			Points:      s.points.Donation,
			Description: description,
		}); err != nil {
			return err
		}
		return s.awardEarnedBadges(ctx, p)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, "reward.donation", p)
	return nil
}

// RecordEmergencyResponse credits a donor who pledged to an emergency
// broadcast. The emergency service calls this once per donor per broadcast.
func (s *Service) RecordEmergencyResponse(ctx context.Context, donorID uuid.UUID, description string) error {
	if donorID == uuid.Nil {
		return httpx.Validation("donor id is required")
	}
	var p *Profile
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetProfile(ctx, donorID)
		if err != nil {
			return err
		}

		p.TotalPoints += s.points.Emergency
		p.EmergencyResponses++
		p.Rank = s.RankFor(p.TotalPoints)

		if err := s.repo.SaveProfile(ctx, p); err != nil {
			return err
		}
		if err := s.repo.AddTransaction(ctx, &Transaction{
			ID:          uuid.New(),
			DonorID:     donorID,
			Type:        TypeEmergencyResponse,
			Points:      s.points.Emergency,
			Description: description,
		}); err != nil {
			return err
		}
		return s.awardEarnedBadges(ctx, p)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, "reward.emergency_response", p)
	return nil
}

type badgeRule struct {
	name    string
	level   string
	icon    string
	reached func(p *Profile) bool
}

var badgeRules = []badgeRule{
	{"First Donation", LevelBronze, "drop", func(p *Profile) bool { return p.TotalDonations >= 1 }},
	{"Life Saver Bronze", LevelBronze, "medal", func(p *Profile) bool { return p.TotalDonations >= 5 }},
	{"Life Saver Silver", LevelSilver, "medal", func(p *Profile) bool { return p.TotalDonations >= 10 }},
	{"Life Saver Gold", LevelGold, "medal", func(p *Profile) bool { return p.TotalDonations >= 25 }},
	{"Emergency Hero", LevelGold, "siren", func(p *Profile) bool { return p.EmergencyResponses >= 3 }},
}

// awardEarnedBadges is idempotent: AwardBadge reports false for badges the
// donor already holds.
func (s *Service) awardEarnedBadges(ctx context.Context, p *Profile) error {
	for _, rule := range badgeRules {
		if !rule.reached(p) {
			continue
		}
		awarded, err := s.repo.AwardBadge(ctx, &Badge{
			ID:      uuid.New(),
			DonorID: p.DonorID,
			Name:    rule.name,
			Level:   rule.level,
			Icon:    rule.icon,
		})
		if err != nil {
			return err
		}
		if awarded {
			s.logger.Info().
				Str("donor_id", p.DonorID.String()).
				Str("badge", rule.name).
				Msg("badge awarded")
		}
	}
	return nil
}

// Summary returns the donor's full reward picture: tally, badges and the
// most recent transactions.
func (s *Service) Summary(ctx context.Context, donorID uuid.UUID) (*Summary, error) {
	p, err := s.repo.GetProfile(ctx, donorID)
	if err != nil {
		return nil, err
	}
	badges, err := s.repo.ListBadges(ctx, donorID)
	if err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactions(ctx, donorID, 20)
	if err != nil {
		return nil, err
	}
	return &Summary{Profile: p, Badges: badges, Transactions: txns}, nil
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.repo.Leaderboard(ctx, limit)
}

func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ws.NewEvent(eventType, ws.TopicAdmin, payload)); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish failed")
	}
}
