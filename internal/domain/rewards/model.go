package rewards

import (
	"time"

	"github.com/google/uuid"
)

// Donor ranks, lowest to highest.
const (
	RankBeginner    = "beginner"
	RankContributor = "contributor"
	RankHero        = "hero"
	RankLegend      = "legend"
	RankLifesaver   = "lifesaver"
)

// Transaction types.
const (
	TypeDonation          = "donation"
	TypeEmergencyResponse = "emergency_response"
)

// Badge levels.
const (
	LevelBronze = "bronze"
	LevelSilver = "silver"
	LevelGold   = "gold"
)

// Profile maps to the donor_reward table: one running tally per donor.
type Profile struct {
	DonorID            uuid.UUID  `db:"donor_id" json:"donor_id"`
	TotalPoints        int        `db:"total_points" json:"total_points"`
	TotalDonations     int        `db:"total_donations" json:"total_donations"`
	EmergencyResponses int        `db:"emergency_responses" json:"emergency_responses"`
	LivesSaved         int        `db:"lives_saved" json:"lives_saved"`
	CurrentStreak      int        `db:"current_streak" json:"current_streak"`
	LongestStreak      int        `db:"longest_streak" json:"longest_streak"`
	Rank               string     `db:"rank" json:"rank"`
	LastDonationAt     *time.Time `db:"last_donation_at" json:"last_donation_at,omitempty"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// Transaction maps to the reward_transaction table.
type Transaction struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DonorID     uuid.UUID `db:"donor_id" json:"donor_id"`
	Type        string    `db:"type" json:"type"`
	Points      int       `db:"points" json:"points"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Badge maps to the reward_badge table.
type Badge struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DonorID   uuid.UUID `db:"donor_id" json:"donor_id"`
	Name      string    `db:"name" json:"name"`
	Level     string    `db:"level" json:"level"`
	Icon      string    `db:"icon" json:"icon"`
	AwardedAt time.Time `db:"awarded_at" json:"awarded_at"`
}

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	DonorID        uuid.UUID `db:"donor_id" json:"donor_id"`
	DonorName      string    `db:"name" json:"donor_name"`
	TotalPoints    int       `db:"total_points" json:"total_points"`
	TotalDonations int       `db:"total_donations" json:"total_donations"`
	Rank           string    `db:"rank" json:"rank"`
}

// Summary bundles everything the donor profile page shows.
type Summary struct {
	Profile      *Profile       `json:"profile"`
	Badges       []*Badge       `json:"badges"`
	Transactions []*Transaction `json:"transactions"`
}
