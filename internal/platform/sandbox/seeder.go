// Package sandbox generates reproducible demo data for development and demo
// environments: donors with reward histories, approved and pending hospitals,
// blood stock, open requests, an active emergency, and upcoming camps.
package sandbox

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

// SeedConfig controls the volume and shape of generated demo data.
type SeedConfig struct {
	DonorCount     int   `json:"donorCount"`
	RecipientCount int   `json:"recipientCount"`
	HospitalCount  int   `json:"hospitalCount"`
	SpecimenCount  int   `json:"specimenCount"`
	RequestCount   int   `json:"requestCount"`
	CampCount      int   `json:"campCount"`
	Seed           int64 `json:"seed"`
}

// DefaultSeedConfig returns the volumes used by the demo environment.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		DonorCount:     40,
		RecipientCount: 12,
		HospitalCount:  6,
		SpecimenCount:  60,
		RequestCount:   10,
		CampCount:      4,
		Seed:           1,
	}
}

// SeedResult summarizes the output of a seed run.
type SeedResult struct {
	AdminUsers  int           `json:"adminUsers"`
	Donors      int           `json:"donors"`
	Recipients  int           `json:"recipients"`
	Hospitals   int           `json:"hospitals"`
	Specimens   int           `json:"specimens"`
	Requests    int           `json:"requests"`
	Emergencies int           `json:"emergencies"`
	Camps       int           `json:"camps"`
	Duration    time.Duration `json:"duration"`
}

// Seeder writes demo data directly to the database. It is only invoked by
// the seed command, never by the running server.
type Seeder struct {
	pool   *pgxpool.Pool
	cfg    SeedConfig
	rng    *rand.Rand
	logger zerolog.Logger
}

func NewSeeder(pool *pgxpool.Pool, cfg SeedConfig, logger zerolog.Logger) *Seeder {
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	return &Seeder{pool: pool, cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed)), logger: logger}
}

var (
	firstNames = []string{
		"Rajesh", "Priya", "Amit", "Sneha", "Vikram", "Anjali", "Rahul", "Pooja",
		"Suresh", "Kavita", "Arjun", "Meera", "Karan", "Divya", "Nikhil", "Riya",
		"Sanjay", "Neha", "Deepak", "Shreya", "Manoj", "Anita", "Rohan", "Swati",
	}
	lastNames = []string{
		"Sharma", "Patel", "Singh", "Kumar", "Gupta", "Reddy", "Iyer", "Nair",
		"Desai", "Mehta", "Joshi", "Verma", "Rao", "Chopra", "Malhotra", "Bose",
	}
	cities = []string{
		"Mumbai", "Delhi", "Bangalore", "Chennai", "Pune", "Hyderabad", "Kolkata",
	}
	hospitalNames = []string{
		"City General Hospital", "Sunrise Medical Centre", "Lifeline Multispecialty",
		"St. Mary's Hospital", "Green Valley Clinic", "Apex Trauma Centre",
		"Riverside Care Hospital", "Unity Health Institute",
	}
	campNames = []string{
		"Red Cross Mega Blood Drive", "Rotary Club Donation Camp",
		"Corporate Park Blood Camp", "University Donation Day",
		"Community Health Fair Drive", "Independence Day Blood Camp",
	}
	requestReasons = []string{
		"Scheduled surgery", "Accident trauma case", "Anemia treatment",
		"Childbirth complications", "Cancer treatment support", "Dialysis patient",
	}
)

// Run seeds all demo entities. Existing rows with the same natural keys are
// left alone so the command is safe to re-run.
func (s *Seeder) Run(ctx context.Context) (*SeedResult, error) {
	start := time.Now()
	result := &SeedResult{}

	steps := []struct {
		name string
		fn   func(context.Context, *SeedResult) error
	}{
		{"admin users", s.seedAdmins},
		{"hospitals", s.seedHospitals},
		{"donors", s.seedDonors},
		{"recipients", s.seedRecipients},
		{"specimens", s.seedSpecimens},
		{"requests", s.seedRequests},
		{"emergencies", s.seedEmergencies},
		{"camps", s.seedCamps},
	}
	for _, step := range steps {
		if err := step.fn(ctx, result); err != nil {
			return nil, fmt.Errorf("seed %s: %w", step.name, err)
		}
		s.logger.Info().Str("step", step.name).Msg("seeded")
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (s *Seeder) seedAdmins(ctx context.Context, result *SeedResult) error {
	accounts := []struct {
		name, email, password, role string
	}{
		{"Blood Bank Manager", "admin@bloodbank.com", "admin123", "manager"},
		{"Front Desk Staff", "staff@bloodbank.com", "staff123", "staff"},
	}
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return err
		}
		tag, err := s.pool.Exec(ctx, `
			INSERT INTO admin_user (id, name, email, password_hash, role)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING`,
			uuid.New(), a.name, a.email, hash, a.role)
		if err != nil {
			return err
		}
		result.AdminUsers += int(tag.RowsAffected())
	}
	return nil
}

func (s *Seeder) seedHospitals(ctx context.Context, result *SeedResult) error {
	hash, err := auth.HashPassword("hospital123")
	if err != nil {
		return err
	}
	for i := 0; i < s.cfg.HospitalCount && i < len(hospitalNames); i++ {
		city := cities[s.rng.Intn(len(cities))]
		email := fmt.Sprintf("portal%d@bloodlink.demo", i+1)
		if i == 0 {
			email = "hospital@citygeneral.com"
		}
		// Last hospital stays unapproved so the approval flow is demoable.
		approved := i != s.cfg.HospitalCount-1
		tag, err := s.pool.Exec(ctx, `
			INSERT INTO hospital (id, name, phone, email, password_hash, city, address, needed_blood_group, is_approved)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (email) DO NOTHING`,
			uuid.New(), hospitalNames[i], s.phone(), email, hash, city,
			fmt.Sprintf("%d MG Road, %s", 10+i, city), string(s.randomGroup()), approved)
		if err != nil {
			return err
		}
		result.Hospitals += int(tag.RowsAffected())
	}
	return nil
}

func (s *Seeder) seedDonors(ctx context.Context, result *SeedResult) error {
	var existing int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donor`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	for i := 0; i < s.cfg.DonorCount; i++ {
		donorID := uuid.New()
		sex := "M"
		if s.rng.Intn(2) == 0 {
			sex = "F"
		}
		_, err := s.pool.Exec(ctx, `
			INSERT INTO donor (id, name, age, sex, phone, blood_group, city)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			donorID, s.personName(), 18+s.rng.Intn(48), sex, s.phone(),
			string(s.randomGroup()), cities[s.rng.Intn(len(cities))])
		if err != nil {
			return err
		}
		if err := s.seedDonorRewards(ctx, donorID); err != nil {
			return err
		}
		result.Donors++
	}
	return nil
}

// seedDonorRewards backfills a plausible reward history: donations at 100
// points each, emergency responses at 200, with rank derived from totals.
func (s *Seeder) seedDonorRewards(ctx context.Context, donorID uuid.UUID) error {
	donations := s.rng.Intn(10)
	responses := s.rng.Intn(3)
	points := donations*100 + responses*200

	rank := "beginner"
	switch {
	case points >= 1000:
		rank = "lifesaver"
	case points >= 600:
		rank = "legend"
	case points >= 300:
		rank = "hero"
	case points >= 100:
		rank = "contributor"
	}

	var lastDonation *time.Time
	if donations > 0 {
		t := time.Now().AddDate(0, 0, -s.rng.Intn(90))
		lastDonation = &t
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO donor_reward (donor_id, total_points, total_donations, emergency_responses,
			lives_saved, current_streak, longest_streak, rank, last_donation_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		donorID, points, donations, responses, donations*3,
		min(donations, 3), min(donations, 5), rank, lastDonation)
	if err != nil {
		return err
	}

	for i := 0; i < donations; i++ {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO reward_transaction (id, donor_id, type, points, description, created_at)
			VALUES ($1, $2, 'donation', 100, 'Blood donation', $3)`,
			uuid.New(), donorID, time.Now().AddDate(0, 0, -s.rng.Intn(365)))
		if err != nil {
			return err
		}
	}
	for i := 0; i < responses; i++ {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO reward_transaction (id, donor_id, type, points, description, created_at)
			VALUES ($1, $2, 'emergency_response', 200, 'Responded to emergency request', $3)`,
			uuid.New(), donorID, time.Now().AddDate(0, 0, -s.rng.Intn(180)))
		if err != nil {
			return err
		}
	}

	if donations >= 1 {
		if err := s.awardBadge(ctx, donorID, "First Donation", "bronze", "drop"); err != nil {
			return err
		}
	}
	if donations >= 5 {
		if err := s.awardBadge(ctx, donorID, "Life Saver Bronze", "bronze", "medal"); err != nil {
			return err
		}
	}
	if donations >= 10 {
		if err := s.awardBadge(ctx, donorID, "Life Saver Silver", "silver", "medal"); err != nil {
			return err
		}
	}
	if responses >= 3 {
		if err := s.awardBadge(ctx, donorID, "Emergency Hero", "gold", "siren"); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) awardBadge(ctx context.Context, donorID uuid.UUID, name, level, icon string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reward_badge (id, donor_id, name, level, icon)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (donor_id, name) DO NOTHING`,
		uuid.New(), donorID, name, level, icon)
	return err
}

func (s *Seeder) seedRecipients(ctx context.Context, result *SeedResult) error {
	var existing int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM recipient`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	for i := 0; i < s.cfg.RecipientCount; i++ {
		sex := "M"
		if s.rng.Intn(2) == 0 {
			sex = "F"
		}
		_, err := s.pool.Exec(ctx, `
			INSERT INTO recipient (id, name, age, sex, phone, blood_group, quantity, city)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), s.personName(), 1+s.rng.Intn(80), sex, s.phone(),
			string(s.randomGroup()), 1+s.rng.Intn(3), cities[s.rng.Intn(len(cities))])
		if err != nil {
			return err
		}
		result.Recipients++
	}
	return nil
}

func (s *Seeder) seedSpecimens(ctx context.Context, result *SeedResult) error {
	var existing int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blood_specimen`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	stock := make(map[blood.Group]int)
	for i := 0; i < s.cfg.SpecimenCount; i++ {
		group := s.randomGroup()
		collected := time.Now().AddDate(0, 0, -s.rng.Intn(30))
		_, err := s.pool.Exec(ctx, `
			INSERT INTO blood_specimen (id, specimen_number, blood_group, status, collection_date, expiry_date)
			VALUES ($1, $2, $3, 'available', $4, $5)`,
			uuid.New(), fmt.Sprintf("SP%05d", i+1), string(group),
			collected, collected.AddDate(0, 0, 42))
		if err != nil {
			return err
		}
		stock[group]++
		result.Specimens++
	}

	for group, units := range stock {
		_, err := s.pool.Exec(ctx, `
			UPDATE blood_stock SET units = units + $2, updated_at = NOW()
			WHERE blood_group = $1`, string(group), units)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedRequests(ctx context.Context, result *SeedResult) error {
	var existing int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hospital_request`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	hospitalIDs, err := s.approvedHospitalIDs(ctx)
	if err != nil || len(hospitalIDs) == 0 {
		return err
	}

	urgencies := []string{"routine", "urgent", "emergency"}
	statuses := []string{"pending", "pending", "pending", "approved", "rejected"}
	for i := 0; i < s.cfg.RequestCount; i++ {
		status := statuses[s.rng.Intn(len(statuses))]
		var notes, respondedBy *string
		if status != "pending" {
			n := "Reviewed by demo seed"
			r := "Blood Bank Manager"
			notes, respondedBy = &n, &r
		}
		_, err := s.pool.Exec(ctx, `
			INSERT INTO hospital_request (id, hospital_id, blood_group, quantity, urgency, status, reason, required_by, admin_notes, responded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			uuid.New(), hospitalIDs[s.rng.Intn(len(hospitalIDs))],
			string(s.randomGroup()), 1+s.rng.Intn(4),
			urgencies[s.rng.Intn(len(urgencies))], status,
			requestReasons[s.rng.Intn(len(requestReasons))],
			time.Now().AddDate(0, 0, 1+s.rng.Intn(7)), notes, respondedBy)
		if err != nil {
			return err
		}
		result.Requests++
	}
	return nil
}

func (s *Seeder) seedEmergencies(ctx context.Context, result *SeedResult) error {
	var existing int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM emergency_request`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	hospitalIDs, err := s.approvedHospitalIDs(ctx)
	if err != nil || len(hospitalIDs) == 0 {
		return err
	}

	var hospitalName string
	if err := s.pool.QueryRow(ctx, `SELECT name FROM hospital WHERE id = $1`, hospitalIDs[0]).Scan(&hospitalName); err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO emergency_request (id, hospital_id, hospital_name, blood_group, units_needed,
			urgency_level, patient_condition, address, latitude, longitude, donors_notified, expires_at)
		VALUES ($1, $2, $3, 'O-', 3, 'critical', 'Multi-trauma road accident victim',
			'Emergency Ward, Gate 2', 19.0760, 72.8777, 25, $4)`,
		uuid.New(), hospitalIDs[0], hospitalName, time.Now().Add(2*time.Hour))
	if err != nil {
		return err
	}
	result.Emergencies++
	return nil
}

func (s *Seeder) seedCamps(ctx context.Context, result *SeedResult) error {
	var existing int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donation_camp`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	for i := 0; i < s.cfg.CampCount && i < len(campNames); i++ {
		city := cities[s.rng.Intn(len(cities))]
		_, err := s.pool.Exec(ctx, `
			INSERT INTO donation_camp (id, name, description, camp_date, start_time, end_time,
				location_name, address, city, organizer, contact_name, contact_phone,
				contact_email, expected_donors, registered_donors, status)
			VALUES ($1, $2, $3, $4, '09:00', '17:00', $5, $6, $7, $8, $9, $10, $11, $12, $13, 'upcoming')`,
			uuid.New(), campNames[i], "Walk-in donors welcome. Refreshments provided.",
			time.Now().AddDate(0, 0, 7*(i+1)),
			fmt.Sprintf("%s Community Hall", city),
			fmt.Sprintf("%d Main Street, %s", 5+i, city), city,
			"BloodLink Foundation", s.personName(), s.phone(),
			fmt.Sprintf("camp%d@bloodlink.demo", i+1),
			50+s.rng.Intn(150), s.rng.Intn(40))
		if err != nil {
			return err
		}
		result.Camps++
	}
	return nil
}

func (s *Seeder) approvedHospitalIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM hospital WHERE is_approved ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Seeder) personName() string {
	return firstNames[s.rng.Intn(len(firstNames))] + " " + lastNames[s.rng.Intn(len(lastNames))]
}

func (s *Seeder) phone() string {
	return fmt.Sprintf("+91-9%09d", s.rng.Intn(1_000_000_000))
}

func (s *Seeder) randomGroup() blood.Group {
	return blood.Groups[s.rng.Intn(len(blood.Groups))]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
