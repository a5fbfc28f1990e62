package sandbox

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultSeedConfig(t *testing.T) {
	cfg := DefaultSeedConfig()
	if cfg.DonorCount <= 0 || cfg.HospitalCount <= 0 || cfg.SpecimenCount <= 0 {
		t.Fatalf("default config has non-positive volumes: %+v", cfg)
	}
	if cfg.HospitalCount > len(hospitalNames) {
		t.Errorf("HospitalCount %d exceeds name pool %d", cfg.HospitalCount, len(hospitalNames))
	}
	if cfg.CampCount > len(campNames) {
		t.Errorf("CampCount %d exceeds name pool %d", cfg.CampCount, len(campNames))
	}
}

func TestSeederIsDeterministic(t *testing.T) {
	a := NewSeeder(nil, SeedConfig{Seed: 7}, zerolog.Nop())
	b := NewSeeder(nil, SeedConfig{Seed: 7}, zerolog.Nop())

	for i := 0; i < 20; i++ {
		if a.personName() != b.personName() {
			t.Fatal("same seed produced different names")
		}
		if a.randomGroup() != b.randomGroup() {
			t.Fatal("same seed produced different blood groups")
		}
	}
}

func TestSeederZeroSeedDefaults(t *testing.T) {
	s := NewSeeder(nil, SeedConfig{}, zerolog.Nop())
	if s.cfg.Seed != 1 {
		t.Errorf("seed = %d, want 1", s.cfg.Seed)
	}
}

func TestGeneratedPhoneFormat(t *testing.T) {
	s := NewSeeder(nil, SeedConfig{Seed: 3}, zerolog.Nop())
	for i := 0; i < 10; i++ {
		p := s.phone()
		if len(p) != 14 || p[:5] != "+91-9" {
			t.Errorf("phone %q not in +91-9XXXXXXXXX form", p)
		}
	}
}
