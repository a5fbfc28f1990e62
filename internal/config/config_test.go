package config

import "testing"

func validConfig() *Config {
	return &Config{
		Env:                   "development",
		RewardDonationPoints:  100,
		RewardEmergencyPoints: 200,
		RewardT1:              100,
		RewardT2:              300,
		RewardT3:              600,
		RewardT4:              1000,
		LowStockThreshold:     5,
		ExpiryWindowDays:      7,
		EmergencyTTLHours:     2,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"equal thresholds", func(c *Config) { c.RewardT2 = c.RewardT1 }},
		{"descending thresholds", func(c *Config) { c.RewardT3 = 50 }},
		{"zero first threshold", func(c *Config) { c.RewardT1 = 0 }},
		{"zero donation points", func(c *Config) { c.RewardDonationPoints = 0 }},
		{"negative emergency points", func(c *Config) { c.RewardEmergencyPoints = -1 }},
		{"negative low stock", func(c *Config) { c.LowStockThreshold = -1 }},
		{"zero expiry window", func(c *Config) { c.ExpiryWindowDays = 0 }},
		{"zero emergency ttl", func(c *Config) { c.EmergencyTTLHours = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/bloodlink_test")
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("port = %s, want 8000", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("ENV=development should report IsDev")
	}
	if cfg.JWTSecret == "" {
		t.Error("development should fall back to a default JWT secret")
	}
	if cfg.RewardDonationPoints != 100 || cfg.RewardEmergencyPoints != 200 {
		t.Errorf("reward defaults = %d/%d", cfg.RewardDonationPoints, cfg.RewardEmergencyPoints)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadRequiresSecretOutsideDev(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/bloodlink")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET in production")
	}
}
