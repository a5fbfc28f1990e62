package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret   string   `mapstructure:"JWT_SECRET"`
	TokenTTL    int      `mapstructure:"TOKEN_TTL_HOURS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	// Reward configuration: points per transaction type and rank thresholds.
	RewardDonationPoints  int `mapstructure:"REWARD_DONATION_POINTS"`
	RewardEmergencyPoints int `mapstructure:"REWARD_EMERGENCY_POINTS"`
	RewardT1              int `mapstructure:"REWARD_T1"`
	RewardT2              int `mapstructure:"REWARD_T2"`
	RewardT3              int `mapstructure:"REWARD_T3"`
	RewardT4              int `mapstructure:"REWARD_T4"`

	// Analytics thresholds.
	LowStockThreshold int `mapstructure:"LOW_STOCK_THRESHOLD"`
	ExpiryWindowDays  int `mapstructure:"EXPIRY_WINDOW_DAYS"`

	// Emergency broadcast default TTL.
	EmergencyTTLHours int `mapstructure:"EMERGENCY_TTL_HOURS"`

	// External eRaktKosh gateway. Empty means the built-in mock provider.
	ERaktKoshBaseURL string `mapstructure:"ERAKTKOSH_BASE_URL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL_HOURS", 24)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REWARD_DONATION_POINTS", 100)
	v.SetDefault("REWARD_EMERGENCY_POINTS", 200)
	v.SetDefault("REWARD_T1", 100)
	v.SetDefault("REWARD_T2", 300)
	v.SetDefault("REWARD_T3", 600)
	v.SetDefault("REWARD_T4", 1000)
	v.SetDefault("LOW_STOCK_THRESHOLD", 5)
	v.SetDefault("EXPIRY_WINDOW_DAYS", 7)
	v.SetDefault("EMERGENCY_TTL_HOURS", 2)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"JWT_SECRET", "TOKEN_TTL_HOURS", "CORS_ORIGINS",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"REWARD_DONATION_POINTS", "REWARD_EMERGENCY_POINTS",
		"REWARD_T1", "REWARD_T2", "REWARD_T3", "REWARD_T4",
		"LOW_STOCK_THRESHOLD", "EXPIRY_WINDOW_DAYS", "EMERGENCY_TTL_HOURS",
		"ERAKTKOSH_BASE_URL",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return nil, fmt.Errorf("JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "dev-secret-do-not-use-in-production"
		log.Println("WARNING: JWT_SECRET not set, using insecure development default")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is internally consistent: rank
// thresholds must be strictly ascending so that rank(points) stays monotonic.
func (c *Config) Validate() error {
	if !(0 < c.RewardT1 && c.RewardT1 < c.RewardT2 && c.RewardT2 < c.RewardT3 && c.RewardT3 < c.RewardT4) {
		return fmt.Errorf("reward thresholds must be strictly ascending, got %d < %d < %d < %d",
			c.RewardT1, c.RewardT2, c.RewardT3, c.RewardT4)
	}
	if c.RewardDonationPoints <= 0 || c.RewardEmergencyPoints <= 0 {
		return fmt.Errorf("reward point amounts must be positive")
	}
	if c.LowStockThreshold < 0 || c.ExpiryWindowDays <= 0 {
		return fmt.Errorf("invalid analytics thresholds")
	}
	if c.EmergencyTTLHours <= 0 {
		return fmt.Errorf("EMERGENCY_TTL_HOURS must be positive")
	}
	return nil
}
