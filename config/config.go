package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

// Config is the full runtime configuration, decoded from the environment.
// The INSECURE_FALLBACK_* pair reproduces the original console's hard-coded
// login; it is a known weakness kept behind an explicit label, not a feature.
type Config struct {
	Port string `env:"PORT,default=8080"`

	SupabaseURL     string `env:"SUPABASE_URL,required"`
	SupabaseAnonKey string `env:"SUPABASE_ANON_KEY,required"`

	JWTSecret string `env:"JWT_SECRET,required"`

	CORSOrigins []string `env:"CORS_ORIGINS,default=http://localhost:3000"`

	FallbackUsername string `env:"INSECURE_FALLBACK_USERNAME"`
	FallbackPassword string `env:"INSECURE_FALLBACK_PASSWORD"`

	RemindersEnabled bool   `env:"REMINDERS_ENABLED,default=false"`
	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `env:"TWILIO_FROM_NUMBER"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.RemindersEnabled && (cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "") {
		return nil, fmt.Errorf("config: REMINDERS_ENABLED requires the TWILIO_* settings")
	}
	return &cfg, nil
}
