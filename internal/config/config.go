package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseWebAPIKey                string `mapstructure:"FIREBASE_WEB_API_KEY"` // Identity Toolkit sign-in
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	TMDBAPIKey         string        `mapstructure:"TMDB_API_KEY"`
	TMDBTimeout        time.Duration `mapstructure:"TMDB_TIMEOUT"`
	TMDBRequestsPerSec float64       `mapstructure:"TMDB_REQUESTS_PER_SECOND"`
	TMDBBurst          int           `mapstructure:"TMDB_BURST"`
	TMDBCacheTTL       time.Duration `mapstructure:"TMDB_CACHE_TTL"`

	SearchRetries          int           `mapstructure:"SEARCH_RETRIES"`
	SearchRetryDelay       time.Duration `mapstructure:"SEARCH_RETRY_DELAY"`
	RecommendationTimeout  time.Duration `mapstructure:"RECOMMENDATION_TIMEOUT"`
	SessionLoadTimeout     time.Duration `mapstructure:"SESSION_LOAD_TIMEOUT"`
	InboundRequestsPerSec  float64       `mapstructure:"RATE_LIMIT_PER_SECOND"`
	InboundBurst           int           `mapstructure:"RATE_LIMIT_BURST"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"` // empty disables the response cache
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	AMQPURL        string `mapstructure:"AMQP_URL"` // empty selects the in-process event broker
	AuthEventQueue string `mapstructure:"AUTH_EVENT_QUEUE"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`
}

var envKeys = []string{
	"PORT", "GIN_MODE", "CLIENT_URL",
	"FIREBASE_PROJECT_ID", "FIREBASE_WEB_API_KEY",
	"GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"TMDB_API_KEY", "TMDB_TIMEOUT", "TMDB_REQUESTS_PER_SECOND", "TMDB_BURST", "TMDB_CACHE_TTL",
	"SEARCH_RETRIES", "SEARCH_RETRY_DELAY", "RECOMMENDATION_TIMEOUT", "SESSION_LOAD_TIMEOUT",
	"RATE_LIMIT_PER_SECOND", "RATE_LIMIT_BURST",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"AMQP_URL", "AUTH_EVENT_QUEUE",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "MAIL_SENDER",
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("CLIENT_URL", "http://localhost:3000")
	v.SetDefault("TMDB_TIMEOUT", "10s")
	v.SetDefault("TMDB_REQUESTS_PER_SECOND", 20)
	v.SetDefault("TMDB_BURST", 40)
	v.SetDefault("TMDB_CACHE_TTL", "10m")
	v.SetDefault("SEARCH_RETRIES", 3)
	v.SetDefault("SEARCH_RETRY_DELAY", "1s")
	v.SetDefault("RECOMMENDATION_TIMEOUT", "10s")
	v.SetDefault("SESSION_LOAD_TIMEOUT", "15s")
	v.SetDefault("RATE_LIMIT_PER_SECOND", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AUTH_EVENT_QUEUE", "auth_state_changes")
	v.SetDefault("SMTP_PORT", "2525")
	v.SetDefault("MAIL_SENDER", "no-reply@cinedex.local")

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	// Validate required fields
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.FirebaseWebAPIKey == "" {
		return nil, errors.New("FIREBASE_WEB_API_KEY is required")
	}
	if cfg.TMDBAPIKey == "" {
		return nil, errors.New("TMDB_API_KEY is required")
	}
	if cfg.SearchRetries < 1 {
		return nil, errors.New("SEARCH_RETRIES must be at least 1")
	}

	return &cfg, nil
}

// MailEnabled reports whether SMTP delivery of verification e-mails is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != ""
}
