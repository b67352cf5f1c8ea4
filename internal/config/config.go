package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	APIPort  string `mapstructure:"API_PORT"`

	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

	CORSOrigins     string `mapstructure:"CORS_ORIGINS"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`

	// Redis role cache, disabled when RedisAddr is empty.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	RoleCacheTTL  time.Duration `mapstructure:"ROLE_CACHE_TTL"`

	NotifyDriver    string `mapstructure:"NOTIFY_DRIVER"`
	NotifyOnBooking bool   `mapstructure:"NOTIFY_ON_BOOKING"`
	NotifyWorkers   int    `mapstructure:"NOTIFY_WORKERS"`
	NotifyQueueSize int    `mapstructure:"NOTIFY_QUEUE_SIZE"`
	EmailSender     string `mapstructure:"EMAIL_SENDER"`
	ClinicAddress   string `mapstructure:"CLINIC_ADDRESS"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	AMQPURL   string `mapstructure:"AMQP_URL"`
	AMQPQueue string `mapstructure:"AMQP_QUEUE"`
}

var keys = map[string]interface{}{
	"ENV":                "development",
	"LOG_LEVEL":          "",
	"API_PORT":           "5000",
	"STORE_DRIVER":       "mongo",
	"MONGO_URI":          "mongodb://localhost:27017",
	"MONGO_DATABASE":     "doctors_portal",
	"JWT_SECRET":         "",
	"TOKEN_TTL":          "24h",
	"CORS_ORIGINS":       "*",
	"RATE_LIMIT_PER_MIN": 200,
	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"ROLE_CACHE_TTL":     "5m",
	"NOTIFY_DRIVER":      "log",
	"NOTIFY_ON_BOOKING":  true,
	"NOTIFY_WORKERS":     2,
	"NOTIFY_QUEUE_SIZE":  100,
	"EMAIL_SENDER":       "no-reply@doctors-portal.local",
	"CLINIC_ADDRESS":     "Andor Killa Bandorban, Bangladesh",
	"SMTP_HOST":          "",
	"SMTP_PORT":          587,
	"SMTP_USERNAME":      "",
	"SMTP_PASSWORD":      "",
	"AMQP_URL":           "",
	"AMQP_QUEUE":         "booking_emails",
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	return FromViper(viper.New())
}

// FromViper binds every known key on v to the environment, applies defaults
// and validates the result.
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	for key, def := range keys {
		v.SetDefault(key, def)
		// AutomaticEnv alone is not enough for Unmarshal to see env-only keys.
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return errors.New("STORE_DRIVER must be mongo or memory")
	}
	switch c.NotifyDriver {
	case "log", "smtp", "amqp":
	default:
		return errors.New("NOTIFY_DRIVER must be log, smtp or amqp")
	}
	if c.NotifyDriver == "smtp" && c.SMTPHost == "" {
		return errors.New("SMTP_HOST is required for the smtp notifier")
	}
	if c.NotifyDriver == "amqp" && c.AMQPURL == "" {
		return errors.New("AMQP_URL is required for the amqp notifier")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
