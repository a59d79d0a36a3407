package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// KafkaConfig holds broker settings. An empty broker list switches the
// service to the in-process event bus.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// LoyaltyConfig controls the voucher issued to repeat clients.
type LoyaltyConfig struct {
	Every      int
	Percentage int
	ValidDays  int
}

// ServiceConfig holds all configuration for the booking API.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	Storage       string
	Timezone      string
	DBConfig      DatabaseConfig
	JWTConfig     JWTConfig
	KafkaConfig   KafkaConfig
	Loyalty       LoyaltyConfig
	ReminderCron  string
	CORSOrigins   []string
	MigrationsDir string
}

// ClientConfig holds configuration for the terminal front end.
type ClientConfig struct {
	APIURL    string
	Timezone  string
	User      string
	Role      string
	Token     string
	RedisURL  string
	CacheTTL  time.Duration
	RateLimit float64
	RateBurst int
	LogFile   string
	Debug     bool
}

// Load reads configuration from environment variables and returns a ServiceConfig.
func Load() (*ServiceConfig, error) {
	v, err := newViper("booking")
	if err != nil {
		return nil, err
	}

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORAGE", "postgres")
	v.SetDefault("TZ_NAME", "America/Sao_Paulo")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "barbearia")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("KAFKA_GROUP_PREFIX", "barbearia-")
	v.SetDefault("LOYALTY_EVERY", 5)
	v.SetDefault("LOYALTY_PERCENTAGE", 10)
	v.SetDefault("LOYALTY_VALID_DAYS", 30)
	v.SetDefault("REMINDER_CRON", "0 18 * * *")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	cfg := &ServiceConfig{
		Port:     servicePort(v.GetString("SERVICE_PORT")),
		AppEnv:   v.GetString("APP_ENV"),
		Storage:  strings.ToLower(v.GetString("STORAGE")),
		Timezone: v.GetString("TZ_NAME"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{
			Secret:   secret,
			TokenTTL: v.GetDuration("JWT_TTL"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		Loyalty: LoyaltyConfig{
			Every:      v.GetInt("LOYALTY_EVERY"),
			Percentage: v.GetInt("LOYALTY_PERCENTAGE"),
			ValidDays:  v.GetInt("LOYALTY_VALID_DAYS"),
		},
		ReminderCron:  v.GetString("REMINDER_CRON"),
		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
	}

	if cfg.Storage != "postgres" && cfg.Storage != "memory" {
		return nil, fmt.Errorf("STORAGE must be postgres or memory, got %q", cfg.Storage)
	}
	if cfg.Loyalty.Percentage < 0 || cfg.Loyalty.Percentage > 100 {
		return nil, fmt.Errorf("LOYALTY_PERCENTAGE must be within 0..100, got %d", cfg.Loyalty.Percentage)
	}
	return cfg, nil
}

// LoadClient reads the terminal client configuration.
func LoadClient() (*ClientConfig, error) {
	v, err := newViper("barbearia")
	if err != nil {
		return nil, err
	}

	v.SetDefault("BARBEARIA_API_URL", "http://localhost:8080")
	v.SetDefault("TZ_NAME", "America/Sao_Paulo")
	v.SetDefault("BARBEARIA_CACHE_TTL", "5m")
	v.SetDefault("BARBEARIA_RATE_LIMIT", 5.0)
	v.SetDefault("BARBEARIA_RATE_BURST", 10)
	v.SetDefault("BARBEARIA_LOG_FILE", "barbearia.log")

	return &ClientConfig{
		APIURL:    strings.TrimRight(v.GetString("BARBEARIA_API_URL"), "/"),
		Timezone:  v.GetString("TZ_NAME"),
		User:      v.GetString("BARBEARIA_USER"),
		Role:      v.GetString("BARBEARIA_ROLE"),
		Token:     v.GetString("BARBEARIA_TOKEN"),
		RedisURL:  v.GetString("BARBEARIA_REDIS_URL"),
		CacheTTL:  v.GetDuration("BARBEARIA_CACHE_TTL"),
		RateLimit: v.GetFloat64("BARBEARIA_RATE_LIMIT"),
		RateBurst: v.GetInt("BARBEARIA_RATE_BURST"),
		LogFile:   v.GetString("BARBEARIA_LOG_FILE"),
		Debug:     v.GetBool("BARBEARIA_DEBUG"),
	}, nil
}

// DatabaseURL renders the connection as a migrate-compatible URL.
func (c DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// DSN renders the connection as a libpq keyword string for GORM.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Location resolves the configured timezone, falling back to the host's.
func Location(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func newViper(name string) (*viper.Viper, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read %s config: %w", name, err)
		}
	}
	return v, nil
}

func servicePort(p string) string {
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
