package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Booking   BookingConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
	Tasks     TasksConfig
	Forecast  ForecastConfig
	Tariff    TariffConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DBConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	MigrationsPath string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// BookingConfig holds the availability rules applied by the booking lifecycle.
type BookingConfig struct {
	MaxStayNights        int
	EnforceMaxStayOnEdit bool
	LockTTL              time.Duration
	LockWait             time.Duration
}

type MailConfig struct {
	ResendAPIKey  string
	From          string
	PropertyName  string
	SiteURL       string
	RatePerSecond float64
	QueueSize     int
}

// RateLimitConfig limits guest booking requests per client IP. X-Forwarded-For
// is only honoured when the peer matches TrustedProxies (IPs or CIDRs).
type RateLimitConfig struct {
	BookingRequests int
	Window          time.Duration
	TrustedProxies  []string
}

// ForecastConfig points the weekly newsletter at an Open-Meteo compatible API.
type ForecastConfig struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	Timezone  string
	Timeout   time.Duration
}

type TasksConfig struct {
	CronSecret string
	DailyHour  int
}

// AdminConfig seeds the first admin account on startup when Email is set.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// TariffConfig is the per-person per-night rate card quoted to guests.
type TariffConfig struct {
	FamilyAdult        decimal.Decimal
	FamilyGrandchild   decimal.Decimal
	StandardAdult      decimal.Decimal
	YoungPersonStudent decimal.Decimal
	CleaningCharge     decimal.Decimal
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Environment variables alone are enough outside local development.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:     viper.GetString("APP_PORT"),
			Env:      viper.GetString("APP_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASSWORD"),
			Name:           viper.GetString("DB_NAME"),
			MigrationsPath: viper.GetString("DB_MIGRATIONS_PATH"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: parseDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),
		},
		Booking: BookingConfig{
			MaxStayNights:        viper.GetInt("BOOKING_MAX_STAY_NIGHTS"),
			EnforceMaxStayOnEdit: viper.GetBool("BOOKING_ENFORCE_MAX_STAY_ON_EDIT"),
			LockTTL:              parseDuration("BOOKING_LOCK_TTL", 10*time.Second),
			LockWait:             parseDuration("BOOKING_LOCK_WAIT", 3*time.Second),
		},
		Mail: MailConfig{
			ResendAPIKey:  viper.GetString("MAIL_RESEND_API_KEY"),
			From:          viper.GetString("MAIL_FROM"),
			PropertyName:  viper.GetString("MAIL_PROPERTY_NAME"),
			SiteURL:       strings.TrimRight(viper.GetString("MAIL_SITE_URL"), "/"),
			RatePerSecond: viper.GetFloat64("MAIL_RATE_PER_SECOND"),
			QueueSize:     viper.GetInt("MAIL_QUEUE_SIZE"),
		},
		RateLimit: RateLimitConfig{
			BookingRequests: viper.GetInt("RATE_LIMIT_BOOKINGS"),
			Window:          parseDuration("RATE_LIMIT_WINDOW", 24*time.Hour),
			TrustedProxies:  splitList(viper.GetString("RATE_LIMIT_TRUSTED_PROXIES")),
		},
		Tasks: TasksConfig{
			CronSecret: viper.GetString("CRON_SECRET"),
			DailyHour:  viper.GetInt("DAILY_TASKS_HOUR"),
		},
		Forecast: ForecastConfig{
			BaseURL:   strings.TrimRight(viper.GetString("FORECAST_BASE_URL"), "/"),
			Latitude:  viper.GetFloat64("FORECAST_LATITUDE"),
			Longitude: viper.GetFloat64("FORECAST_LONGITUDE"),
			Timezone:  viper.GetString("FORECAST_TIMEZONE"),
			Timeout:   parseDuration("FORECAST_TIMEOUT", 10*time.Second),
		},
		Tariff: TariffConfig{
			FamilyAdult:        parseDecimal("TARIFF_FAMILY_ADULT"),
			FamilyGrandchild:   parseDecimal("TARIFF_FAMILY_GRANDCHILD"),
			StandardAdult:      parseDecimal("TARIFF_STANDARD_ADULT"),
			YoungPersonStudent: parseDecimal("TARIFF_YOUNG_PERSON"),
			CleaningCharge:     parseDecimal("TARIFF_CLEANING"),
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			Name:     viper.GetString("ADMIN_NAME"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_MIGRATIONS_PATH", "migrations")
	viper.SetDefault("BOOKING_MAX_STAY_NIGHTS", 21)
	viper.SetDefault("BOOKING_ENFORCE_MAX_STAY_ON_EDIT", false)
	viper.SetDefault("MAIL_PROPERTY_NAME", "Cornerstones")
	viper.SetDefault("MAIL_RATE_PER_SECOND", 2)
	viper.SetDefault("MAIL_QUEUE_SIZE", 256)
	viper.SetDefault("RATE_LIMIT_BOOKINGS", 5)
	viper.SetDefault("DAILY_TASKS_HOUR", 8)
	viper.SetDefault("FORECAST_BASE_URL", "https://api.open-meteo.com")
	viper.SetDefault("FORECAST_LATITUDE", 50.40)
	viper.SetDefault("FORECAST_LONGITUDE", -5.11)
	viper.SetDefault("FORECAST_TIMEZONE", "Europe/London")
	viper.SetDefault("ADMIN_NAME", "Administrator")
	viper.SetDefault("TARIFF_FAMILY_ADULT", "32")
	viper.SetDefault("TARIFF_FAMILY_GRANDCHILD", "25")
	viper.SetDefault("TARIFF_STANDARD_ADULT", "40")
	viper.SetDefault("TARIFF_YOUNG_PERSON", "12")
	viper.SetDefault("TARIFF_CLEANING", "40")
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseDecimal(key string) decimal.Decimal {
	d, err := decimal.NewFromString(viper.GetString(key))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// splitList reads a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
