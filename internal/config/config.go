package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Storage      StorageConfig
	Attendance   AttendanceConfig
	RateLimit    RateLimitConfig
	OAuth2Google OAuth2GoogleConfig
	Bootstrap    BootstrapConfig
	Telemetry    TelemetryConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// AttendanceConfig holds the operational clock of the attendance domain and
// the fallback values used while no settings row has been saved.
type AttendanceConfig struct {
	Timezone string

	QRCheckInStart  string
	QRCheckInEnd    string
	QRCheckOutStart string
	QRCheckOutEnd   string
	QRJobInterval   time.Duration

	AlphaRunHour int

	DefaultCheckInStart    string
	DefaultCheckInEnd      string
	DefaultCheckOutTime    string
	DefaultLateTolerance   string
	DefaultRadiusMeters    int
	DefaultOfficeAddress   string
	DefaultOfficeLatitude  float64
	DefaultOfficeLongitude float64
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Enabled reports whether Google sign-in is configured.
func (c OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint string
	Insecure bool
}

type BootstrapConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "absensi"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: autoMigrate,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "absensi-backend"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/api/v1/uploads"),
	}

	// Attendance configuration
	qrInterval, err := time.ParseDuration(getEnv("QR_JOB_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid QR_JOB_INTERVAL: %w", err)
	}
	alphaHour, err := strconv.Atoi(getEnv("ALPHA_RUN_HOUR", "18"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALPHA_RUN_HOUR: %w", err)
	}
	radius, err := strconv.Atoi(getEnv("OFFICE_RADIUS_METERS", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_RADIUS_METERS: %w", err)
	}
	officeLat, err := strconv.ParseFloat(getEnv("OFFICE_LATITUDE", "-6.200000"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_LATITUDE: %w", err)
	}
	officeLon, err := strconv.ParseFloat(getEnv("OFFICE_LONGITUDE", "106.816666"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_LONGITUDE: %w", err)
	}

	config.Attendance = AttendanceConfig{
		Timezone:               getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		QRCheckInStart:         getEnv("QR_CHECKIN_START", "06:00"),
		QRCheckInEnd:           getEnv("QR_CHECKIN_END", "11:00"),
		QRCheckOutStart:        getEnv("QR_CHECKOUT_START", "14:00"),
		QRCheckOutEnd:          getEnv("QR_CHECKOUT_END", "21:00"),
		QRJobInterval:          qrInterval,
		AlphaRunHour:           alphaHour,
		DefaultCheckInStart:    getEnv("DEFAULT_CHECKIN_START", "07:00"),
		DefaultCheckInEnd:      getEnv("DEFAULT_CHECKIN_END", "09:00"),
		DefaultCheckOutTime:    getEnv("DEFAULT_CHECKOUT_TIME", "17:00"),
		DefaultLateTolerance:   getEnv("DEFAULT_LATE_TOLERANCE", "08:00"),
		DefaultRadiusMeters:    radius,
		DefaultOfficeAddress:   getEnv("OFFICE_ADDRESS", "Kantor Pusat"),
		DefaultOfficeLatitude:  officeLat,
		DefaultOfficeLongitude: officeLon,
	}

	perMinute, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	config.RateLimit = RateLimitConfig{
		PerMinute: perMinute,
		Burst:     burst,
	}

	// OAuth2 Google Configuration, optional
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		Scopes:       getEnvSlice("GOOGLE_SCOPES", "openid,email,profile"),
	}

	config.Bootstrap = BootstrapConfig{
		AdminName:     getEnv("BOOTSTRAP_ADMIN_NAME", "Administrator"),
		AdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	otelInsecure, err := strconv.ParseBool(getEnv("OTEL_EXPORTER_OTLP_INSECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_EXPORTER_OTLP_INSECURE: %w", err)
	}
	config.Telemetry = TelemetryConfig{
		Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Insecure: otelInsecure,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	clocks := map[string]string{
		"QR_CHECKIN_START":       c.Attendance.QRCheckInStart,
		"QR_CHECKIN_END":         c.Attendance.QRCheckInEnd,
		"QR_CHECKOUT_START":      c.Attendance.QRCheckOutStart,
		"QR_CHECKOUT_END":        c.Attendance.QRCheckOutEnd,
		"DEFAULT_CHECKIN_START":  c.Attendance.DefaultCheckInStart,
		"DEFAULT_CHECKIN_END":    c.Attendance.DefaultCheckInEnd,
		"DEFAULT_CHECKOUT_TIME":  c.Attendance.DefaultCheckOutTime,
		"DEFAULT_LATE_TOLERANCE": c.Attendance.DefaultLateTolerance,
	}
	for key, value := range clocks {
		if _, err := time.Parse("15:04", value); err != nil {
			return fmt.Errorf("%s must be in HH:MM format", key)
		}
	}

	if c.Attendance.AlphaRunHour < 0 || c.Attendance.AlphaRunHour > 23 {
		return errors.New("ALPHA_RUN_HOUR must be between 0 and 23")
	}
	if c.Attendance.DefaultRadiusMeters < 10 {
		return errors.New("OFFICE_RADIUS_METERS must be at least 10")
	}
	if c.Attendance.QRJobInterval <= 0 {
		return errors.New("QR_JOB_INTERVAL must be positive")
	}
	if c.Storage.Type != "local" {
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the operational timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
