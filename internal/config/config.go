package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Store     StoreConfig
	OCR       OCRConfig
	Extractor ExtractorConfig
	Queue     QueueConfig
	Storage   StorageConfig
	Notify    NotifyConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// AuthConfig holds the single-operator credential and JWT settings.
type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenExpiry  time.Duration `mapstructure:"token_expiry"`
	Issuer       string        `mapstructure:"issuer"`
	PasswordHash string        `mapstructure:"password_hash"`
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// OCRConfig holds OCR engine settings.
type OCRConfig struct {
	Tesseract   string `mapstructure:"tesseract"`
	Language    string `mapstructure:"language"`
	TessdataDir string `mapstructure:"tessdata_dir"`
	PSM         int    `mapstructure:"psm"`
	Preprocess  bool   `mapstructure:"preprocess"`
}

// ProviderConfig holds settings for a single extraction provider.
type ProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds cloud extraction settings with provider fallback.
type ExtractorConfig struct {
	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not
// configured.
func (e *ExtractorConfig) SecondaryConfig() *ProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// QueueConfig holds background scan queue settings.
type QueueConfig struct {
	DBPath            string `mapstructure:"db_path"`
	PollIntervalSecs  int    `mapstructure:"poll_interval_secs"`
	Concurrency       int    `mapstructure:"concurrency"`
	MaxAttempts       int    `mapstructure:"max_attempts"`
	MinBackoffSecs    int    `mapstructure:"min_backoff_secs"`
	ConnectivityProbe string `mapstructure:"connectivity_probe"`
}

// StorageConfig selects where export artifacts are published.
type StorageConfig struct {
	Driver    string `mapstructure:"driver"` // "local" or "s3"
	LocalDir  string `mapstructure:"local_dir"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// NotifyConfig holds job-outcome notification settings.
type NotifyConfig struct {
	Provider    string `mapstructure:"provider"` // "noop" or "ses"
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	ToAddress   string `mapstructure:"to_address"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the
// CARGOSCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CARGOSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.token_expiry", "12h")
	v.SetDefault("auth.issuer", "cargoscan")
	v.SetDefault("auth.password_hash", "")

	// Store defaults
	v.SetDefault("store.data_dir", "./data")

	// OCR defaults
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.language", "spa+eng")
	v.SetDefault("ocr.tessdata_dir", "")
	v.SetDefault("ocr.psm", 0)
	v.SetDefault("ocr.preprocess", true)

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "claude")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.model", "")
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.model", "")
	v.SetDefault("extractor.secondary.timeout_secs", 120)

	// Queue defaults
	v.SetDefault("queue.db_path", "./data/scanjobs.db")
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.concurrency", 2)
	v.SetDefault("queue.max_attempts", 5)
	v.SetDefault("queue.min_backoff_secs", 30)
	v.SetDefault("queue.connectivity_probe", "api.anthropic.com:443")

	// Storage defaults
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "./exports/CargoScan")
	v.SetDefault("storage.region", "eu-west-1")
	v.SetDefault("storage.bucket", "cargoscan-exports")
	v.SetDefault("storage.endpoint", "")

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "eu-west-1")
	v.SetDefault("notify.from_address", "noreply@cargoscan.local")
	v.SetDefault("notify.to_address", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "CARGOSCAN_SERVER_PORT",
		"server.read_timeout":          "CARGOSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "CARGOSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":           "CARGOSCAN_SERVER_ENVIRONMENT",
		"auth.jwt_secret":              "CARGOSCAN_AUTH_JWT_SECRET",
		"auth.token_expiry":            "CARGOSCAN_AUTH_TOKEN_EXPIRY",
		"auth.issuer":                  "CARGOSCAN_AUTH_ISSUER",
		"auth.password_hash":           "CARGOSCAN_AUTH_PASSWORD_HASH",
		"store.data_dir":               "CARGOSCAN_STORE_DATA_DIR",
		"ocr.tesseract":                "CARGOSCAN_OCR_TESSERACT",
		"ocr.language":                 "CARGOSCAN_OCR_LANGUAGE",
		"ocr.tessdata_dir":             "CARGOSCAN_OCR_TESSDATA_DIR",
		"ocr.psm":                      "CARGOSCAN_OCR_PSM",
		"ocr.preprocess":               "CARGOSCAN_OCR_PREPROCESS",
		"extractor.primary.provider":   "CARGOSCAN_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":    "CARGOSCAN_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.model":      "CARGOSCAN_EXTRACTOR_PRIMARY_MODEL",
		"extractor.primary.timeout_secs": "CARGOSCAN_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider": "CARGOSCAN_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":  "CARGOSCAN_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.model":    "CARGOSCAN_EXTRACTOR_SECONDARY_MODEL",
		"extractor.secondary.timeout_secs": "CARGOSCAN_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"queue.db_path":                "CARGOSCAN_QUEUE_DB_PATH",
		"queue.poll_interval_secs":     "CARGOSCAN_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":            "CARGOSCAN_QUEUE_CONCURRENCY",
		"queue.max_attempts":           "CARGOSCAN_QUEUE_MAX_ATTEMPTS",
		"queue.min_backoff_secs":       "CARGOSCAN_QUEUE_MIN_BACKOFF_SECS",
		"queue.connectivity_probe":     "CARGOSCAN_QUEUE_CONNECTIVITY_PROBE",
		"storage.driver":               "CARGOSCAN_STORAGE_DRIVER",
		"storage.local_dir":            "CARGOSCAN_STORAGE_LOCAL_DIR",
		"storage.region":               "CARGOSCAN_STORAGE_REGION",
		"storage.bucket":               "CARGOSCAN_STORAGE_BUCKET",
		"storage.endpoint":             "CARGOSCAN_STORAGE_ENDPOINT",
		"storage.access_key":           "CARGOSCAN_STORAGE_ACCESS_KEY",
		"storage.secret_key":           "CARGOSCAN_STORAGE_SECRET_KEY",
		"notify.provider":              "CARGOSCAN_NOTIFY_PROVIDER",
		"notify.region":                "CARGOSCAN_NOTIFY_REGION",
		"notify.from_address":          "CARGOSCAN_NOTIFY_FROM_ADDRESS",
		"notify.to_address":            "CARGOSCAN_NOTIFY_TO_ADDRESS",
		"cors.allowed_origins":         "CARGOSCAN_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// PaaS platforms set a PORT env var. Use it unless the explicit
	// override is present.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CARGOSCAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Auth = AuthConfig{
		JWTSecret:    v.GetString("auth.jwt_secret"),
		TokenExpiry:  v.GetDuration("auth.token_expiry"),
		Issuer:       v.GetString("auth.issuer"),
		PasswordHash: v.GetString("auth.password_hash"),
	}
	cfg.Store = StoreConfig{
		DataDir: v.GetString("store.data_dir"),
	}
	cfg.OCR = OCRConfig{
		Tesseract:   v.GetString("ocr.tesseract"),
		Language:    v.GetString("ocr.language"),
		TessdataDir: v.GetString("ocr.tessdata_dir"),
		PSM:         v.GetInt("ocr.psm"),
		Preprocess:  v.GetBool("ocr.preprocess"),
	}
	cfg.Extractor = ExtractorConfig{
		Primary: ProviderConfig{
			Provider:    v.GetString("extractor.primary.provider"),
			APIKey:      v.GetString("extractor.primary.api_key"),
			Model:       v.GetString("extractor.primary.model"),
			TimeoutSecs: v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ProviderConfig{
			Provider:    v.GetString("extractor.secondary.provider"),
			APIKey:      v.GetString("extractor.secondary.api_key"),
			Model:       v.GetString("extractor.secondary.model"),
			TimeoutSecs: v.GetInt("extractor.secondary.timeout_secs"),
		},
	}
	cfg.Queue = QueueConfig{
		DBPath:            v.GetString("queue.db_path"),
		PollIntervalSecs:  v.GetInt("queue.poll_interval_secs"),
		Concurrency:       v.GetInt("queue.concurrency"),
		MaxAttempts:       v.GetInt("queue.max_attempts"),
		MinBackoffSecs:    v.GetInt("queue.min_backoff_secs"),
		ConnectivityProbe: v.GetString("queue.connectivity_probe"),
	}
	cfg.Storage = StorageConfig{
		Driver:    v.GetString("storage.driver"),
		LocalDir:  v.GetString("storage.local_dir"),
		Region:    v.GetString("storage.region"),
		Bucket:    v.GetString("storage.bucket"),
		Endpoint:  v.GetString("storage.endpoint"),
		AccessKey: v.GetString("storage.access_key"),
		SecretKey: v.GetString("storage.secret_key"),
	}
	cfg.Notify = NotifyConfig{
		Provider:    v.GetString("notify.provider"),
		Region:      v.GetString("notify.region"),
		FromAddress: v.GetString("notify.from_address"),
		ToAddress:   v.GetString("notify.to_address"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
