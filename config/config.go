package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultListingURL  = "https://www.femciutat.cat/promocions-actuals/viladecans-central-placa"
	defaultPriceDocURL = "https://www.femciutat.cat/storage/uploads/viladecans-central-placa/02%20COST%20HAB%20reserva%20vila%202.pdf"
)

// Fetch modes for the listing page.
const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ListingURL       string
	PriceDocumentURL string
	OutputDir        string

	IncludeFloorPlans bool
	IncludePrices     bool

	FetchMode       string
	ChromeBin       string
	UserAgent       string
	HTTPTimeout     time.Duration
	DocumentDelayMs int

	SchemaPath  string
	LogLevel    string
	WriteXLSX   bool
	MetricsFile string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	S3 S3Config
}

// S3Config holds configuration for S3-compatible storage of output files.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

// Enabled reports whether an upload target is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ListingURL:       getEnv("LISTING_URL", defaultListingURL),
		PriceDocumentURL: getEnv("PRICE_DOCUMENT_URL", defaultPriceDocURL),
		OutputDir:        getEnv("OUTPUT_DIR", "output_files"),

		IncludeFloorPlans: getEnvBool("INCLUDE_FLOOR_PLANS", true),
		IncludePrices:     getEnvBool("INCLUDE_PRICES", true),

		FetchMode:       strings.ToLower(getEnv("FETCH_MODE", FetchModeHTTP)),
		ChromeBin:       getEnv("CHROME_BIN", ""),
		UserAgent:       getEnv("USER_AGENT", ""),
		HTTPTimeout:     getEnvDuration("HTTP_TIMEOUT", 0),
		DocumentDelayMs: getEnvInt("DOCUMENT_DELAY_MS", 0),

		SchemaPath:  getEnv("SCHEMA_PATH", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		WriteXLSX:   getEnvBool("WRITE_XLSX", false),
		MetricsFile: getEnv("METRICS_FILE", ""),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "flats_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "eu-west-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("S3_PREFIX", ""),
		},
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
