package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Page loader kinds
const (
	LoaderBrowser = "browser"
	LoaderHTTP    = "http"
)

// Export backends
const (
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
)

type Config struct {
	// Server
	Port           string
	AllowedOrigins string

	// Environment
	Environment string
	LogLevel    string

	// Google Sheets
	GoogleDocumentID  string
	GoogleClientEmail string
	GooglePrivateKey  string

	// Page loading
	PageLoader  string
	PageTimeout time.Duration
	ChromePath  string

	// Export
	ExportBackend string
	ExportFile    string

	// S3/Garage snapshot archive
	S3Enabled   bool
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	S3Region    string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("SERVER_PORT", "3333"),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		GoogleDocumentID:  getEnv("GOOGLE_DOCUMENT_ID", ""),
		GoogleClientEmail: getEnv("GOOGLE_CLIENT_EMAIL", ""),
		GooglePrivateKey:  expandNewlines(getEnv("GOOGLE_PRIVATE_KEY", "")),
		PageLoader:        strings.ToLower(getEnv("PAGE_LOADER", LoaderBrowser)),
		PageTimeout:       getDurationEnv("PAGE_TIMEOUT_SECONDS", 0) * time.Second,
		ChromePath:        getEnv("CHROME_PATH", ""),
		ExportBackend:     strings.ToLower(getEnv("EXPORT_BACKEND", BackendSheets)),
		ExportFile:        getEnv("EXPORT_FILE", "nfes.xlsx"),
		S3Enabled:         getBoolEnv("S3_ENABLED", false),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:3900"),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		S3Bucket:          getEnv("S3_BUCKET", "nfe-snapshots"),
		S3UseSSL:          getBoolEnv("S3_USE_SSL", false),
		S3Region:          getEnv("S3_REGION", "garage"),
	}
}

// Validate checks the enumerated settings.
// Missing Google settings are not an error here; they fail the export step instead.
func (c *Config) Validate() error {
	switch c.PageLoader {
	case LoaderBrowser, LoaderHTTP:
	default:
		return fmt.Errorf("invalid PAGE_LOADER %q: want %q or %q", c.PageLoader, LoaderBrowser, LoaderHTTP)
	}

	switch c.ExportBackend {
	case BackendSheets, BackendXLSX:
	default:
		return fmt.Errorf("invalid EXPORT_BACKEND %q: want %q or %q", c.ExportBackend, BackendSheets, BackendXLSX)
	}

	if c.S3Enabled && (c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "") {
		return fmt.Errorf("S3_ENABLED requires S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY")
	}

	return nil
}

// HasGoogleCredentials reports whether both halves of the service account are set
func (c *Config) HasGoogleCredentials() bool {
	return c.GoogleClientEmail != "" && c.GooglePrivateKey != ""
}

// expandNewlines turns literal "\n" sequences, common in .env files, into newlines
func expandNewlines(value string) string {
	return strings.ReplaceAll(value, `\n`, "\n")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
	}
	return time.Duration(defaultValue)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
