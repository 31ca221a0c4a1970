package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	BcryptCost int

	// comma-separated; empty allows any origin
	CORSAllowedOrigins string

	// Base URL of the note-to-code classification service
	ClassifierURL     string
	ClassifierTimeout time.Duration

	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envReader collects parse problems so the caller can log them once a logger exists.
type envReader struct {
	warnings []string
}

func (r *envReader) warn(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *envReader) getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.warn("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func (r *envReader) getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			r.warn("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func (r *envReader) getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.warn("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables. Unparseable values fall back to
// their defaults and are reported in the returned warnings.
func Load() (*Config, []string) {
	var r envReader
	cfg := &Config{
		AppName: getenv("APP_NAME", "medbill-api"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("API_PORT", "3033"),
		GinMode: getenv("GIN_MODE", "release"),

		MongoURI:            getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:       getenv("MONGO_DATABASE", "medbill"),
		MongoConnectTimeout: r.getdur("MONGO_CONNECT_TIMEOUT", 10*time.Second),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    r.getdur("JWT_TTL", time.Hour),

		BcryptCost: r.getint("BCRYPT_COST", 10),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		ClassifierURL:     getenv("CLASSIFIER_URL", "http://localhost:8000"),
		ClassifierTimeout: r.getdur("CLASSIFIER_TIMEOUT", 0),

		HTTPLogEnabled: r.getbool("HTTP_LOG_ENABLED", true),
	}
	return cfg, r.warnings
}

// Validate reports settings the server cannot run with.
func (c *Config) Validate() error {
	// sessions cannot be issued without a signing key
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.MongoURI == "" || c.MongoDatabase == "" {
		return errors.New("MONGO_URI and MONGO_DATABASE are required")
	}
	return nil
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
