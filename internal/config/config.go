package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabaseDriver string        `yaml:"database_driver"`
	DatabaseDSN    string        `yaml:"database_dsn"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	PageSize       int           `yaml:"page_size"`
	StaticDir      string        `yaml:"static_dir"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

// LoadConfig builds the configuration from defaults, a .env file in the
// working directory (if any), environment variables and finally the YAML
// file at path when path is not empty.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	driver := getEnv("SEEKACLIMB_DATABASE_DRIVER", "sqlite")

	cfg := &Config{
		Addr:           getEnv("SEEKACLIMB_ADDR", ":8080"),
		JWTSecret:      getEnv("SEEKACLIMB_JWT_SECRET", getEnv("JWT_SECRET_KEY", insecureJWTSecret)),
		APITimeout:     getEnvDuration("SEEKACLIMB_TIMEOUT", 15*time.Second),
		DatabaseDriver: driver,
		DatabaseDSN:    getEnv("SEEKACLIMB_DATABASE_DSN", defaultDSN(driver)),
		TokenDuration:  getEnvDuration("SEEKACLIMB_TOKEN_DURATION", 24*time.Hour),
		PageSize:       getEnvInt("SEEKACLIMB_PAGE_SIZE", 10),
		StaticDir:      getEnv("SEEKACLIMB_STATIC_DIR", "static/walls"),
		MigrateOnStart: getEnvBool("SEEKACLIMB_MIGRATE_ON_START", true),
		MaxBodyBytes:   int64(getEnvInt("SEEKACLIMB_MAX_BODY_BYTES", 20<<20)),
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
// The built-in JWT secret is only accepted when SEEKACLIMB_ENV is
// "development".
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.JWTSecret == insecureJWTSecret && os.Getenv("SEEKACLIMB_ENV") != "development" {
		return errors.New("jwt_secret uses the insecure default; set SEEKACLIMB_JWT_SECRET")
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database_driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("database_dsn is required")
	}
	if c.TokenDuration <= 0 {
		return errors.New("token_duration must be positive")
	}
	if c.PageSize <= 0 {
		return errors.New("page_size must be positive")
	}
	if c.StaticDir == "" {
		return errors.New("static_dir is required")
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 20 << 20
	}

	return nil
}

// defaultDSN falls back to the DB_* variables used by existing deployments
// when the driver is postgres.
func defaultDSN(driver string) string {
	if driver != "postgres" {
		return "seekaclimb.db"
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD")),
		Host:     host + ":" + getEnv("DB_PORT", "5432"),
		Path:     "/" + os.Getenv("DB_NAME"),
		RawQuery: "sslmode=" + getEnv("DB_SSLMODE", "disable"),
	}

	return u.String()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}

	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}

	return def
}
