package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the callops processes. All values come
// from env (a .env file is loaded first when present). No business logic
// should depend on raw environment variables.
type Config struct {
	App      AppConfig
	Snapshot SnapshotConfig
	DB       DBConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// SnapshotConfig selects where the state snapshot lives.
type SnapshotConfig struct {
	// Backend is one of file, sqlite, redis, postgres.
	Backend string
	// Path is the file or sqlite database location; ignored by the other
	// backends.
	Path string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host string
	Port int
}

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

func Load() (Config, error) {
	_ = godotenv.Load() // loads .env when present

	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	if c.App.Env == "" {
		c.App.Env = "local"
	}
	c.App.Port = optionalInt("APP_PORT", 8080, &parseErrs)

	c.Snapshot.Backend = strings.TrimSpace(os.Getenv("SNAPSHOT_BACKEND"))
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = BackendFile
	}
	c.Snapshot.Path = strings.TrimSpace(os.Getenv("SNAPSHOT_PATH"))

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	c.DB.Port = optionalInt("DB_PORT", 5432, &parseErrs)
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	c.Redis.Port = optionalInt("REDIS_PORT", 6379, &parseErrs)

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate applies defaults and cross-field rules. DB and Redis settings are
// required only when their backend is selected.
func (c *Config) Validate() error {
	var errs []error

	if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	switch c.Snapshot.Backend {
	case BackendFile:
		if c.Snapshot.Path == "" {
			c.Snapshot.Path = "callops-state.json"
		}
	case BackendSQLite:
		if c.Snapshot.Path == "" {
			c.Snapshot.Path = "callops-state.db"
		}
	case BackendRedis:
		if c.Redis.Host == "" {
			errs = append(errs, errors.New("REDIS_HOST is required for the redis snapshot backend"))
		}
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
		}
	case BackendPostgres:
		if c.DB.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required for the postgres snapshot backend"))
		}
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required for the postgres snapshot backend"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required for the postgres snapshot backend"))
		}
		if c.DB.Port <= 0 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
		}
		if c.DB.SSLMode == "" {
			if c.IsProduction() {
				errs = append(errs, errors.New("DB_SSLMODE is required in production"))
			} else {
				c.DB.SSLMode = "disable"
			}
		}
		if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
			errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
		}
	default:
		errs = append(errs, fmt.Errorf("SNAPSHOT_BACKEND must be one of file, sqlite, redis, postgres, got %q", c.Snapshot.Backend))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func optionalInt(key string, fallback int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return 0
	}
	return n
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
