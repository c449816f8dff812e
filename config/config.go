package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ViewsDir     string
	StaticDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Development  bool
}

type DatabaseConfig struct {
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	QueryTimeout     time.Duration
}

type SessionConfig struct {
	Backend       string
	DefaultUserID int64
	Key           string
}

type RedisConfig struct {
	Address  string
	Username string
	Password string
	DB       int
}

type LogConfig struct {
	File  string
	Level string
}

// getProjectRoot finds the project root by looking for go.mod
func getProjectRoot() (string, error) {
	if projectRoot := os.Getenv("PROJECT_ROOT"); projectRoot != "" {
		return projectRoot, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}

// ResolvePath resolves a path relative to the project root if it's not absolute
func ResolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	projectRoot, err := getProjectRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(projectRoot, path), nil
}

func Load() (*Config, error) {
	viewsDir, err := ResolvePath(getEnv("VIEWS_DIR", "./server/views"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve views directory: %w", err)
	}

	staticDir, err := ResolvePath(getEnv("STATIC_DIR", "./server/static"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static directory: %w", err)
	}

	logFile := getEnv("LOG_FILE", "./log/server.log")
	if logFile != "stdout" && logFile != "-" {
		logFile, err = ResolvePath(logFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("PORT", 3000),
			ViewsDir:     viewsDir,
			StaticDir:    staticDir,
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			Development:  os.Getenv("APP_ENV") == "development",
		},
		Database: DatabaseConfig{
			ConnectionString: getEnv("DATABASE_URL", ""),
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			QueryTimeout:     getEnvAsDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},
		Session: SessionConfig{
			Backend:       strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
			DefaultUserID: getEnvAsInt64("DEFAULT_USER_ID", 1),
			Key:           getEnv("SESSION_KEY", "travelmap:current_user"),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDR", "localhost:6379"),
			Username: getEnv("REDIS_USERNAME", "default"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Log: LogConfig{
			File:  logFile,
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid server port: %d (must be 1-65535)", c.Server.Port))
	}
	if c.Server.ViewsDir == "" {
		errors = append(errors, "views directory (VIEWS_DIR) is required")
	}

	if c.Database.ConnectionString == "" {
		errors = append(errors, "database connection string (DATABASE_URL) is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		errors = append(errors, "database max open connections must be > 0")
	}
	if c.Database.MaxIdleConns < 0 {
		errors = append(errors, "database max idle connections must be >= 0")
	}
	if c.Database.QueryTimeout <= 0 {
		errors = append(errors, "database query timeout must be > 0")
	}

	switch c.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.Redis.Address == "" {
			errors = append(errors, "redis address (REDIS_ADDR) is required for the redis session backend")
		}
		if c.Session.Key == "" {
			errors = append(errors, "session key (SESSION_KEY) is required for the redis session backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("unknown session backend: %q (must be memory or redis)", c.Session.Backend))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PrintSummary logs a summary of the loaded configuration
func (c *Config) PrintSummary() {
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Server: %s\n", c.ServerAddress())
	fmt.Printf("  Database: %s (pool: %d open, %d idle)\n",
		maskConnectionString(c.Database.ConnectionString), c.Database.MaxOpenConns, c.Database.MaxIdleConns)
	fmt.Printf("  Session backend: %s (default user: %d)\n", c.Session.Backend, c.Session.DefaultUserID)
	if c.Session.Backend == SessionBackendRedis {
		fmt.Printf("  Redis: %s (DB: %d)\n", c.Redis.Address, c.Redis.DB)
	}
	fmt.Printf("  Log: %s (level: %s)\n", c.Log.File, c.Log.Level)
}

// maskConnectionString masks sensitive parts of the connection string
func maskConnectionString(connStr string) string {
	if len(connStr) < 20 {
		return "***"
	}
	return connStr[:12] + "..." + connStr[len(connStr)-8:]
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if val, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return val
	}
	return defaultVal
}
