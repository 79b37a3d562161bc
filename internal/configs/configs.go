package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

type Config struct {
	DataDir                string
	UsersFile              string
	TasksFile              string
	LogsFile               string
	StorageDriver          string
	DatabaseDSN            string
	AppURL                 string
	RateLimit              int
	RedisAddr              string
	RedisLockKey           string
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")

	cfg := Config{
		DataDir:                getEnv("DATA_DIR", "data"),
		UsersFile:              getEnv("USERS_FILE", "users.csv"),
		TasksFile:              getEnv("TASKS_FILE", "tasks.csv"),
		LogsFile:               getEnv("LOGS_FILE", "logs.csv"),
		StorageDriver:          getEnv("STORAGE_DRIVER", DriverCSV),
		DatabaseDSN:            getEnv("DATABASE_DSN", "tasks.db"),
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisLockKey:           getEnv("REDIS_LOCK_KEY", "task_tracker_store_lock"),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	if err := Validate(cfg); err != nil {
		log.Fatal(err)
	}
	return cfg
}

func Validate(cfg Config) error {
	switch cfg.StorageDriver {
	case DriverCSV:
		if cfg.UsersFile == "" || cfg.TasksFile == "" || cfg.LogsFile == "" {
			return fmt.Errorf("USERS_FILE, TASKS_FILE and LOGS_FILE must not be empty")
		}
	case DriverSQLite:
		if cfg.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN must not be empty")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverCSV, DriverSQLite, cfg.StorageDriver)
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

// UsersPath, TasksPath and LogsPath resolve relative file names against DataDir.
func (c Config) UsersPath() string { return c.dataPath(c.UsersFile) }

func (c Config) TasksPath() string { return c.dataPath(c.TasksFile) }

func (c Config) LogsPath() string { return c.dataPath(c.LogsFile) }

func (c Config) dataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
