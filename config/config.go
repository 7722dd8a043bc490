package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"food-marketplace-client/api"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	// APIURL is the marketplace API base, including its /api prefix.
	APIURL        string
	Addr          string
	StoragePath   string
	APITimeout    time.Duration
	RedisURL      string
	DevAPIAddr    string
	DevAPISecret  string
	WatchInterval time.Duration
	Env           string
	GinMode       string
}

// Load reads the environment, after a .env file when one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIURL:        getEnv("API_URL", "http://localhost:8000/api"),
		Addr:          getEnv("ADDR", ":8080"),
		StoragePath:   getEnv("STORAGE_PATH", "marketplace_client.db"),
		APITimeout:    getDuration("API_TIMEOUT", api.DefaultTimeout),
		RedisURL:      getEnv("REDIS_URL", ""),
		DevAPIAddr:    getEnv("DEV_API_ADDR", ""),
		DevAPISecret:  getEnv("JWT_SECRET", "food_marketplace_dev_secret"),
		WatchInterval: getDuration("WATCH_INTERVAL", time.Second),
		Env:           getEnv("APP_ENV", "development"),
		GinMode:       getEnv("GIN_MODE", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go durations ("45s") or a plain number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// OpenStore opens the sqlite database at path. ":memory:" gives a private
// in-memory database pinned to a single connection.
func OpenStore(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func NewLogger(env string) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
