package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort     string
	SeedSource     string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	RedisAddr      string
	DedupeWindow   time.Duration
	HistoryLimit   int
	OutboxSize     int
	AllowedOrigins []string
	Debug          bool
	LogFormat      string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Warn("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		SeedSource:     getEnv("SEED_SOURCE", "fixture"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5431"),
		DBUser:         getEnv("DB_USER", "taskboard_user"),
		DBPassword:     getEnv("DB_PASSWORD", "taskboard_pass"),
		DBName:         getEnv("DB_NAME", "taskboard_db"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		DedupeWindow:   getDuration("DEDUPE_WINDOW", time.Second),
		HistoryLimit:   getInt("HISTORY_LIMIT", 50),
		OutboxSize:     getInt("OUTBOX_SIZE", 256),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"*"}),
		Debug:          getBool("DEBUG", false),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}
}

// DSN is the Postgres connection string for the seed tables.
func (c *Config) DSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=disable"
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.WithField("key", key).Warnf("⚠️  invalid integer %q, using %d", raw, defaultVal)
		return defaultVal
	}
	return n
}

func getBool(key string, defaultVal bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.WithField("key", key).Warnf("⚠️  invalid boolean %q, using %t", raw, defaultVal)
		return defaultVal
	}
	return b
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.WithField("key", key).Warnf("⚠️  invalid duration %q, using %s", raw, defaultVal)
		return defaultVal
	}
	return d
}

func getList(key string, defaultVal []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
