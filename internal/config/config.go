package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBDSN          string
	LogFile        string
	JWTSecret      string
	TokenTTL       time.Duration
	RedisAddr      string
	KafkaBrokers   []string
	OrderTopic     string
	OutboxInterval time.Duration
}

func Load() Config {
	// .env is optional; real environment variables always win.
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded, using process environment")
	}

	cfg := Config{
		Port:           env("PORT", "8081"),
		DBDSN:          env("DB_DSN", "artstore.db"),
		LogFile:        env("LOG_FILE", "./artstore.log"),
		JWTSecret:      env("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:       duration("TOKEN_TTL", 24*time.Hour),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		KafkaBrokers:   list(os.Getenv("KAFKA_BROKERS")),
		OrderTopic:     env("ORDER_TOPIC", "orders.placed"),
		OutboxInterval: duration("OUTBOX_INTERVAL", 2*time.Second),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TOKEN_TTL=%s REDIS_ADDR=%s KAFKA_BROKERS=%v ORDER_TOPIC=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TokenTTL, cfg.RedisAddr, cfg.KafkaBrokers, cfg.OrderTopic)
	return cfg
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[warn] %s=%q is not a valid duration, using %s", key, raw, def)
		return def
	}
	return d
}

func list(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
