package config

import (
	"os"
	"time"
)

type Config struct {
	Addr        string
	DatabaseURL string
	// RedisAddr is optional; when empty the cart mirror falls back to the
	// in-process implementation.
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	BotToken      string
	// CartMirrorTTL bounds how long a cached cart snapshot is trusted
	// before the next read goes back to the store.
	CartMirrorTTL time.Duration
	// InitDataMaxAge rejects Telegram init data older than this.
	InitDataMaxAge time.Duration
	SeedDemoData   bool
}

func Load() Config {
	return Config{
		Addr:           getEnv("ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		BotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		CartMirrorTTL:  getDuration("CART_MIRROR_TTL", 30*time.Second),
		InitDataMaxAge: getDuration("INIT_DATA_MAX_AGE", 24*time.Hour),
		SeedDemoData:   os.Getenv("SEED_DEMO_DATA") == "1",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
